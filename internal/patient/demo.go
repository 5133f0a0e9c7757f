package patient

import (
	"fmt"
	"math/rand/v2"
)

var (
	maleFirstNames = []string{
		"Jean", "Pierre", "Michel", "André", "Philippe", "Alain", "Bernard", "Jacques",
		"François", "Christian", "Daniel", "Patrick", "Nicolas", "Olivier", "Laurent",
		"Thierry", "Stéphane", "Éric", "Julien", "Christophe", "Pascal", "Sébastien",
		"Marc", "Vincent", "Antoine", "Alexandre", "Maxime", "Thomas", "Lucas", "Hugo",
		"Louis", "Arthur", "Gabriel", "Raphaël", "Paul", "Jules", "Mathieu", "Romain",
		"Guillaume", "Benoît", "Cédric", "Hervé", "Didier", "Gilles", "Bruno", "Serge",
	}

	femaleFirstNames = []string{
		"Marie", "Nathalie", "Isabelle", "Sylvie", "Catherine", "Françoise", "Valérie",
		"Christine", "Monique", "Sophie", "Patricia", "Martine", "Nicole", "Sandrine",
		"Stéphanie", "Céline", "Julie", "Aurélie", "Caroline", "Laurence", "Émilie",
		"Claire", "Anne", "Camille", "Manon", "Emma", "Léa", "Chloé", "Alice",
		"Charlotte", "Lucie", "Juliette", "Louise", "Hélène", "Delphine", "Brigitte",
		"Véronique", "Mireille", "Élise", "Pauline", "Anaïs", "Inès", "Mathilde", "Noémie",
	}

	lastNames = []string{
		"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit",
		"Durand", "Leroy", "Moreau", "Simon", "Laurent", "Lefebvre", "Michel",
		"Garcia", "David", "Bertrand", "Roux", "Vincent", "Fournier", "Morel",
		"Girard", "André", "Mercier", "Dupont", "Lambert", "Bonnet", "Legrand",
		"Garnier", "Faure", "Rousseau", "Blanc", "Guerin", "Muller", "Henry",
		"Perrin", "Morin", "Gauthier", "Fontaine", "Chevalier", "Robin", "Masson",
		"Boyer", "Denis", "Lemaire", "Dufour", "Renaud", "Barbier", "Marchand", "Picard",
	}

	bloodTypes = []string{"O+", "A+", "B+", "AB+", "O-", "A-", "B-", "AB-"}

	demoAllergies = []string{
		"Pénicilline", "Aspirine", "Iode", "Latex", "Sulfamides", "Arachide", "Codéine",
	}

	demoConditions = []string{
		"Hypertension artérielle", "Diabète de type 2", "Asthme", "Hypothyroïdie",
		"Dyslipidémie", "Fibrillation atriale", "BPCO", "Lombalgie chronique",
	}

	insurers = []string{"CPAM", "MSA", "MGEN", "Harmonie Mutuelle"}
)

// Demo returns a plausible fictitious patient. The same seed always yields
// the same patient.
func Demo(seed uint64) Identity {
	rng := rand.New(rand.NewPCG(seed, seed))

	id := Identity{
		ID:        fmt.Sprintf("DEMO-%06d", rng.IntN(1_000_000)),
		Age:       18 + rng.IntN(73),
		BloodType: pick(rng, bloodTypes),
		LastVisit: fmt.Sprintf("Il y a %d mois", 1+rng.IntN(24)),
		Insurer:   pick(rng, insurers),
		Physician: "Dr. " + pick(rng, lastNames),
	}

	if rng.IntN(2) == 0 {
		id.Gender = "Masculin"
		id.Name = pick(rng, maleFirstNames) + " " + pick(rng, lastNames)
	} else {
		id.Gender = "Féminin"
		id.Name = pick(rng, femaleFirstNames) + " " + pick(rng, lastNames)
	}

	id.Allergies = sample(rng, demoAllergies, rng.IntN(3))
	id.Conditions = sample(rng, demoConditions, rng.IntN(3))
	return id
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.IntN(len(list))]
}

// sample returns n distinct entries of list in list order.
func sample(rng *rand.Rand, list []string, n int) []string {
	if n <= 0 {
		return nil
	}
	chosen := make(map[int]bool, n)
	for len(chosen) < n {
		chosen[rng.IntN(len(list))] = true
	}
	out := make([]string, 0, n)
	for i, s := range list {
		if chosen[i] {
			out = append(out, s)
		}
	}
	return out
}
