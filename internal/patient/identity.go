// Package patient holds the read-only patient identity handed to the
// workbench by its host, and loaders for the supported identity sources.
package patient

import (
	"fmt"
	"strings"
)

// Identity describes the patient of a consultation. The workbench never
// mutates it.
type Identity struct {
	ID         string
	Name       string
	Age        int
	Gender     string
	BloodType  string
	Allergies  []string
	Conditions []string
	LastVisit  string
	Insurer    string
	Physician  string
}

// Placeholder returns the built-in patient used when the host supplies none.
func Placeholder() Identity {
	return Identity{
		Name:       "Patient Démonstration",
		Age:        45,
		Gender:     "Féminin",
		BloodType:  "O+",
		Allergies:  []string{"Pénicilline"},
		Conditions: []string{"Hypertension artérielle"},
		LastVisit:  "Première consultation",
		Insurer:    "CPAM",
		Physician:  "Médecin traitant",
	}
}

// IsZero reports whether no identity was supplied.
func (id Identity) IsZero() bool {
	return strings.TrimSpace(id.Name) == "" && id.Age == 0 && id.ID == ""
}

// Summary returns the one-line identity used in headers:
// "Name, 45 ans, Féminin, groupe O+".
func (id Identity) Summary() string {
	parts := []string{displayName(id.Name)}
	if id.Age > 0 {
		parts = append(parts, fmt.Sprintf("%d ans", id.Age))
	}
	if id.Gender != "" {
		parts = append(parts, id.Gender)
	}
	if id.BloodType != "" {
		parts = append(parts, "groupe "+id.BloodType)
	}
	return strings.Join(parts, ", ")
}

// AllergyLine returns the allergies joined for display, or "Aucune allergie connue".
func (id Identity) AllergyLine() string {
	if len(id.Allergies) == 0 {
		return "Aucune allergie connue"
	}
	return strings.Join(id.Allergies, ", ")
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Patient"
	}
	return name
}
