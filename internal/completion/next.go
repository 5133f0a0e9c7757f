package completion

import "github.com/mrsinham/consultbench/internal/draft"

// Action is the kind of affordance Next recommends.
type Action int

const (
	JumpToNotes Action = iota
	OpenPrescription
	CloseConsultation
)

// String returns a stable identifier for the action.
func (a Action) String() string {
	switch a {
	case JumpToNotes:
		return "jump-notes"
	case OpenPrescription:
		return "open-rx"
	default:
		return "close-consultation"
	}
}

// Recommendation is the single next step suggested to the clinician.
type Recommendation struct {
	Action Action
	Label  string
}

// Next returns the recommended action for d. It always returns exactly one
// recommendation: notes first, then the prescription, then closing.
func Next(d *draft.Draft) Recommendation {
	s := Compute(d)
	switch {
	case !s.NotesOK:
		return Recommendation{Action: JumpToNotes, Label: "Compléter les notes"}
	case !s.RxOK:
		return Recommendation{Action: OpenPrescription, Label: "Rédiger l'ordonnance"}
	default:
		return Recommendation{Action: CloseConsultation, Label: "Clôturer la consultation"}
	}
}
