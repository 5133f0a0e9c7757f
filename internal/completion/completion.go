// Package completion derives readiness flags and the next recommended
// action from a consultation draft. Everything here is a pure function of
// the draft.
package completion

import (
	"strings"

	"github.com/mrsinham/consultbench/internal/draft"
)

// Total is the number of tracked categories.
const Total = 5

// Status holds the readiness of each category.
type Status struct {
	VitalsOK bool
	NotesOK  bool
	RxOK     bool
	LabsOK   bool
	DocsOK   bool
	Done     int
	Total    int
}

// requiredVitals must all be filled for VitalsOK. Height and respiratory
// rate are optional.
var requiredVitals = []draft.VitalField{
	draft.Systolic, draft.Diastolic, draft.HeartRate,
	draft.Temperature, draft.OxygenSat, draft.Weight,
}

// requiredNotes must all be non-blank for NotesOK.
var requiredNotes = []draft.NoteField{
	draft.Motif, draft.Symptoms, draft.Examination, draft.Diagnosis,
}

// Compute evaluates d.
func Compute(d *draft.Draft) Status {
	s := Status{
		VitalsOK: vitalsOK(d),
		NotesOK:  notesOK(d),
		RxOK:     rxOK(d),
		// Lab orders and extra documents have no mandatory minimum.
		LabsOK: true,
		DocsOK: true,
		Total:  Total,
	}
	for _, ok := range []bool{s.VitalsOK, s.NotesOK, s.RxOK, s.LabsOK, s.DocsOK} {
		if ok {
			s.Done++
		}
	}
	return s
}

func vitalsOK(d *draft.Draft) bool {
	for _, f := range requiredVitals {
		if d.Vital(f) == "" {
			return false
		}
	}
	return true
}

func notesOK(d *draft.Draft) bool {
	for _, f := range requiredNotes {
		if strings.TrimSpace(d.Note(f)) == "" {
			return false
		}
	}
	return true
}

func rxOK(d *draft.Draft) bool {
	for _, it := range d.Items() {
		if strings.TrimSpace(it.Medication) != "" {
			return true
		}
	}
	return false
}

// Percent returns Done/Total as a whole percentage.
func (s Status) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Done * 100 / s.Total
}

// Missing returns the French labels of the incomplete categories.
func (s Status) Missing() []string {
	var out []string
	if !s.VitalsOK {
		out = append(out, "constantes")
	}
	if !s.NotesOK {
		out = append(out, "notes")
	}
	if !s.RxOK {
		out = append(out, "ordonnance")
	}
	return out
}
