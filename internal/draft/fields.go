package draft

import (
	"errors"
	"fmt"
)

// NoteField names a narrative field of the consultation.
type NoteField string

const (
	Motif       NoteField = "motif"
	Symptoms    NoteField = "symptoms"
	Examination NoteField = "examination"
	Diagnosis   NoteField = "diagnosis"
	Conclusion  NoteField = "conclusion"
)

// AllNoteFields returns the narrative fields in report order.
func AllNoteFields() []NoteField {
	return []NoteField{Motif, Symptoms, Examination, Diagnosis, Conclusion}
}

// Label returns the French heading of the field.
func (f NoteField) Label() string {
	switch f {
	case Motif:
		return "Motif"
	case Symptoms:
		return "Symptômes"
	case Examination:
		return "Examen clinique"
	case Diagnosis:
		return "Diagnostic"
	case Conclusion:
		return "Conclusion"
	}
	return string(f)
}

// AntecedentKind names one of the four antecedent categories.
type AntecedentKind string

const (
	Medical   AntecedentKind = "medical"
	Surgical  AntecedentKind = "surgical"
	Traumatic AntecedentKind = "traumatic"
	Family    AntecedentKind = "family"
)

// AllAntecedentKinds returns the antecedent categories in display order.
func AllAntecedentKinds() []AntecedentKind {
	return []AntecedentKind{Medical, Surgical, Traumatic, Family}
}

// Label returns the French heading of the category.
func (k AntecedentKind) Label() string {
	switch k {
	case Medical:
		return "Médicaux"
	case Surgical:
		return "Chirurgicaux"
	case Traumatic:
		return "Traumatiques"
	case Family:
		return "Familiaux"
	}
	return string(k)
}

// VitalField names a vital sign. Values are stored as typed by the clinician.
type VitalField string

const (
	Systolic        VitalField = "systolic"
	Diastolic       VitalField = "diastolic"
	HeartRate       VitalField = "heartRate"
	Temperature     VitalField = "temperature"
	Weight          VitalField = "weight"
	OxygenSat       VitalField = "oxygenSat"
	Height          VitalField = "height"
	RespiratoryRate VitalField = "respiratoryRate"
)

// AllVitalFields returns every vital sign in form order.
func AllVitalFields() []VitalField {
	return []VitalField{Systolic, Diastolic, HeartRate, Temperature, Weight, OxygenSat, Height, RespiratoryRate}
}

// Label returns the French label of the vital sign.
func (f VitalField) Label() string {
	switch f {
	case Systolic:
		return "TA systolique (mmHg)"
	case Diastolic:
		return "TA diastolique (mmHg)"
	case HeartRate:
		return "Fréquence cardiaque (bpm)"
	case Temperature:
		return "Température (°C)"
	case Weight:
		return "Poids (kg)"
	case OxygenSat:
		return "SpO2 (%)"
	case Height:
		return "Taille (cm)"
	case RespiratoryRate:
		return "Fréquence respiratoire (/min)"
	}
	return string(f)
}

// Item is one prescription line.
type Item struct {
	Medication   string
	Dosage       string
	Duration     string
	Instructions string
}

// ItemField names a column of a prescription line.
type ItemField string

const (
	ItemMedication   ItemField = "medication"
	ItemDosage       ItemField = "dosage"
	ItemDuration     ItemField = "duration"
	ItemInstructions ItemField = "instructions"
)

var (
	// ErrUnknownField is returned for a field name outside the draft schema.
	ErrUnknownField = errors.New("unknown draft field")
	// ErrItemIndex is returned when a prescription line index is out of range.
	ErrItemIndex = errors.New("prescription item index out of range")
)

func validNote(f NoteField) bool {
	for _, n := range AllNoteFields() {
		if n == f {
			return true
		}
	}
	return false
}

func validAntecedent(k AntecedentKind) bool {
	for _, a := range AllAntecedentKinds() {
		if a == k {
			return true
		}
	}
	return false
}

func validVital(f VitalField) bool {
	for _, v := range AllVitalFields() {
		if v == f {
			return true
		}
	}
	return false
}

func (it *Item) set(f ItemField, v string) error {
	switch f {
	case ItemMedication:
		it.Medication = v
	case ItemDosage:
		it.Dosage = v
	case ItemDuration:
		it.Duration = v
	case ItemInstructions:
		it.Instructions = v
	default:
		return fmt.Errorf("%w: item %q", ErrUnknownField, f)
	}
	return nil
}
