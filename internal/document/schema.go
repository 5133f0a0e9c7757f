package document

import "fmt"

// Field describes one compose input of a document.
type Field struct {
	Key       string
	Label     string
	Multiline bool
}

// Compose field keys.
const (
	FieldNote    = "note"
	FieldFasting = "fasting"
	FieldText    = "text"
	FieldKind    = "kind"
	FieldStart   = "start"
	FieldDays    = "days"
	FieldReason  = "reason"
	FieldDate    = "date"
	FieldTime    = "time"
	FieldMode    = "mode"
)

// Recipient is a party a signed document can be sent to.
type Recipient string

const (
	ToPatient    Recipient = "patient"
	ToPharmacy   Recipient = "pharmacy"
	ToLaboratory Recipient = "laboratory"
	ToReferrer   Recipient = "referrer"
	ToEmployer   Recipient = "employer"
)

// Label returns the French display name of the recipient.
func (r Recipient) Label() string {
	switch r {
	case ToPatient:
		return "patient"
	case ToPharmacy:
		return "pharmacie"
	case ToLaboratory:
		return "laboratoire"
	case ToReferrer:
		return "médecin adresseur"
	case ToEmployer:
		return "employeur"
	}
	return string(r)
}

var fields = map[Type][]Field{
	Prescription: {
		{Key: FieldNote, Label: "Note pour le patient", Multiline: true},
	},
	LabOrder: {
		{Key: FieldNote, Label: "Renseignements cliniques", Multiline: true},
		{Key: FieldFasting, Label: "À jeun (oui/non)"},
	},
	Report: {
		{Key: FieldText, Label: "Texte du compte rendu", Multiline: true},
	},
	Certificate: {
		{Key: FieldKind, Label: "Type de certificat"},
		{Key: FieldText, Label: "Contenu", Multiline: true},
	},
	SickLeave: {
		{Key: FieldStart, Label: "Date de début"},
		{Key: FieldDays, Label: "Nombre de jours"},
		{Key: FieldReason, Label: "Motif", Multiline: true},
	},
	Appointment: {
		{Key: FieldDate, Label: "Date"},
		{Key: FieldTime, Label: "Heure"},
		{Key: FieldMode, Label: "Modalité"},
		{Key: FieldReason, Label: "Motif du suivi"},
	},
}

var recipients = map[Type][]Recipient{
	Prescription: {ToPatient, ToPharmacy},
	LabOrder:     {ToPatient, ToLaboratory},
	Report:       {ToPatient, ToReferrer},
	Certificate:  {ToPatient},
	SickLeave:    {ToPatient, ToEmployer},
	Appointment:  {ToPatient},
}

// Fields returns the compose schema of t, in form order.
func Fields(t Type) []Field {
	return append([]Field(nil), fields[t]...)
}

// HasField checks if key belongs to the schema of t.
func HasField(t Type, key string) bool {
	for _, f := range fields[t] {
		if f.Key == key {
			return true
		}
	}
	return false
}

// CheckField returns ErrUnknownField when key is not part of t's schema.
func CheckField(t Type, key string) error {
	if !IsValid(t) {
		return fmt.Errorf("%w %q", ErrUnknownType, t)
	}
	if !HasField(t, key) {
		return fmt.Errorf("%w %q for %s", ErrUnknownField, key, t)
	}
	return nil
}

// Recipients returns the recipients t can be sent to.
func Recipients(t Type) []Recipient {
	return append([]Recipient(nil), recipients[t]...)
}

// CheckRecipient returns ErrUnknownRecipient when t cannot be sent to r.
func CheckRecipient(t Type, r Recipient) error {
	if !IsValid(t) {
		return fmt.Errorf("%w %q", ErrUnknownType, t)
	}
	for _, allowed := range recipients[t] {
		if allowed == r {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrUnknownRecipient, t, r)
}
