// Package document describes the clinical documents a consultation can
// produce: their type tags, wizard step sequences, compose field schemas and
// allowed recipients.
package document

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the tag of a clinical document.
type Type string

const (
	Prescription Type = "rx"          // Ordonnance
	LabOrder     Type = "labs"        // Bilan biologique
	Report       Type = "report"      // Compte rendu
	Certificate  Type = "certificate" // Certificat médical
	SickLeave    Type = "sickleave"   // Arrêt de travail
	Appointment  Type = "rdv"         // Rendez-vous de suivi
)

var (
	// ErrUnknownType is returned for a tag outside AllTypes.
	ErrUnknownType = errors.New("unknown document type")
	// ErrUnknownField is returned for a compose field not in the type's schema.
	ErrUnknownField = errors.New("unknown compose field")
	// ErrUnknownRecipient is returned for a recipient the type cannot be sent to.
	ErrUnknownRecipient = errors.New("recipient not allowed for document type")
)

// AllTypes returns every document type in display order.
func AllTypes() []Type {
	return []Type{Prescription, LabOrder, Report, Certificate, SickLeave, Appointment}
}

// IsValid checks if t is one of AllTypes.
func IsValid(t Type) bool {
	for _, valid := range AllTypes() {
		if valid == t {
			return true
		}
	}
	return false
}

// ParseType parses a document tag, case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !IsValid(t) {
		return "", fmt.Errorf("%w %q, valid types: %v", ErrUnknownType, s, AllTypes())
	}
	return t, nil
}

// Title returns the French display name of the document.
func (t Type) Title() string {
	switch t {
	case Prescription:
		return "Ordonnance"
	case LabOrder:
		return "Bilan biologique"
	case Report:
		return "Compte rendu"
	case Certificate:
		return "Certificat médical"
	case SickLeave:
		return "Arrêt de travail"
	case Appointment:
		return "Rendez-vous"
	}
	return string(t)
}

// Feminine reports whether the French title takes feminine agreement
// ("signée" rather than "signé").
func (t Type) Feminine() bool {
	return t == Prescription
}

// Step labels.
const (
	StepCompose = "Compose"
	StepPreview = "Preview"
	StepSign    = "Sign"
	StepPlan    = "Plan"
	StepConfirm = "Confirm"
)

var (
	signSteps    = []string{StepCompose, StepPreview, StepSign}
	confirmSteps = []string{StepPlan, StepConfirm}
)

// Steps returns the wizard step sequence for t. The returned slice is a copy.
// Unknown types have no steps.
func Steps(t Type) []string {
	var steps []string
	switch t {
	case Prescription, LabOrder, Report, Certificate, SickLeave:
		steps = signSteps
	case Appointment:
		steps = confirmSteps
	default:
		return nil
	}
	return append([]string(nil), steps...)
}

// StepCount returns len(Steps(t)) without copying.
func StepCount(t Type) int {
	switch t {
	case Prescription, LabOrder, Report, Certificate, SickLeave:
		return len(signSteps)
	case Appointment:
		return len(confirmSteps)
	}
	return 0
}

// ValidStep checks that (t, step) is inside the enumerated step space.
func ValidStep(t Type, step int) bool {
	return step >= 0 && step < StepCount(t)
}
