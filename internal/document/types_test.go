package document

import (
	"errors"
	"testing"
)

func TestSteps(t *testing.T) {
	tests := []struct {
		typ  Type
		want []string
	}{
		{Prescription, []string{"Compose", "Preview", "Sign"}},
		{LabOrder, []string{"Compose", "Preview", "Sign"}},
		{Report, []string{"Compose", "Preview", "Sign"}},
		{Certificate, []string{"Compose", "Preview", "Sign"}},
		{SickLeave, []string{"Compose", "Preview", "Sign"}},
		{Appointment, []string{"Plan", "Confirm"}},
	}

	for _, tc := range tests {
		got := Steps(tc.typ)
		if len(got) != len(tc.want) {
			t.Errorf("Steps(%s) = %v, want %v", tc.typ, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Steps(%s)[%d] = %s, want %s", tc.typ, i, got[i], tc.want[i])
			}
		}
		if StepCount(tc.typ) != len(tc.want) {
			t.Errorf("StepCount(%s) = %d, want %d", tc.typ, StepCount(tc.typ), len(tc.want))
		}
	}
}

func TestSteps_ReturnsCopy(t *testing.T) {
	steps := Steps(Prescription)
	steps[0] = "mutated"
	if Steps(Prescription)[0] != StepCompose {
		t.Error("Steps must not expose the shared sequence")
	}
}

func TestValidStep(t *testing.T) {
	if !ValidStep(Appointment, 1) {
		t.Error("rdv step 1 should be valid")
	}
	if ValidStep(Appointment, 2) {
		t.Error("rdv step 2 should be out of range")
	}
	if ValidStep(Report, -1) {
		t.Error("negative step should be invalid")
	}
	if ValidStep(Type("fax"), 0) {
		t.Error("unknown type has no valid step")
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType(" RX ")
	if err != nil {
		t.Fatalf("ParseType returned error: %v", err)
	}
	if got != Prescription {
		t.Errorf("ParseType(RX) = %s, want rx", got)
	}

	_, err = ParseType("fax")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("Expected ErrUnknownType, got %v", err)
	}
}

func TestCheckFieldAndRecipient(t *testing.T) {
	if err := CheckField(Report, FieldText); err != nil {
		t.Errorf("report text should be a field: %v", err)
	}
	if err := CheckField(Report, FieldDays); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if err := CheckRecipient(Prescription, ToPharmacy); err != nil {
		t.Errorf("rx should be sendable to pharmacy: %v", err)
	}
	if err := CheckRecipient(Certificate, ToPharmacy); !errors.Is(err, ErrUnknownRecipient) {
		t.Errorf("Expected ErrUnknownRecipient, got %v", err)
	}
}

func TestEveryTypeHasSchema(t *testing.T) {
	for _, typ := range AllTypes() {
		if len(Fields(typ)) == 0 {
			t.Errorf("%s has no compose fields", typ)
		}
		if len(Recipients(typ)) == 0 {
			t.Errorf("%s has no recipients", typ)
		}
		if typ.Title() == string(typ) {
			t.Errorf("%s has no display title", typ)
		}
	}
}
