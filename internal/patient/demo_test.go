package patient

import (
	"reflect"
	"strings"
	"testing"
)

func TestDemo_Deterministic(t *testing.T) {
	a, b := Demo(42), Demo(42)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Same seed should produce same patient: %+v != %+v", a, b)
	}
}

func TestDemo_Plausible(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		id := Demo(seed)

		if len(strings.Fields(id.Name)) < 2 {
			t.Errorf("seed %d: name should have first and last name, got %q", seed, id.Name)
		}
		if id.Age < 18 || id.Age > 90 {
			t.Errorf("seed %d: age out of range: %d", seed, id.Age)
		}
		if id.Gender != "Masculin" && id.Gender != "Féminin" {
			t.Errorf("seed %d: unexpected gender %q", seed, id.Gender)
		}
		if !strings.HasPrefix(id.ID, "DEMO-") {
			t.Errorf("seed %d: unexpected id %q", seed, id.ID)
		}
		if len(id.Allergies) > 2 || len(id.Conditions) > 2 {
			t.Errorf("seed %d: too many allergies or conditions: %v %v", seed, id.Allergies, id.Conditions)
		}
		seen := map[string]bool{}
		for _, c := range id.Conditions {
			if seen[c] {
				t.Errorf("seed %d: duplicate condition %q", seed, c)
			}
			seen[c] = true
		}
		if id.IsZero() {
			t.Errorf("seed %d: demo patient should not be zero", seed)
		}
	}
}

func TestDemo_FirstNameMatchesGender(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		id := Demo(seed)
		first := strings.Fields(id.Name)[0]
		list := femaleFirstNames
		if id.Gender == "Masculin" {
			list = maleFirstNames
		}
		found := false
		for _, n := range list {
			if n == first {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("seed %d: first name %q not in the %s list", seed, first, id.Gender)
		}
	}
}
