package persist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrsinham/consultbench/internal/patient"
)

// KeyPrefix starts every draft key.
const KeyPrefix = "consultation-draft:"

// KeyStrategy selects how a patient maps to a storage key.
type KeyStrategy string

const (
	// ByNameAge keys on display name and age. Two patients sharing both
	// share a draft.
	ByNameAge KeyStrategy = "name-age"
	// ByPatientID keys on the patient identifier, falling back to ByNameAge
	// when the identity has none.
	ByPatientID KeyStrategy = "patient-id"
)

// ErrUnknownStrategy is returned by ParseKeyStrategy.
var ErrUnknownStrategy = errors.New("unknown key strategy")

// AllKeyStrategies returns the supported strategies.
func AllKeyStrategies() []KeyStrategy {
	return []KeyStrategy{ByNameAge, ByPatientID}
}

// ParseKeyStrategy parses s. The empty string means ByNameAge.
func ParseKeyStrategy(s string) (KeyStrategy, error) {
	if s == "" {
		return ByNameAge, nil
	}
	for _, k := range AllKeyStrategies() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q, valid strategies: %v", ErrUnknownStrategy, s, AllKeyStrategies())
}

// Key returns the storage key of id's draft.
func Key(id patient.Identity, strategy KeyStrategy) string {
	if strategy == ByPatientID && strings.TrimSpace(id.ID) != "" {
		return KeyPrefix + "id:" + slug(id.ID)
	}
	return KeyPrefix + slug(id.Name) + ":" + strconv.Itoa(id.Age)
}

// slug lower-cases s and joins its whitespace-separated words with '-'.
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
