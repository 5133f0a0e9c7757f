package patient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrNoPatientName is returned when a DICOM header carries no PatientName.
var ErrNoPatientName = errors.New("dicom header has no patient name")

// LoadDICOM reads the patient module of a DICOM file header. Pixel data is
// not parsed.
func LoadDICOM(path string) (Identity, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return Identity{}, fmt.Errorf("parsing dicom file: %w", err)
	}
	return FromDataset(ds)
}

// FromDataset extracts an identity from a parsed dataset.
func FromDataset(ds dicom.Dataset) (Identity, error) {
	name := FormatPersonName(firstString(ds, tag.PatientName))
	if name == "" {
		return Identity{}, ErrNoPatientName
	}

	return Identity{
		ID:        firstString(ds, tag.PatientID),
		Name:      name,
		Age:       ParseAgeString(firstString(ds, tag.PatientAge)),
		Gender:    sexLabel(firstString(ds, tag.PatientSex)),
		Physician: FormatPersonName(firstString(ds, tag.ReferringPhysicianName)),
	}, nil
}

func firstString(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return ""
	}
	values, ok := elem.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// FormatPersonName turns a DICOM PN value ("Family^Given^Middle") into
// "Given Middle Family".
func FormatPersonName(pn string) string {
	pn = strings.TrimSpace(pn)
	if pn == "" {
		return ""
	}
	// Only the alphabetic component group is used.
	if i := strings.Index(pn, "="); i >= 0 {
		pn = pn[:i]
	}
	parts := strings.Split(pn, "^")
	family := strings.TrimSpace(parts[0])
	var given []string
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			given = append(given, p)
		}
	}
	if len(given) > 2 {
		given = given[:2]
	}
	if family != "" {
		given = append(given, family)
	}
	return strings.Join(given, " ")
}

// ParseAgeString converts a DICOM AS value ("042Y", "018M") to whole years.
// Ages given in weeks or days, and malformed values, count as 0.
func ParseAgeString(as string) int {
	as = strings.TrimSpace(strings.ToUpper(as))
	if len(as) < 2 {
		return 0
	}
	n, err := strconv.Atoi(as[:len(as)-1])
	if err != nil || n < 0 {
		return 0
	}
	switch as[len(as)-1] {
	case 'Y':
		return n
	case 'M':
		return n / 12
	}
	return 0
}

func sexLabel(code string) string {
	switch strings.ToUpper(code) {
	case "M":
		return "Masculin"
	case "F":
		return "Féminin"
	case "O":
		return "Autre"
	}
	return ""
}
