package patient

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IdentityYAML is the on-disk form of an Identity.
type IdentityYAML struct {
	ID         string   `yaml:"id,omitempty"`
	Name       string   `yaml:"name"`
	Age        int      `yaml:"age"`
	Gender     string   `yaml:"gender,omitempty"`
	BloodType  string   `yaml:"blood_type,omitempty"`
	Allergies  []string `yaml:"allergies,omitempty"`
	Conditions []string `yaml:"conditions,omitempty"`
	LastVisit  string   `yaml:"last_visit,omitempty"`
	Insurer    string   `yaml:"insurer,omitempty"`
	Physician  string   `yaml:"physician,omitempty"`
}

// LoadYAML reads an identity file.
func LoadYAML(path string) (Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Identity{}, fmt.Errorf("reading patient file: %w", err)
	}

	var doc IdentityYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Identity{}, fmt.Errorf("parsing patient file: %w", err)
	}
	if doc.Name == "" {
		return Identity{}, fmt.Errorf("patient file %s: name is required", path)
	}

	return Identity{
		ID:         doc.ID,
		Name:       doc.Name,
		Age:        doc.Age,
		Gender:     doc.Gender,
		BloodType:  doc.BloodType,
		Allergies:  copyStrings(doc.Allergies),
		Conditions: copyStrings(doc.Conditions),
		LastVisit:  doc.LastVisit,
		Insurer:    doc.Insurer,
		Physician:  doc.Physician,
	}, nil
}

// SaveYAML writes id to path.
func SaveYAML(id Identity, path string) error {
	doc := IdentityYAML{
		ID:         id.ID,
		Name:       id.Name,
		Age:        id.Age,
		Gender:     id.Gender,
		BloodType:  id.BloodType,
		Allergies:  copyStrings(id.Allergies),
		Conditions: copyStrings(id.Conditions),
		LastVisit:  id.LastVisit,
		Insurer:    id.Insurer,
		Physician:  id.Physician,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding patient file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing patient file: %w", err)
	}
	return nil
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
