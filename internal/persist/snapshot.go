package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// Snapshot is the persisted subset of a draft. Signatures, confirmations and
// recipient flags are deliberately absent: they never survive a reload.
type Snapshot struct {
	Version     int               `json:"version"`
	SavedAt     time.Time         `json:"savedAt"`
	Notes       map[string]string `json:"notes,omitempty"`
	Antecedents map[string]string `json:"antecedents,omitempty"`
	Vitals      map[string]string `json:"vitals,omitempty"`
	Items       []ItemRecord      `json:"items,omitempty"`
	LabOrders   []string          `json:"labOrders,omitempty"`
	RxNote      string            `json:"rxNote,omitempty"`
	ReportText  string            `json:"reportText,omitempty"`

	// ReportEdited keeps an edited report body apart from a seeded one,
	// including an edited body cleared to "".
	ReportEdited bool `json:"reportEdited,omitempty"`
}

// ItemRecord is the wire form of a prescription line.
type ItemRecord struct {
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// Take captures the persisted fields of d.
func Take(d *draft.Draft, now time.Time) Snapshot {
	s := Snapshot{
		Version:     SnapshotVersion,
		SavedAt:     now,
		Notes:       make(map[string]string),
		Antecedents: make(map[string]string),
		Vitals:      make(map[string]string),
		LabOrders:   d.LabOrders(),
		RxNote:      d.Field(document.Prescription, document.FieldNote),
	}
	for k, v := range d.Notes() {
		s.Notes[string(k)] = v
	}
	for k, v := range d.Antecedents() {
		s.Antecedents[string(k)] = v
	}
	for k, v := range d.Vitals() {
		s.Vitals[string(k)] = v
	}
	for _, it := range d.Items() {
		s.Items = append(s.Items, ItemRecord(it))
	}
	if d.Artifact(document.Report).Edited {
		s.ReportText = d.Field(document.Report, document.FieldText)
		s.ReportEdited = true
	}
	return s
}

// Apply merges s into d key by key. Fields s does not mention keep their
// current value and keys d does not know are skipped.
func (s Snapshot) Apply(d *draft.Draft) {
	for k, v := range s.Notes {
		_ = d.SetNote(draft.NoteField(k), v)
	}
	for k, v := range s.Antecedents {
		_ = d.SetAntecedent(draft.AntecedentKind(k), v)
	}
	for k, v := range s.Vitals {
		_ = d.SetVital(draft.VitalField(k), v)
	}
	if len(s.Items) > 0 {
		items := make([]draft.Item, len(s.Items))
		for i, it := range s.Items {
			items[i] = draft.Item(it)
		}
		d.SetItems(items)
	}
	for _, l := range s.LabOrders {
		d.AddLabOrder(l)
	}
	if s.RxNote != "" {
		_ = d.SetField(document.Prescription, document.FieldNote, s.RxNote)
	}
	if s.ReportEdited || s.ReportText != "" {
		_ = d.SetField(document.Report, document.FieldText, s.ReportText)
	}
}

// Marshal encodes s.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes a stored snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
