// Package draft implements the in-memory record of one consultation: notes,
// antecedents, vitals, prescription lines, lab orders and the compose and
// signing state of every document.
//
// A Draft is owned by a single workbench and is not safe for concurrent use.
// Every mutation is synchronous and notifies the subscribers registered with
// OnChange.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/patient"
)

// Section identifies the part of the draft a Change touched.
type Section string

const (
	SectionNotes       Section = "notes"
	SectionAntecedents Section = "antecedents"
	SectionVitals      Section = "vitals"
	SectionItems       Section = "items"
	SectionLabs        Section = "labs"
	SectionCompose     Section = "compose"
	SectionRecipients  Section = "recipients"
	SectionSignature   Section = "signature"
)

// Change describes one mutation. Doc and Field are set when meaningful for
// the section.
type Change struct {
	Section Section
	Doc     document.Type
	Field   string
}

// Artifact is the compose and signing state of one document.
type Artifact struct {
	Type        document.Type
	Fields      map[string]string
	Recipients  map[document.Recipient]bool
	SignedAt    *time.Time
	ConfirmedAt *time.Time
	// Edited is set once the clinician wrote the report text. It stops
	// SeedReport from replacing it.
	Edited bool
}

func newArtifact(t document.Type) *Artifact {
	a := &Artifact{
		Type:       t,
		Fields:     make(map[string]string),
		Recipients: make(map[document.Recipient]bool),
	}
	for _, f := range document.Fields(t) {
		a.Fields[f.Key] = ""
	}
	return a
}

// Clone returns a deep copy.
func (a *Artifact) Clone() Artifact {
	c := Artifact{
		Type:       a.Type,
		Fields:     make(map[string]string, len(a.Fields)),
		Recipients: make(map[document.Recipient]bool, len(a.Recipients)),
		Edited:     a.Edited,
	}
	for k, v := range a.Fields {
		c.Fields[k] = v
	}
	for k, v := range a.Recipients {
		c.Recipients[k] = v
	}
	if a.SignedAt != nil {
		ts := *a.SignedAt
		c.SignedAt = &ts
	}
	if a.ConfirmedAt != nil {
		ts := *a.ConfirmedAt
		c.ConfirmedAt = &ts
	}
	return c
}

// Committed reports whether the document was signed, or confirmed for an
// appointment.
func (a Artifact) Committed() bool {
	if a.Type == document.Appointment {
		return a.ConfirmedAt != nil
	}
	return a.SignedAt != nil
}

// Selected returns the enabled recipients in schema order.
func (a Artifact) Selected() []document.Recipient {
	var out []document.Recipient
	for _, r := range document.Recipients(a.Type) {
		if a.Recipients[r] {
			out = append(out, r)
		}
	}
	return out
}

// Draft is the consultation record.
type Draft struct {
	patient     patient.Identity
	notes       map[NoteField]string
	antecedents map[AntecedentKind]string
	vitals      map[VitalField]string
	items       []Item
	labs        []string
	artifacts   map[document.Type]*Artifact

	listeners map[int]func(Change)
	nextID    int
	revision  uint64
}

// New creates an empty draft for p.
func New(p patient.Identity) *Draft {
	d := &Draft{
		patient:     p,
		notes:       make(map[NoteField]string),
		antecedents: make(map[AntecedentKind]string),
		vitals:      make(map[VitalField]string),
		artifacts:   make(map[document.Type]*Artifact),
		listeners:   make(map[int]func(Change)),
	}
	for _, t := range document.AllTypes() {
		d.artifacts[t] = newArtifact(t)
	}
	return d
}

// NewWithDefaults creates a draft seeded with clinical defaults.
func NewWithDefaults(p patient.Identity, now time.Time) *Draft {
	d := New(p)
	if len(p.Conditions) > 0 {
		d.antecedents[Medical] = strings.Join(p.Conditions, ", ")
	}
	d.artifacts[document.Certificate].Fields[document.FieldKind] = "Certificat médical"
	d.artifacts[document.SickLeave].Fields[document.FieldStart] = now.Format("02/01/2006")
	d.artifacts[document.SickLeave].Fields[document.FieldDays] = "3"
	d.artifacts[document.Appointment].Fields[document.FieldDate] = now.AddDate(0, 0, 14).Format("02/01/2006")
	d.artifacts[document.Appointment].Fields[document.FieldMode] = "Cabinet"
	return d
}

// OnChange registers fn to be called after every mutation. The returned
// function unregisters it.
func (d *Draft) OnChange(fn func(Change)) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

// Revision counts mutations since creation.
func (d *Draft) Revision() uint64 { return d.revision }

func (d *Draft) changed(c Change) {
	d.revision++
	for _, fn := range d.listeners {
		fn(c)
	}
}

// Patient returns the read-only identity.
func (d *Draft) Patient() patient.Identity { return d.patient }

// Note returns a narrative field.
func (d *Draft) Note(f NoteField) string { return d.notes[f] }

// SetNote sets a narrative field.
func (d *Draft) SetNote(f NoteField, v string) error {
	if !validNote(f) {
		return fmt.Errorf("%w: note %q", ErrUnknownField, f)
	}
	d.notes[f] = v
	d.changed(Change{Section: SectionNotes, Field: string(f)})
	return nil
}

// Notes returns a copy of all narrative fields.
func (d *Draft) Notes() map[NoteField]string {
	out := make(map[NoteField]string, len(d.notes))
	for k, v := range d.notes {
		out[k] = v
	}
	return out
}

// Antecedent returns an antecedent category.
func (d *Draft) Antecedent(k AntecedentKind) string { return d.antecedents[k] }

// SetAntecedent sets an antecedent category.
func (d *Draft) SetAntecedent(k AntecedentKind, v string) error {
	if !validAntecedent(k) {
		return fmt.Errorf("%w: antecedent %q", ErrUnknownField, k)
	}
	d.antecedents[k] = v
	d.changed(Change{Section: SectionAntecedents, Field: string(k)})
	return nil
}

// Antecedents returns a copy of all antecedent categories.
func (d *Draft) Antecedents() map[AntecedentKind]string {
	out := make(map[AntecedentKind]string, len(d.antecedents))
	for k, v := range d.antecedents {
		out[k] = v
	}
	return out
}

// Vital returns a vital sign as typed.
func (d *Draft) Vital(f VitalField) string { return d.vitals[f] }

// SetVital sets a vital sign.
func (d *Draft) SetVital(f VitalField, v string) error {
	if !validVital(f) {
		return fmt.Errorf("%w: vital %q", ErrUnknownField, f)
	}
	d.vitals[f] = v
	d.changed(Change{Section: SectionVitals, Field: string(f)})
	return nil
}

// Vitals returns a copy of all vital signs.
func (d *Draft) Vitals() map[VitalField]string {
	out := make(map[VitalField]string, len(d.vitals))
	for k, v := range d.vitals {
		out[k] = v
	}
	return out
}

// BMI is the derived body-mass index of the current weight and height.
func (d *Draft) BMI() (string, bool) {
	return BMI(d.vitals[Weight], d.vitals[Height])
}

// Items returns a copy of the prescription lines.
func (d *Draft) Items() []Item {
	return append([]Item(nil), d.items...)
}

// AddItem appends a prescription line and returns its index.
func (d *Draft) AddItem(it Item) int {
	d.items = append(d.items, it)
	d.changed(Change{Section: SectionItems})
	return len(d.items) - 1
}

// SetItems replaces every prescription line.
func (d *Draft) SetItems(items []Item) {
	d.items = append([]Item(nil), items...)
	d.changed(Change{Section: SectionItems})
}

// RemoveItem deletes line i; later lines shift down by one.
func (d *Draft) RemoveItem(i int) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: %d of %d", ErrItemIndex, i, len(d.items))
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	d.changed(Change{Section: SectionItems})
	return nil
}

// UpdateItem sets one column of line i.
func (d *Draft) UpdateItem(i int, f ItemField, v string) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: %d of %d", ErrItemIndex, i, len(d.items))
	}
	if err := d.items[i].set(f, v); err != nil {
		return err
	}
	d.changed(Change{Section: SectionItems, Field: string(f)})
	return nil
}

// LabOrders returns a copy of the ordered analyses.
func (d *Draft) LabOrders() []string {
	return append([]string(nil), d.labs...)
}

// HasLabOrder reports whether name (trimmed) is already ordered.
func (d *Draft) HasLabOrder(name string) bool {
	name = strings.TrimSpace(name)
	for _, l := range d.labs {
		if l == name {
			return true
		}
	}
	return false
}

// AddLabOrder appends the trimmed name. Blank names and names already
// present are ignored; the result reports whether the list changed.
func (d *Draft) AddLabOrder(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || d.HasLabOrder(name) {
		return false
	}
	d.labs = append(d.labs, name)
	d.changed(Change{Section: SectionLabs})
	return true
}

// RemoveLabOrder removes name and reports whether it was present.
func (d *Draft) RemoveLabOrder(name string) bool {
	name = strings.TrimSpace(name)
	for i, l := range d.labs {
		if l == name {
			d.labs = append(d.labs[:i], d.labs[i+1:]...)
			d.changed(Change{Section: SectionLabs})
			return true
		}
	}
	return false
}

// Artifact returns a copy of the state of document t.
func (d *Draft) Artifact(t document.Type) Artifact {
	a, ok := d.artifacts[t]
	if !ok {
		return Artifact{Type: t}
	}
	return a.Clone()
}

// Field returns a compose field of document t.
func (d *Draft) Field(t document.Type, key string) string {
	if a, ok := d.artifacts[t]; ok {
		return a.Fields[key]
	}
	return ""
}

// SetField sets a compose field of document t. Writing the report text
// marks the report as edited.
func (d *Draft) SetField(t document.Type, key, v string) error {
	if err := document.CheckField(t, key); err != nil {
		return err
	}
	a := d.artifacts[t]
	a.Fields[key] = v
	if t == document.Report && key == document.FieldText {
		a.Edited = true
	}
	d.changed(Change{Section: SectionCompose, Doc: t, Field: key})
	return nil
}

// SeedReport writes text as the report body unless the clinician already
// edited it. It reports whether the text was written.
func (d *Draft) SeedReport(text string) bool {
	a := d.artifacts[document.Report]
	if a.Edited {
		return false
	}
	if a.Fields[document.FieldText] == text {
		return true
	}
	a.Fields[document.FieldText] = text
	d.changed(Change{Section: SectionCompose, Doc: document.Report, Field: document.FieldText})
	return true
}

// Recipient reports whether document t is flagged for r.
func (d *Draft) Recipient(t document.Type, r document.Recipient) bool {
	if a, ok := d.artifacts[t]; ok {
		return a.Recipients[r]
	}
	return false
}

// SetRecipient flags document t for r.
func (d *Draft) SetRecipient(t document.Type, r document.Recipient, on bool) error {
	if err := document.CheckRecipient(t, r); err != nil {
		return err
	}
	d.artifacts[t].Recipients[r] = on
	d.changed(Change{Section: SectionRecipients, Doc: t, Field: string(r)})
	return nil
}

// Sign stamps document t as signed at now. A document already signed keeps
// its first timestamp. It reports whether the stamp was written.
func (d *Draft) Sign(t document.Type, now time.Time) bool {
	a, ok := d.artifacts[t]
	if !ok || a.SignedAt != nil {
		return false
	}
	ts := now
	a.SignedAt = &ts
	d.changed(Change{Section: SectionSignature, Doc: t})
	return true
}

// Confirm stamps the follow-up appointment as confirmed at now, once.
func (d *Draft) Confirm(now time.Time) bool {
	a := d.artifacts[document.Appointment]
	if a.ConfirmedAt != nil {
		return false
	}
	ts := now
	a.ConfirmedAt = &ts
	d.changed(Change{Section: SectionSignature, Doc: document.Appointment})
	return true
}
