package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
)

// editor is a huh form bound to local copies of draft values. apply writes
// the copies back through the draft setters once the form completes.
type editor struct {
	title string
	form  *huh.Form
	apply func()
}

func newForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(false).
		WithShowErrors(true)
}

func notesEditor(d *draft.Draft) *editor {
	values := make(map[draft.NoteField]*string)
	var fields []huh.Field
	for _, f := range draft.AllNoteFields() {
		v := d.Note(f)
		values[f] = &v
		fields = append(fields, huh.NewText().
			Key(string(f)).
			Title(f.Label()).
			Lines(3).
			Value(&v))
	}
	return &editor{
		title: "Notes de consultation",
		form:  newForm(fields...),
		apply: func() {
			for _, f := range draft.AllNoteFields() {
				if *values[f] != d.Note(f) {
					_ = d.SetNote(f, *values[f])
				}
			}
		},
	}
}

func antecedentsEditor(d *draft.Draft) *editor {
	values := make(map[draft.AntecedentKind]*string)
	var fields []huh.Field
	for _, k := range draft.AllAntecedentKinds() {
		v := d.Antecedent(k)
		values[k] = &v
		fields = append(fields, huh.NewText().
			Key(string(k)).
			Title(k.Label()).
			Lines(2).
			Value(&v))
	}
	return &editor{
		title: "Antécédents",
		form:  newForm(fields...),
		apply: func() {
			for _, k := range draft.AllAntecedentKinds() {
				if *values[k] != d.Antecedent(k) {
					_ = d.SetAntecedent(k, *values[k])
				}
			}
		},
	}
}

func vitalsEditor(d *draft.Draft) *editor {
	values := make(map[draft.VitalField]*string)
	var fields []huh.Field
	for _, f := range draft.AllVitalFields() {
		v := d.Vital(f)
		values[f] = &v
		fields = append(fields, huh.NewInput().
			Key(string(f)).
			Title(f.Label()).
			Value(&v))
	}
	return &editor{
		title: "Constantes",
		form:  newForm(fields...),
		apply: func() {
			for _, f := range draft.AllVitalFields() {
				if *values[f] != d.Vital(f) {
					_ = d.SetVital(f, *values[f])
				}
			}
		},
	}
}

func itemEditor(d *draft.Draft) *editor {
	var it draft.Item
	return &editor{
		title: "Nouvelle ligne d'ordonnance",
		form: newForm(
			huh.NewInput().
				Key(string(draft.ItemMedication)).
				Title("Médicament").
				Value(&it.Medication).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("médicament requis")
					}
					return nil
				}),
			huh.NewInput().
				Key(string(draft.ItemDosage)).
				Title("Posologie").
				Placeholder("ex. 1 comprimé matin et soir").
				Value(&it.Dosage),
			huh.NewInput().
				Key(string(draft.ItemDuration)).
				Title("Durée").
				Placeholder("ex. 7 jours").
				Value(&it.Duration),
			huh.NewInput().
				Key(string(draft.ItemInstructions)).
				Title("Instructions").
				Value(&it.Instructions),
		),
		apply: func() {
			if strings.TrimSpace(it.Medication) != "" {
				d.AddItem(it)
			}
		},
	}
}

// labOptions returns the quick picks followed by any custom order already in
// the draft.
func labOptions(d *draft.Draft) []string {
	opts := append([]string(nil), draft.CommonLabOrders...)
	for _, o := range d.LabOrders() {
		known := false
		for _, c := range opts {
			if c == o {
				known = true
				break
			}
		}
		if !known {
			opts = append(opts, o)
		}
	}
	return opts
}

func labsEditor(d *draft.Draft) *editor {
	selected := d.LabOrders()
	var custom string
	return &editor{
		title: "Bilan biologique",
		form: newForm(
			huh.NewMultiSelect[string]().
				Key("orders").
				Title("Analyses").
				Options(huh.NewOptions(labOptions(d)...)...).
				Value(&selected),
			huh.NewInput().
				Key("custom").
				Title("Autre analyse").
				Value(&custom),
		),
		apply: func() {
			applyLabSelection(d, selected, custom)
		},
	}
}

// applyLabSelection makes the draft's lab orders match selected plus custom,
// keeping the order in which existing analyses were requested.
func applyLabSelection(d *draft.Draft, selected []string, custom string) {
	keep := make(map[string]bool, len(selected))
	for _, s := range selected {
		keep[s] = true
	}
	for _, o := range d.LabOrders() {
		if !keep[o] {
			d.RemoveLabOrder(o)
		}
	}
	for _, s := range selected {
		d.AddLabOrder(s)
	}
	d.AddLabOrder(custom)
}

func composeEditor(d *draft.Draft, t document.Type) *editor {
	schema := document.Fields(t)
	values := make(map[string]*string, len(schema))
	var fields []huh.Field
	for _, f := range schema {
		v := d.Field(t, f.Key)
		values[f.Key] = &v
		if f.Multiline {
			fields = append(fields, huh.NewText().Key(f.Key).Title(f.Label).Lines(5).Value(&v))
			continue
		}
		fields = append(fields, huh.NewInput().Key(f.Key).Title(f.Label).Value(&v))
	}
	return &editor{
		title: t.Title(),
		form:  newForm(fields...),
		apply: func() {
			// Unchanged values are skipped so an untouched report keeps
			// following the notes.
			for _, f := range schema {
				if *values[f.Key] != d.Field(t, f.Key) {
					_ = d.SetField(t, f.Key, *values[f.Key])
				}
			}
		},
	}
}

func recipientsEditor(d *draft.Draft, t document.Type) *editor {
	var (
		options  []huh.Option[string]
		selected []string
	)
	for _, r := range document.Recipients(t) {
		options = append(options, huh.NewOption(r.Label(), string(r)))
		if d.Recipient(t, r) {
			selected = append(selected, string(r))
		}
	}
	return &editor{
		title: "Destinataires",
		form: newForm(
			huh.NewMultiSelect[string]().
				Key("recipients").
				Title("Envoyer à").
				Options(options...).
				Value(&selected),
		),
		apply: func() {
			applyRecipients(d, t, selected)
		},
	}
}

func applyRecipients(d *draft.Draft, t document.Type, selected []string) {
	on := make(map[string]bool, len(selected))
	for _, s := range selected {
		on[s] = true
	}
	for _, r := range document.Recipients(t) {
		if d.Recipient(t, r) != on[string(r)] {
			_ = d.SetRecipient(t, r, on[string(r)])
		}
	}
}
