// Package render turns a draft document into a printable HTML fragment and
// hands it to a Printer.
//
// Fragments are produced with html/template, so every user-typed value is
// escaped for the context it lands in.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
)

// Document is a rendered fragment.
type Document struct {
	Title string
	HTML  string
}

// Practice identifies the issuer printed in the footer. Empty fields fall
// back to the patient's physician.
type Practice struct {
	Physician string
	Clinic    string
}

// Renderer renders fragments for one practice.
type Renderer struct {
	Practice Practice
}

// Fragment renders t with the zero Practice.
func Fragment(t document.Type, d *draft.Draft, now time.Time) (Document, error) {
	return Renderer{}.Fragment(t, d, now)
}

type item struct {
	Medication, Dosage, Duration, Instructions string
}

type view struct {
	Title     string
	Date      string
	Clinic    string
	Physician string
	Patient   string
	Allergies string
	Fields    map[string]string
	Items     []item
	Labs      []string
	Committed string
	Pending   string
}

// Fragment renders document t of d as of now.
func (r Renderer) Fragment(t document.Type, d *draft.Draft, now time.Time) (Document, error) {
	tmpl, ok := templates[t]
	if !ok {
		return Document{}, fmt.Errorf("%w %q", document.ErrUnknownType, t)
	}

	a := d.Artifact(t)
	v := view{
		Title:     t.Title(),
		Date:      now.Format("02/01/2006"),
		Clinic:    r.Practice.Clinic,
		Physician: r.Practice.Physician,
		Patient:   d.Patient().Summary(),
		Allergies: d.Patient().AllergyLine(),
		Fields:    a.Fields,
		Labs:      d.LabOrders(),
	}
	if v.Physician == "" {
		v.Physician = d.Patient().Physician
	}
	for _, it := range d.Items() {
		if strings.TrimSpace(it.Medication) == "" {
			continue
		}
		v.Items = append(v.Items, item(it))
	}

	switch {
	case t == document.Appointment && a.ConfirmedAt != nil:
		v.Committed = "Confirmé le " + stamp(*a.ConfirmedAt)
	case t == document.Appointment:
		v.Pending = "À confirmer"
	case a.SignedAt != nil:
		v.Committed = "Signé le " + stamp(*a.SignedAt)
	default:
		v.Pending = "Non signé"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "fragment", v); err != nil {
		return Document{}, fmt.Errorf("render %s: %w", t, err)
	}
	return Document{Title: t.Title(), HTML: buf.String()}, nil
}

func stamp(ts time.Time) string {
	return ts.Format("02/01/2006 à 15:04")
}

const layout = `{{define "fragment"}}<article class="doc">
<header>
{{- if .Clinic}}<p class="clinic">{{.Clinic}}</p>{{end}}
<h1>{{.Title}}</h1>
<p class="date">Le {{.Date}}</p>
<p class="patient">{{.Patient}}</p>
<p class="allergies">Allergies : {{.Allergies}}</p>
</header>
<section>{{template "body" .}}</section>
<footer>
<p class="physician">{{.Physician}}</p>
{{- if .Committed}}<p class="signature">{{.Committed}}</p>{{else}}<p class="signature pending">{{.Pending}}</p>{{end}}
</footer>
</article>{{end}}`

var bodies = map[document.Type]string{
	document.Prescription: `{{define "body"}}
{{- if .Items}}<ol class="items">
{{- range .Items}}
<li><strong>{{.Medication}}</strong>{{if .Dosage}} : {{.Dosage}}{{end}}{{if .Duration}}, pendant {{.Duration}}{{end}}{{if .Instructions}}<br><em>{{.Instructions}}</em>{{end}}</li>
{{- end}}
</ol>{{else}}<p class="empty">Aucun médicament prescrit</p>{{end}}
{{- with index .Fields "note"}}<p class="note">{{.}}</p>{{end}}
{{- end}}`,

	document.LabOrder: `{{define "body"}}
{{- if .Labs}}<ul class="labs">
{{- range .Labs}}
<li>{{.}}</li>
{{- end}}
</ul>{{else}}<p class="empty">Aucune analyse demandée</p>{{end}}
{{- with index .Fields "fasting"}}<p class="fasting">À jeun : {{.}}</p>{{end}}
{{- with index .Fields "note"}}<p class="note">{{.}}</p>{{end}}
{{- end}}`,

	document.Report: `{{define "body"}}<pre class="report">{{index .Fields "text"}}</pre>{{end}}`,

	document.Certificate: `{{define "body"}}
{{- with index .Fields "kind"}}<h2>{{.}}</h2>{{end}}
<p class="text">{{index .Fields "text"}}</p>
{{- end}}`,

	document.SickLeave: `{{define "body"}}<dl>
<dt>Date de début</dt><dd>{{index .Fields "start"}}</dd>
<dt>Durée</dt><dd>{{index .Fields "days"}} jour(s)</dd>
{{- with index .Fields "reason"}}
<dt>Motif</dt><dd>{{.}}</dd>
{{- end}}
</dl>{{end}}`,

	document.Appointment: `{{define "body"}}<dl>
<dt>Date</dt><dd>{{index .Fields "date"}}{{with index .Fields "time"}} à {{.}}{{end}}</dd>
<dt>Modalité</dt><dd>{{index .Fields "mode"}}</dd>
{{- with index .Fields "reason"}}
<dt>Motif</dt><dd>{{.}}</dd>
{{- end}}
</dl>{{end}}`,
}

var templates = func() map[document.Type]*template.Template {
	base := template.Must(template.New("layout").Parse(layout))
	m := make(map[document.Type]*template.Template, len(bodies))
	for t, body := range bodies {
		m[t] = template.Must(template.Must(base.Clone()).Parse(body))
	}
	return m
}()
