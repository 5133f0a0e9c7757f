package docwizard

import (
	"strings"
	"time"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
)

// Finalizer commits document t on d at now and returns the feedback message
// shown to the clinician.
type Finalizer func(d *draft.Draft, t document.Type, now time.Time) string

// DefaultFinalizers returns the finalizer of every document type.
func DefaultFinalizers() map[document.Type]Finalizer {
	m := make(map[document.Type]Finalizer, len(document.AllTypes()))
	for _, t := range document.AllTypes() {
		m[t] = SignAndSend
	}
	m[document.Appointment] = ConfirmAppointment
	return m
}

// SignAndSend stamps the signature of t. The message names the selected
// recipients when there are any.
func SignAndSend(d *draft.Draft, t document.Type, now time.Time) string {
	first := d.Sign(t, now)
	a := d.Artifact(t)

	signed := agree(t, "signé")
	if !first {
		return t.Title() + " déjà " + signed
	}

	sel := a.Selected()
	if len(sel) == 0 {
		return t.Title() + " " + signed
	}
	labels := make([]string, len(sel))
	for i, r := range sel {
		labels[i] = r.Label()
	}
	return t.Title() + " " + signed + " et " + agree(t, "envoyé") + " (" + strings.Join(labels, ", ") + ")"
}

// ConfirmAppointment stamps the follow-up appointment as confirmed.
func ConfirmAppointment(d *draft.Draft, _ document.Type, now time.Time) string {
	first := d.Confirm(now)
	if !first {
		return "Rendez-vous déjà confirmé"
	}
	if d.Recipient(document.Appointment, document.ToPatient) {
		return "Rendez-vous confirmé et patient notifié"
	}
	return "Rendez-vous confirmé"
}

func agree(t document.Type, participle string) string {
	if t.Feminine() {
		return participle + "e"
	}
	return participle
}
