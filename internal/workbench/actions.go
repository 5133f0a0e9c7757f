package workbench

import (
	"context"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/palette"
)

// Palette groups.
const (
	GroupDocuments  = "Documents"
	GroupNavigation = "Navigation"
	GroupExport     = "Impression"
	GroupSession    = "Consultation"
)

var documentHints = map[document.Type]string{
	document.Prescription: "Prescription médicamenteuse",
	document.LabOrder:     "Analyses de laboratoire",
	document.Report:       "Courrier de consultation",
	document.Certificate:  "Certificat d'aptitude ou de constatation",
	document.SickLeave:    "Avis d'arrêt de travail",
	document.Appointment:  "Planifier le suivi",
}

// registerActions fills the palette. Document actions come first so the
// unfiltered list shows them.
func (w *Workbench) registerActions() error {
	var actions []palette.Action

	for _, t := range document.AllTypes() {
		actions = append(actions, palette.Action{
			ID:    "open-" + string(t),
			Label: "Ouvrir " + t.Title(),
			Hint:  documentHints[t],
			Group: GroupDocuments,
			Run: func() {
				if err := w.OpenDocument(t); err != nil {
					w.log.WithError(err).Warn("open document")
				}
			},
		})
	}

	actions = append(actions,
		palette.Action{
			ID:    "next",
			Label: "Action suivante",
			Hint:  "Étape recommandée",
			Group: GroupSession,
			Run: func() {
				if err := w.RunNext(context.Background()); err != nil {
					w.log.WithError(err).Warn("next action")
				}
			},
		},
		palette.Action{
			ID:    "save",
			Label: "Enregistrer le brouillon",
			Hint:  "Sauvegarde immédiate",
			Group: GroupSession,
			Run:   w.Save,
		},
	)

	for _, p := range AllPanels() {
		actions = append(actions, palette.Action{
			ID:    "jump-" + string(p),
			Label: "Aller à " + p.Label(),
			Group: GroupNavigation,
			Run:   func() { w.Focus(p) },
		})
	}

	for _, t := range document.AllTypes() {
		actions = append(actions, palette.Action{
			ID:    "print-" + string(t),
			Label: "Imprimer " + t.Title(),
			Hint:  "Export HTML",
			Group: GroupExport,
			Run: func() {
				if err := w.Export(t); err != nil {
					w.log.WithError(err).Warn("export document")
				}
			},
		})
	}

	actions = append(actions, palette.Action{
		ID:    "close",
		Label: "Clôturer la consultation",
		Hint:  "Supprime le brouillon",
		Group: GroupSession,
		Run: func() {
			_ = w.CloseConsultation(context.Background())
		},
	})

	for _, a := range actions {
		if err := w.Registry.Register(a); err != nil {
			return err
		}
	}
	return nil
}
