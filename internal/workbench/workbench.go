// Package workbench assembles one consultation session: the draft, its
// autosave, the document wizard, the command palette and the export path.
//
// A Workbench is driven from a single goroutine. The host forwards key
// events to HandleKey and runs timer callbacks through the Scheduler it
// supplied.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/consultbench/internal/completion"
	"github.com/mrsinham/consultbench/internal/config"
	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/docwizard"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/logging"
	"github.com/mrsinham/consultbench/internal/palette"
	"github.com/mrsinham/consultbench/internal/patient"
	"github.com/mrsinham/consultbench/internal/persist"
	"github.com/mrsinham/consultbench/internal/render"
	"github.com/mrsinham/consultbench/internal/timing"
)

// KeyPalette toggles the command palette from anywhere.
const KeyPalette = "ctrl+k"

// Navigator is told when the clinician leaves the consultation.
type Navigator interface {
	Leave()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

// Leave implements Navigator.
func (f NavigatorFunc) Leave() { f() }

// Panel is a section of the consultation screen.
type Panel string

const (
	PanelNotes        Panel = "notes"
	PanelAntecedents  Panel = "antecedents"
	PanelVitals       Panel = "vitals"
	PanelPrescription Panel = "prescription"
	PanelLabs         Panel = "labs"
)

// AllPanels returns the panels in screen order.
func AllPanels() []Panel {
	return []Panel{PanelNotes, PanelAntecedents, PanelVitals, PanelPrescription, PanelLabs}
}

// Label returns the French panel title.
func (p Panel) Label() string {
	switch p {
	case PanelNotes:
		return "Notes"
	case PanelAntecedents:
		return "Antécédents"
	case PanelVitals:
		return "Constantes"
	case PanelPrescription:
		return "Prescription"
	case PanelLabs:
		return "Bilan"
	}
	return string(p)
}

// Options configures a Workbench. Storage and Scheduler are required.
type Options struct {
	Patient     patient.Identity
	Storage     persist.Storage
	KeyStrategy persist.KeyStrategy
	Scheduler   timing.Scheduler
	Clock       timing.Clock
	Printer     render.Printer
	Practice    render.Practice
	Navigator   Navigator
	Logger      logrus.FieldLogger

	AutosaveDelay  time.Duration
	StorageTimeout time.Duration
	FeedbackTTL    time.Duration
	FocusDelay     time.Duration
	MaxResults     int
}

// ApplyConfig copies the tunables of cfg into o.
func (o *Options) ApplyConfig(cfg *config.Config) {
	o.KeyStrategy = cfg.KeyStrategy()
	o.AutosaveDelay = cfg.Autosave.Delay
	o.StorageTimeout = cfg.Storage.Timeout
	o.FeedbackTTL = cfg.Wizard.FeedbackTTL
	o.FocusDelay = cfg.Palette.FocusDelay
	o.MaxResults = cfg.Palette.MaxResults
	o.Practice = render.Practice{Physician: cfg.Practice.Physician, Clinic: cfg.Practice.Clinic}
}

// Workbench is one consultation session.
type Workbench struct {
	Draft    *draft.Draft
	Wizard   *docwizard.Wizard
	Palette  *palette.Palette
	Registry *palette.Registry

	autosave  *persist.Adapter
	clock     timing.Clock
	printer   render.Printer
	renderer  render.Renderer
	navigator Navigator
	log       *logrus.Entry
	session   string

	panel       Panel
	notice      string
	clearNotice *timing.Debouncer
	mounted     bool
	closed      bool
}

// New assembles a workbench. A zero Patient is replaced by the placeholder.
func New(opts Options) (*Workbench, error) {
	if opts.Storage == nil {
		return nil, errors.New("workbench needs a storage")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("workbench needs a scheduler")
	}
	if opts.Clock == nil {
		opts.Clock = timing.SystemClock{}
	}
	if opts.Printer == nil {
		opts.Printer = render.NopPrinter{}
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func() {})
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Patient.IsZero() {
		opts.Patient = patient.Placeholder()
	}
	if opts.FeedbackTTL <= 0 {
		opts.FeedbackTTL = docwizard.DefaultFeedbackTTL
	}

	session := uuid.NewString()
	log := opts.Logger.WithField("session", session)

	d := draft.NewWithDefaults(opts.Patient, opts.Clock.Now())
	w := &Workbench{
		Draft:     d,
		Registry:  palette.NewRegistry(),
		clock:     opts.Clock,
		printer:   opts.Printer,
		renderer:  render.Renderer{Practice: opts.Practice},
		navigator: opts.Navigator,
		log:       logging.Component(log, "workbench"),
		session:   session,
		panel:     PanelNotes,
	}
	w.autosave = persist.NewAdapter(d, persist.AdapterOptions{
		Storage:   opts.Storage,
		Key:       persist.Key(opts.Patient, opts.KeyStrategy),
		Scheduler: opts.Scheduler,
		Clock:     opts.Clock,
		Delay:     opts.AutosaveDelay,
		Timeout:   opts.StorageTimeout,
		Logger:    logging.Component(log, "persist"),
	})
	w.Wizard = docwizard.New(d, docwizard.Options{
		Scheduler:   opts.Scheduler,
		Clock:       opts.Clock,
		FeedbackTTL: opts.FeedbackTTL,
		Logger:      logging.Component(log, "wizard"),
	})
	w.Palette = palette.New(w.Registry, palette.Options{
		Scheduler:  opts.Scheduler,
		FocusDelay: opts.FocusDelay,
		Limit:      opts.MaxResults,
	})
	w.clearNotice = timing.NewDebouncer(opts.Scheduler, opts.FeedbackTTL, func() {
		w.notice = ""
	})

	if err := w.registerActions(); err != nil {
		return nil, err
	}
	return w, nil
}

// Session returns the session identifier used in logs.
func (w *Workbench) Session() string { return w.session }

// Key returns the storage key of the draft.
func (w *Workbench) Key() string { return w.autosave.Key() }

// Mount restores the saved draft, if any, and starts autosaving. It reports
// whether a draft was restored.
func (w *Workbench) Mount(ctx context.Context) bool {
	if w.mounted {
		return false
	}
	w.mounted = true
	restored := w.autosave.Hydrate(ctx)
	w.autosave.Watch()
	w.log.WithFields(logrus.Fields{"key": w.Key(), "restored": restored}).Info("workbench mounted")
	return restored
}

// Unmount writes a pending autosave and stops watching the draft.
func (w *Workbench) Unmount() {
	if !w.mounted {
		return
	}
	w.autosave.Flush()
	w.autosave.Stop()
	w.Palette.Close()
	w.Wizard.Close()
	w.clearNotice.Cancel()
	w.mounted = false
	w.log.Info("workbench unmounted")
}

// Closed reports whether the consultation was closed.
func (w *Workbench) Closed() bool { return w.closed }

// HandleKey routes a key event. The palette shortcut works everywhere and an
// open palette swallows every key. It reports whether the key was consumed.
func (w *Workbench) HandleKey(key string) bool {
	if key == KeyPalette {
		if !w.Palette.IsOpen() {
			w.Wizard.Close()
		}
		w.Palette.Toggle()
		return true
	}
	return w.Palette.HandleKey(key)
}

// Panel returns the focused panel.
func (w *Workbench) Panel() Panel { return w.panel }

// Focus moves to panel p and closes the overlays.
func (w *Workbench) Focus(p Panel) {
	w.panel = p
	w.Palette.Close()
	w.Wizard.Close()
}

// Status returns the completion of the draft.
func (w *Workbench) Status() completion.Status { return completion.Compute(w.Draft) }

// Next returns the recommended action.
func (w *Workbench) Next() completion.Recommendation { return completion.Next(w.Draft) }

// RunNext performs the recommended action.
func (w *Workbench) RunNext(ctx context.Context) error {
	rec := w.Next()
	w.log.WithField("action", rec.Action.String()).Debug("running next action")
	switch rec.Action {
	case completion.JumpToNotes:
		w.Focus(PanelNotes)
		return nil
	case completion.OpenPrescription:
		w.Focus(PanelPrescription)
		return w.Wizard.Open(document.Prescription)
	default:
		return w.CloseConsultation(ctx)
	}
}

// OpenDocument shows the wizard for t, resuming where it was left.
func (w *Workbench) OpenDocument(t document.Type) error {
	w.Palette.Close()
	return w.Wizard.Resume(t)
}

// Preview renders document t as it would print now. A report the clinician
// has not edited is seeded from the draft first, as the wizard does.
func (w *Workbench) Preview(t document.Type) (render.Document, error) {
	now := w.clock.Now()
	if t == document.Report {
		w.Draft.SeedReport(draft.DefaultReportText(w.Draft, now))
	}
	return w.renderer.Fragment(t, w.Draft, now)
}

// Export renders document t and sends it to the printer. An unavailable
// printer makes this a no-op.
func (w *Workbench) Export(t document.Type) error {
	doc, err := w.Preview(t)
	if err != nil {
		return err
	}
	err = w.printer.Print(doc.Title, doc.HTML)
	if errors.Is(err, render.ErrUnavailable) {
		w.log.WithField("type", t).Debug("print shell unavailable")
		return nil
	}
	if err != nil {
		return fmt.Errorf("print %s: %w", t, err)
	}
	w.log.WithField("type", t).Info("document exported")
	w.setNotice(doc.Title + " exporté(e)")
	return nil
}

// Save writes the draft immediately.
func (w *Workbench) Save() {
	w.autosave.Save()
	if at, ok := w.autosave.LastSavedAt(); ok {
		w.setNotice("Brouillon enregistré à " + at.Format("15:04:05"))
	}
}

// LastSavedAt returns the time of the last successful autosave.
func (w *Workbench) LastSavedAt() (time.Time, bool) { return w.autosave.LastSavedAt() }

// SavePending reports whether an autosave is scheduled.
func (w *Workbench) SavePending() bool { return w.autosave.Pending() }

// CloseConsultation deletes the saved draft and leaves the workbench.
func (w *Workbench) CloseConsultation(ctx context.Context) error {
	if w.closed {
		return nil
	}
	if err := w.autosave.Discard(ctx); err != nil {
		// The draft stays on disk but the consultation still closes.
		w.log.WithError(err).Warn("could not discard draft")
	}
	w.Palette.Close()
	w.Wizard.Close()
	w.closed = true
	w.log.Info("consultation closed")
	w.navigator.Leave()
	return nil
}

// Notice returns the transient workbench message, or "".
func (w *Workbench) Notice() string { return w.notice }

func (w *Workbench) setNotice(msg string) {
	w.notice = msg
	w.clearNotice.Trigger()
}
