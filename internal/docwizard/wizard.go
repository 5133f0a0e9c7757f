// Package docwizard drives the multi-step document flows of a consultation:
// compose, preview and sign for written documents, plan and confirm for the
// follow-up appointment.
//
// The sequencer only knows step counts. Everything that depends on the
// document type lives in the document package or in a Finalizer.
package docwizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/timing"
)

// DefaultFeedbackTTL is how long a feedback message stays visible.
const DefaultFeedbackTTL = 2200 * time.Millisecond

var (
	// ErrUnknownType is returned by Open for a type outside document.AllTypes.
	ErrUnknownType = document.ErrUnknownType
	// ErrStepOutOfRange is returned by Open for a step the type does not have.
	ErrStepOutOfRange = errors.New("wizard step out of range")
	// ErrNoFinalizer is returned by Primary when the type has no finalizer.
	ErrNoFinalizer = errors.New("no finalizer registered for document type")
)

// Options configures a Wizard. Scheduler is required; the other zero values
// fall back to defaults.
type Options struct {
	Scheduler   timing.Scheduler
	Clock       timing.Clock
	FeedbackTTL time.Duration
	Finalizers  map[document.Type]Finalizer
	Logger      *logrus.Entry
}

// Result is what Primary did.
type Result struct {
	Finalized bool
	Feedback  string
}

// Wizard is the document sequencer of one workbench.
type Wizard struct {
	draft      *draft.Draft
	clock      timing.Clock
	finalizers map[document.Type]Finalizer
	log        *logrus.Entry

	docType  document.Type
	step     int
	open     bool
	feedback string
	clear    *timing.Debouncer
}

// New creates a closed wizard over d.
func New(d *draft.Draft, opts Options) *Wizard {
	if opts.Clock == nil {
		opts.Clock = timing.SystemClock{}
	}
	if opts.FeedbackTTL <= 0 {
		opts.FeedbackTTL = DefaultFeedbackTTL
	}
	if opts.Finalizers == nil {
		opts.Finalizers = DefaultFinalizers()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	w := &Wizard{
		draft:      d,
		clock:      opts.Clock,
		finalizers: opts.Finalizers,
		log:        opts.Logger,
	}
	w.clear = timing.NewDebouncer(opts.Scheduler, opts.FeedbackTTL, func() {
		w.feedback = ""
	})
	return w
}

// IsOpen reports whether the wizard surface is shown.
func (w *Wizard) IsOpen() bool { return w.open }

// Type returns the current document type. It is empty until the first Open.
func (w *Wizard) Type() document.Type { return w.docType }

// Step returns the current step index.
func (w *Wizard) Step() int { return w.step }

// Steps returns the step labels of the current type.
func (w *Wizard) Steps() []string { return document.Steps(w.docType) }

// StepLabel returns the label of the current step.
func (w *Wizard) StepLabel() string {
	steps := document.Steps(w.docType)
	if w.step < 0 || w.step >= len(steps) {
		return ""
	}
	return steps[w.step]
}

// IsLastStep reports whether the current step is the final one.
func (w *Wizard) IsLastStep() bool {
	return w.step == document.StepCount(w.docType)-1
}

// Feedback returns the transient message, or "".
func (w *Wizard) Feedback() string { return w.feedback }

// Open shows the wizard for t at step (0 when omitted). An invalid type or
// step leaves the state untouched.
func (w *Wizard) Open(t document.Type, step ...int) error {
	s := 0
	if len(step) > 0 {
		s = step[0]
	}
	if !document.IsValid(t) {
		return fmt.Errorf("%w %q", ErrUnknownType, t)
	}
	if !document.ValidStep(t, s) {
		return fmt.Errorf("%w: %s has %d steps, got %d", ErrStepOutOfRange, t, document.StepCount(t), s)
	}

	w.docType = t
	w.step = s
	w.open = true
	w.dropFeedback()

	if t == document.Report && !w.draft.Artifact(document.Report).Edited {
		w.draft.SeedReport(draft.DefaultReportText(w.draft, w.clock.Now()))
	}
	w.log.WithFields(logrus.Fields{"type": t, "step": s}).Debug("wizard opened")
	return nil
}

// Resume opens t where it was left if t was the last type shown, otherwise
// at its first step.
func (w *Wizard) Resume(t document.Type) error {
	if t == w.docType && document.ValidStep(t, w.step) {
		return w.Open(t, w.step)
	}
	return w.Open(t)
}

// Close hides the wizard. The step is kept for Resume.
func (w *Wizard) Close() {
	w.open = false
	w.dropFeedback()
}

// Advance moves one step forward, stopping at the last step.
func (w *Wizard) Advance() {
	if w.step+1 < document.StepCount(w.docType) {
		w.step++
	}
}

// Retreat moves one step back, closing the wizard from the first step.
func (w *Wizard) Retreat() {
	if w.step == 0 {
		w.Close()
		return
	}
	w.step--
}

// Primary is the main footer action: Advance on intermediate steps, and on
// the last step finalize the document, close the surface and show the
// feedback message for a while. A closed wizard ignores it.
func (w *Wizard) Primary() (Result, error) {
	if !w.open {
		return Result{}, nil
	}
	if !w.IsLastStep() {
		w.Advance()
		return Result{}, nil
	}
	fin, ok := w.finalizers[w.docType]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNoFinalizer, w.docType)
	}

	msg := fin(w.draft, w.docType, w.clock.Now())
	w.Close()
	w.feedback = msg
	w.clear.Trigger()

	w.log.WithField("type", w.docType).Info(msg)
	return Result{Finalized: true, Feedback: msg}, nil
}

func (w *Wizard) dropFeedback() {
	w.feedback = ""
	w.clear.Cancel()
}
