package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/timing"
)

// Defaults for AdapterOptions.
const (
	DefaultDelay   = 650 * time.Millisecond
	DefaultTimeout = 2 * time.Second
)

// AdapterOptions configures an Adapter. Storage, Key and Scheduler are
// required.
type AdapterOptions struct {
	Storage   Storage
	Key       string
	Scheduler timing.Scheduler
	Clock     timing.Clock
	Delay     time.Duration
	// Timeout bounds every storage call.
	Timeout time.Duration
	Logger  *logrus.Entry
}

// Adapter keeps one draft in sync with one storage key.
type Adapter struct {
	draft   *draft.Draft
	storage Storage
	key     string
	clock   timing.Clock
	timeout time.Duration
	log     *logrus.Entry

	save        *timing.Debouncer
	unsubscribe func()
	lastSaved   time.Time
}

// NewAdapter binds d to opts.Key. Nothing is read or written until Hydrate
// or Watch is called.
func NewAdapter(d *draft.Draft, opts AdapterOptions) *Adapter {
	if opts.Clock == nil {
		opts.Clock = timing.SystemClock{}
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	a := &Adapter{
		draft:   d,
		storage: opts.Storage,
		key:     opts.Key,
		clock:   opts.Clock,
		timeout: opts.Timeout,
		log:     opts.Logger.WithField("key", opts.Key),
	}
	a.save = timing.NewDebouncer(opts.Scheduler, opts.Delay, a.write)
	return a
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Hydrate merges the stored draft into the in-memory one. A missing or
// unreadable record leaves the draft as it is. It reports whether anything
// was restored.
func (a *Adapter) Hydrate(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	snap, err := Load(ctx, a.storage, a.key)
	if errors.Is(err, ErrNotFound) {
		a.log.Debug("no saved draft")
		return false
	}
	if err != nil {
		a.log.WithError(err).Warn("ignoring saved draft")
		return false
	}

	snap.Apply(a.draft)
	a.log.WithField("savedAt", snap.SavedAt).Info("draft restored")
	return true
}

// Watch subscribes to draft changes. Each persisted change restarts the
// quiet period; when it ends the current draft is written.
func (a *Adapter) Watch() {
	if a.unsubscribe != nil {
		return
	}
	a.unsubscribe = a.draft.OnChange(func(c draft.Change) {
		if persisted(c) {
			a.save.Trigger()
		}
	})
}

// persisted reports whether c touches a field the snapshot carries.
func persisted(c draft.Change) bool {
	switch c.Section {
	case draft.SectionNotes, draft.SectionAntecedents, draft.SectionVitals,
		draft.SectionItems, draft.SectionLabs:
		return true
	case draft.SectionCompose:
		return (c.Doc == document.Prescription && c.Field == document.FieldNote) ||
			(c.Doc == document.Report && c.Field == document.FieldText)
	}
	return false
}

// Pending reports whether a write is scheduled.
func (a *Adapter) Pending() bool { return a.save.Pending() }

// Flush writes now if a write is scheduled.
func (a *Adapter) Flush() bool { return a.save.Flush() }

// Save cancels any scheduled write and writes the draft immediately.
func (a *Adapter) Save() {
	a.save.Cancel()
	a.write()
}

// Stop unsubscribes and drops a scheduled write.
func (a *Adapter) Stop() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.save.Cancel()
}

// Discard stops the adapter and deletes the stored draft.
func (a *Adapter) Discard(ctx context.Context) error {
	a.Stop()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.storage.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	a.lastSaved = time.Time{}
	a.log.Info("draft discarded")
	return nil
}

// LastSavedAt returns the time of the last successful write.
func (a *Adapter) LastSavedAt() (time.Time, bool) {
	return a.lastSaved, !a.lastSaved.IsZero()
}

func (a *Adapter) write() {
	now := a.clock.Now()
	data, err := Take(a.draft, now).Marshal()
	if err != nil {
		a.log.WithError(err).Warn("encode draft")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.storage.Set(ctx, a.key, data); err != nil {
		a.log.WithError(err).Warn("autosave failed")
		return
	}
	a.lastSaved = now
	a.log.Debug("draft saved")
}

// Load reads and decodes the snapshot stored under key.
func Load(ctx context.Context, s Storage, key string) (Snapshot, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return Snapshot{}, err
	}
	return Unmarshal(data)
}
