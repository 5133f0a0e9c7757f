package timing

import "time"

// Debouncer delays fn until delay has elapsed without a new Trigger.
//
// Each Trigger bumps a generation counter; a scheduled callback only runs fn
// if its generation is still current, so Trigger reschedules and Cancel
// disarms without having to reach into the Scheduler.
type Debouncer struct {
	sched   Scheduler
	delay   time.Duration
	fn      func()
	gen     uint64
	pending bool
}

// NewDebouncer creates a debouncer that calls fn after delay of quiet.
func NewDebouncer(sched Scheduler, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{sched: sched, delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.gen++
	gen := d.gen
	d.pending = true
	d.sched.After(d.delay, func() {
		if gen != d.gen || !d.pending {
			return
		}
		d.pending = false
		d.fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.gen++
	d.pending = false
}

// Flush runs the pending call immediately. It returns false if nothing was
// pending.
func (d *Debouncer) Flush() bool {
	if !d.pending {
		return false
	}
	d.Cancel()
	d.fn()
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool { return d.pending }

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration { return d.delay }
