// Package timing provides the delayed-callback primitives used by the
// workbench: a Scheduler abstraction, a manually advanced scheduler for
// tests, and a generation-guarded Debouncer.
//
// All callbacks are expected to run on the host's event goroutine. Nothing in
// this package takes a lock.
package timing

import (
	"sort"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs fn once after d has elapsed.
//
// Implementations must invoke fn on the same goroutine that mutates the
// workbench state (the bubbletea Update loop, or the test goroutine).
type Scheduler interface {
	After(d time.Duration, fn func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

type pending struct {
	at  time.Time
	seq int
	fn  func()
}

// ManualScheduler is a Scheduler and Clock whose time only moves when
// Advance is called. Callbacks fire in deadline order, ties in scheduling
// order.
type ManualScheduler struct {
	now   time.Time
	seq   int
	queue []pending
}

// NewManualScheduler creates a scheduler starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now implements Clock.
func (m *ManualScheduler) Now() time.Time { return m.now }

// After implements Scheduler.
func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.seq++
	m.queue = append(m.queue, pending{at: m.now.Add(d), seq: m.seq, fn: fn})
}

// Pending returns the number of callbacks not yet fired.
func (m *ManualScheduler) Pending() int { return len(m.queue) }

// Advance moves time forward by d and fires every callback whose deadline
// is reached, including callbacks scheduled by callbacks fired during the
// same advance.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next, ok := m.popDue(target)
		if !ok {
			break
		}
		if next.at.After(m.now) {
			m.now = next.at
		}
		next.fn()
	}
	m.now = target
}

func (m *ManualScheduler) popDue(target time.Time) (pending, bool) {
	if len(m.queue) == 0 {
		return pending{}, false
	}
	sort.SliceStable(m.queue, func(i, j int) bool {
		if m.queue[i].at.Equal(m.queue[j].at) {
			return m.queue[i].seq < m.queue[j].seq
		}
		return m.queue[i].at.Before(m.queue[j].at)
	})
	head := m.queue[0]
	if head.at.After(target) {
		return pending{}, false
	}
	m.queue = m.queue[1:]
	return head, true
}
