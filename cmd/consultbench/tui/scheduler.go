package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerMsg carries a scheduled callback back into Update.
type timerMsg struct {
	fn func()
}

// Scheduler implements timing.Scheduler on top of tea.Tick. Callbacks are
// queued until Drain hands them to the runtime, and they run inside Update,
// so the workbench is only ever touched from the event loop.
type Scheduler struct {
	queued []tea.Cmd
}

// After implements timing.Scheduler.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{fn: fn}
	}))
}

// Pending returns the number of timers not yet handed to the runtime.
func (s *Scheduler) Pending() int { return len(s.queued) }

// Drain returns the queued timers as one command and empties the queue.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}
