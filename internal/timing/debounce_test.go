package timing

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestDebouncer_FiresAfterQuietPeriod(t *testing.T) {
	sched := NewManualScheduler(epoch)
	calls := 0
	d := NewDebouncer(sched, 650*time.Millisecond, func() { calls++ })

	d.Trigger()
	sched.Advance(600 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("fired before quiet period: %d calls", calls)
	}
	sched.Advance(50 * time.Millisecond)
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if d.Pending() {
		t.Error("Debouncer should not be pending after firing")
	}
}

func TestDebouncer_RetriggerReschedules(t *testing.T) {
	sched := NewManualScheduler(epoch)
	calls := 0
	d := NewDebouncer(sched, 650*time.Millisecond, func() { calls++ })

	for i := 0; i < 5; i++ {
		d.Trigger()
		sched.Advance(300 * time.Millisecond)
	}
	if calls != 0 {
		t.Fatalf("burst should not fire, got %d calls", calls)
	}
	sched.Advance(650 * time.Millisecond)
	if calls != 1 {
		t.Errorf("Expected exactly 1 call after burst, got %d", calls)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	sched := NewManualScheduler(epoch)
	calls := 0
	d := NewDebouncer(sched, time.Second, func() { calls++ })

	d.Trigger()
	d.Cancel()
	sched.Advance(2 * time.Second)
	if calls != 0 {
		t.Errorf("cancelled debouncer fired %d times", calls)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	sched := NewManualScheduler(epoch)
	calls := 0
	d := NewDebouncer(sched, time.Second, func() { calls++ })

	if d.Flush() {
		t.Error("Flush with nothing pending should return false")
	}
	d.Trigger()
	if !d.Flush() {
		t.Error("Flush should report the pending call")
	}
	sched.Advance(2 * time.Second)
	if calls != 1 {
		t.Errorf("Expected flush to run once and disarm the timer, got %d calls", calls)
	}
}

func TestManualScheduler_OrderAndNow(t *testing.T) {
	sched := NewManualScheduler(epoch)
	var order []string
	var seenAt []time.Time

	sched.After(2*time.Second, func() { order = append(order, "b"); seenAt = append(seenAt, sched.Now()) })
	sched.After(time.Second, func() {
		order = append(order, "a")
		seenAt = append(seenAt, sched.Now())
		sched.After(500*time.Millisecond, func() { order = append(order, "a2") })
	})

	sched.Advance(3 * time.Second)

	want := []string{"a", "a2", "b"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if !seenAt[0].Equal(epoch.Add(time.Second)) {
		t.Errorf("first callback saw %v, want %v", seenAt[0], epoch.Add(time.Second))
	}
	if !sched.Now().Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("Now() = %v after advance", sched.Now())
	}
	if sched.Pending() != 0 {
		t.Errorf("Expected empty queue, got %d", sched.Pending())
	}
}
