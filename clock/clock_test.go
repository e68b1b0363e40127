package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSchedulerFiresInDeadlineOrder(t *testing.T) {
	s := NewScheduler(epoch)
	var got []string

	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	s.Step(5 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("fired too early: %v", got)
	}

	s.Step(100 * time.Millisecond)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("fired %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !s.Now().Equal(epoch.Add(105 * time.Millisecond)) {
		t.Errorf("Now() = %v", s.Now())
	}
}

func TestSchedulerClockVisibleInsideCallback(t *testing.T) {
	s := NewScheduler(epoch)
	var at time.Time
	s.AfterFunc(20*time.Millisecond, func() { at = s.Now() })
	s.Step(time.Second)
	if !at.Equal(epoch.Add(20 * time.Millisecond)) {
		t.Errorf("callback saw %v, want deadline time", at)
	}
}

func TestSchedulerStop(t *testing.T) {
	s := NewScheduler(epoch)
	fired := false
	tm := s.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !tm.Stop() {
		t.Error("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	s.Step(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestSchedulerZeroDelayIsDeferred(t *testing.T) {
	s := NewScheduler(epoch)
	fired := false
	s.AfterFunc(0, func() { fired = true })
	if fired {
		t.Fatal("zero-delay timer fired synchronously")
	}
	s.Advance(epoch)
	if !fired {
		t.Error("zero-delay timer did not fire on Advance")
	}
}

func TestSchedulerNestedTimers(t *testing.T) {
	s := NewScheduler(epoch)
	count := 0
	s.AfterFunc(10*time.Millisecond, func() {
		count++
		s.AfterFunc(10*time.Millisecond, func() { count++ })
	})
	s.Step(50 * time.Millisecond)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestStopAfterFire(t *testing.T) {
	s := NewScheduler(epoch)
	tm := s.AfterFunc(time.Millisecond, func() {})
	s.Step(time.Second)
	if tm.Stop() {
		t.Error("Stop after fire should report false")
	}
}
