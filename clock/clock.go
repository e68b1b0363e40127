// Package clock provides the time source shared by camera animations and
// pointer captors.
//
// The engine is single-threaded: timer callbacks must run on the same
// goroutine as input handling and rendering. Scheduler satisfies this by
// firing timers only from Advance, which the host calls once per frame
// (or tests call with a manual time).
package clock

import (
	"container/heap"
	"time"
)

// Clock is a time source able to schedule callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules f to run once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by Clock.AfterFunc.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired
	// or was already stopped.
	Stop() bool
}

// Scheduler is a cooperative Clock. Time only moves when Advance or Step
// is called, and due timers fire synchronously inside those calls in
// deadline order (ties in scheduling order).
//
// Scheduler is NOT safe for concurrent use.
type Scheduler struct {
	now    time.Time
	timers timerHeap
	seq    uint64
}

// NewScheduler creates a scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// AfterFunc schedules f at Now()+d. A non-positive d fires on the next
// Advance, never synchronously.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &schedTimer{
		s:    s,
		when: s.now.Add(d),
		seq:  s.seq,
		fn:   f,
	}
	heap.Push(&s.timers, t)
	return t
}

// Advance moves the clock to now and fires every timer due at or before it.
// Timers scheduled by callbacks fire in the same call when they are already
// due. Moving backwards is ignored.
func (s *Scheduler) Advance(now time.Time) {
	for len(s.timers) > 0 {
		next := s.timers[0]
		if next.when.After(now) {
			break
		}
		heap.Pop(&s.timers)
		if next.when.After(s.now) {
			s.now = next.when
		}
		next.fired = true
		next.fn()
	}
	if now.After(s.now) {
		s.now = now
	}
}

// Step advances the clock by d.
func (s *Scheduler) Step(d time.Duration) {
	s.Advance(s.now.Add(d))
}

// Pending returns the number of timers not yet fired or stopped.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

type schedTimer struct {
	s     *Scheduler
	when  time.Time
	seq   uint64
	fn    func()
	index int
	fired bool
}

func (t *schedTimer) Stop() bool {
	if t.fired || t.index < 0 {
		return false
	}
	heap.Remove(&t.s.timers, t.index)
	return true
}

// timerHeap orders timers by deadline, then by creation order.
type timerHeap []*schedTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*schedTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Real is the wall clock. Its timers run on their own goroutines, so it is
// only suitable when the host serializes callbacks itself; interactive
// loops should drive a Scheduler with Advance(time.Now()) instead.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
