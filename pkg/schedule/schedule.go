// Package schedule coalesces rapid-fire updates into bounded-rate deliveries.
//
// Pointer-move events can arrive at well over 100Hz. A [Scheduler] keeps only
// the most recent value and delivers it at most once per interval, so the
// position store sees at most one write per frame. Values are never averaged
// or reordered: the last value scheduled in a window is the one delivered.
//
// The owner of a scheduler must call [Scheduler.Cancel] on teardown so that no
// stray delivery reaches a disposed block.
package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is one frame at 60fps.
const DefaultInterval = 16 * time.Millisecond

// Scheduler delivers the latest scheduled value to a sink at a bounded rate.
// It is safe for concurrent use. The sink runs on the scheduling goroutine for
// [Scheduler.Flush] and on a timer goroutine otherwise; it must not call Flush.
type Scheduler[T any] struct {
	clock    clockwork.Clock
	interval time.Duration
	sink     func(T)

	deliverMu sync.Mutex // serializes sink calls so deliveries keep event order

	mu      sync.Mutex
	pending T
	has     bool
	timer   clockwork.Timer
	gen     uint64
}

// New creates a scheduler delivering to sink. A nil clock uses the real clock
// and a non-positive interval uses [DefaultInterval].
func New[T any](clock clockwork.Clock, interval time.Duration, sink func(T)) *Scheduler[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler[T]{clock: clock, interval: interval, sink: sink}
}

// Schedule records v as the value to deliver at the end of the current window,
// replacing any value not yet delivered. The first call in a window arms the timer.
func (s *Scheduler[T]) Schedule(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = v
	s.has = true
	if s.timer == nil {
		s.gen++
		gen := s.gen
		s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(gen) })
	}
}

// Flush delivers the pending value immediately, if any, and disarms the timer.
// It reports whether a value was delivered.
func (s *Scheduler[T]) Flush() bool {
	return s.Drain()()
}

// Drain disarms the timer and takes the pending value without delivering it.
// The returned function delivers the taken value, in order with any delivery
// already in flight, and reports whether there was one. Owners that guard the
// scheduler with their own lock call Drain under it and the returned function
// after releasing it.
func (s *Scheduler[T]) Drain() (deliver func() bool) {
	s.mu.Lock()
	s.disarm()
	v, ok := s.take()
	s.mu.Unlock()

	return func() bool {
		if !ok {
			return false
		}
		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()
		if s.sink != nil {
			s.sink(v)
		}
		return true
	}
}

// Cancel drops the pending value and disarms the timer without delivering.
func (s *Scheduler[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarm()
	s.take()
}

// Pending reports whether a value is waiting for delivery.
func (s *Scheduler[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.has
}

func (s *Scheduler[T]) fire(gen uint64) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		// Superseded by Flush or Cancel after the timer had already fired.
		s.mu.Unlock()
		return
	}
	s.timer = nil
	v, ok := s.take()
	s.mu.Unlock()

	if ok && s.sink != nil {
		s.sink(v)
	}
}

// disarm stops the timer and invalidates any callback already in flight.
// Callers hold s.mu.
func (s *Scheduler[T]) disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// take clears and returns the pending value. Callers hold s.mu.
func (s *Scheduler[T]) take() (T, bool) {
	var zero T
	v, ok := s.pending, s.has
	s.pending, s.has = zero, false
	return v, ok
}
