// ABOUTME: Lock-free stopwatch for measuring refill latency
// ABOUTME: Records last, max and mean lap durations readable from any goroutine
package timing

import (
	"sync/atomic"
	"time"
)

// Stats summarizes recorded laps
type Stats struct {
	Last  time.Duration
	Max   time.Duration
	Mean  time.Duration
	Count int64
}

// Stopwatch measures the time from Reset to Lap.
//
// Reset and Lap are called from a single context. Stats may be read
// concurrently.
type Stopwatch struct {
	now   func() time.Time
	start time.Time

	last  atomic.Int64
	max   atomic.Int64
	total atomic.Int64
	count atomic.Int64
}

// NewStopwatch creates a stopwatch using the wall clock
func NewStopwatch() *Stopwatch {
	return NewStopwatchWithClock(time.Now)
}

// NewStopwatchWithClock creates a stopwatch reading time from now
func NewStopwatchWithClock(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now}
}

// Reset marks the start of a measured section
func (s *Stopwatch) Reset() {
	s.start = s.now()
}

// Lap records the time since Reset and returns it
func (s *Stopwatch) Lap() time.Duration {
	d := s.now().Sub(s.start)
	ns := int64(d)

	s.last.Store(ns)
	s.total.Add(ns)
	s.count.Add(1)
	for {
		cur := s.max.Load()
		if ns <= cur || s.max.CompareAndSwap(cur, ns) {
			break
		}
	}
	return d
}

// Stats returns a snapshot of recorded laps
func (s *Stopwatch) Stats() Stats {
	count := s.count.Load()
	st := Stats{
		Last:  time.Duration(s.last.Load()),
		Max:   time.Duration(s.max.Load()),
		Count: count,
	}
	if count > 0 {
		st.Mean = time.Duration(s.total.Load() / count)
	}
	return st
}

// Clear drops all recorded laps
func (s *Stopwatch) Clear() {
	s.last.Store(0)
	s.max.Store(0)
	s.total.Store(0)
	s.count.Store(0)
}
