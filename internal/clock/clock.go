// Package clock provides an injectable time source so time-dependent
// code can be tested deterministically.
package clock

import "time"

// Clock is a monotonic time source. Implementations must return
// non-decreasing values from Now.
type Clock interface {
	Now() time.Time
}

// System returns a Clock backed by time.Now. Go's time.Now carries a
// monotonic reading, so differences between values are safe for
// measuring elapsed time across wall-clock adjustments.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Fake is a manually advanced Clock for tests. Not safe for concurrent use.
type Fake struct {
	current time.Time
}

// NewFake creates a Fake initialized to start. A zero start is replaced
// with a fixed non-zero instant to avoid zero-time edge cases.
func NewFake(start time.Time) *Fake {
	if start.IsZero() {
		start = time.Unix(1_000_000_000, 0)
	}
	return &Fake{current: start}
}

// Now returns the fake clock's current instant.
func (f *Fake) Now() time.Time { return f.current }

// Advance moves the clock forward by d. Panics if d is negative to
// preserve monotonicity.
func (f *Fake) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: Fake.Advance called with negative duration")
	}
	f.current = f.current.Add(d)
}

// Set jumps the clock to t. Prefer Advance in tests; Set is for initialization.
func (f *Fake) Set(t time.Time) { f.current = t }
