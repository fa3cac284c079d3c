// Package stopwatch implements a pausable, accumulating elapsed-time
// counter for instrumenting training loops. A Stopwatch accumulates
// running time across arbitrary Run/Pause cycles and can be snapshotted
// and restored without losing the measured total.
package stopwatch

import (
	"fmt"
	"strings"
	"time"

	"trainwatch/internal/clock"
)

// Stopwatch tracks accumulated running time. The zero-value-equivalent
// initial state (from New) is idle with zero accumulated time. Not safe
// for concurrent use; callers sharing one across goroutines must
// serialize access externally.
type Stopwatch struct {
	clk          clock.Clock
	accumulated  time.Duration
	runningSince time.Time // zero while paused
	started      bool      // Run has been called at least once since Reset
}

// Option configures a Stopwatch.
type Option func(*Stopwatch)

// WithClock overrides the time source. Tests inject a clock.Fake here.
func WithClock(c clock.Clock) Option {
	return func(s *Stopwatch) { s.clk = c }
}

// New creates an idle Stopwatch with zero accumulated time.
func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{clk: clock.System()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run starts (or resumes) the stopwatch. Calling Run while already
// running is a no-op, so nested scoped uses accumulate total running
// time rather than nesting depth.
func (s *Stopwatch) Run() {
	if s.running() {
		return
	}
	s.runningSince = s.clk.Now()
	s.started = true
}

// Pause stops accumulation, folding the in-flight interval into the
// total. Calling Pause while already paused is a no-op. Panics if the
// stopwatch has never been run: there is nothing to pause, and the call
// indicates a bug in the calling loop.
func (s *Stopwatch) Pause() {
	if !s.started {
		panic("stopwatch: Pause called before Run")
	}
	if !s.running() {
		return
	}
	s.accumulated += s.clk.Now().Sub(s.runningSince)
	s.runningSince = time.Time{}
}

// Add increases the accumulated time by d. Panics if d is negative;
// use Run/Pause to move time, not negative adjustments.
func (s *Stopwatch) Add(d time.Duration) {
	if d < 0 {
		panic("stopwatch: Add called with negative duration")
	}
	s.accumulated += d
}

// Sub decreases the accumulated time by d. Panics if d is negative or
// exceeds the accumulated total, which would break the non-negative
// accumulator invariant.
func (s *Stopwatch) Sub(d time.Duration) {
	if d < 0 {
		panic("stopwatch: Sub called with negative duration")
	}
	if d > s.accumulated {
		panic("stopwatch: Sub exceeds accumulated time")
	}
	s.accumulated -= d
}

// Reset returns the stopwatch to its initial idle state with zero
// accumulated time, regardless of prior state.
func (s *Stopwatch) Reset() {
	s.accumulated = 0
	s.runningSince = time.Time{}
	s.started = false
}

// Elapsed returns the total measured time: the accumulated total plus,
// while running, the in-flight interval. Pure query; returns 0 for a
// stopwatch that has never run.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running() {
		return s.accumulated + s.clk.Now().Sub(s.runningSince)
	}
	return s.accumulated
}

// During measures fn: the stopwatch runs for the duration of the call
// and is paused again on every exit path, including a panic in fn.
func (s *Stopwatch) During(fn func() error) error {
	s.Run()
	defer s.Pause()
	return fn()
}

func (s *Stopwatch) running() bool {
	return !s.runningSince.IsZero()
}

// String renders the elapsed time as H:MM:SS, with a .ffffff
// microsecond suffix only when the total is not a whole second.
func (s *Stopwatch) String() string {
	return FormatDuration(s.Elapsed())
}

// Format renders the elapsed time through a strftime-like layout.
// Recognized verbs: %H (hours), %M (minutes), %S (seconds), each
// zero-padded to two digits, and %% for a literal percent sign.
func (s *Stopwatch) Format(layout string) string {
	d := s.Elapsed()
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	return strings.NewReplacer(
		"%%", "%",
		"%H", fmt.Sprintf("%02d", h),
		"%M", fmt.Sprintf("%02d", m),
		"%S", fmt.Sprintf("%02d", sec),
	).Replace(layout)
}

// FormatDuration renders d as H:MM:SS[.ffffff]. Hours are not padded;
// the fractional part appears only for non-integral seconds.
func FormatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	us := (d - sec*time.Second).Microseconds()
	if us == 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d:%02d.%06d", h, m, sec, us)
}
