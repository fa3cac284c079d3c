// Package progress carries live metric-update events from the watch
// loop to whatever is displaying them.
package progress

import (
	"time"

	"trainwatch/internal/track"
)

// Event describes one metric update observed during a watched run.
type Event struct {
	Metric    string
	Score     float64
	Best      float64
	BadStreak int
	Patience  int
	Outcome   track.Outcome
	Elapsed   time.Duration // measured run time up to this update
	Timestamp time.Time
}

// Emitter delivers events to an observer.
type Emitter interface {
	Emit(ev Event)
}

// ChanEmitter emits events to a channel for a UI to consume.
type ChanEmitter struct {
	Ch chan<- Event
}

// Emit sends the event to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case e.Ch <- ev:
	default:
		// Channel full; drop to avoid blocking the watch loop
	}
}
