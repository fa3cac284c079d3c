package stopwatch

import (
	"encoding/json"
	"time"

	"trainwatch/internal/jsonutil"
)

// State is a serializable snapshot of a Stopwatch. A paused snapshot
// restores with bit-identical elapsed time; a running snapshot restores
// running, with the in-flight interval resuming at the restore instant.
type State struct {
	Accumulated time.Duration `json:"accumulated"`
	Running     bool          `json:"running"`
	Started     bool          `json:"started"`
}

// Snapshot captures the current state. While running, the in-flight
// interval up to now is folded into Accumulated so no measured time is
// lost across a snapshot/restore cycle.
func (s *Stopwatch) Snapshot() State {
	return State{
		Accumulated: s.Elapsed(),
		Running:     s.running(),
		Started:     s.started,
	}
}

// Restore replaces the stopwatch state with st. If st was captured while
// running, the stopwatch resumes running from the current instant.
func (s *Stopwatch) Restore(st State) {
	s.accumulated = st.Accumulated
	s.started = st.Started
	if st.Running {
		s.runningSince = s.clk.Now()
	} else {
		s.runningSince = time.Time{}
	}
}

// MarshalJSON encodes the stopwatch as its snapshot State.
func (s *Stopwatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON restores the stopwatch from an encoded State. The clock
// configured on the receiver is kept.
func (s *Stopwatch) UnmarshalJSON(data []byte) error {
	var st State
	if err := jsonutil.UnmarshalWithContext(data, &st, "decode stopwatch snapshot"); err != nil {
		return err
	}
	s.Restore(st)
	return nil
}
