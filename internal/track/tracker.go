// Package track implements the progress state machines that decide,
// score by score, whether an optimization loop is still improving.
// Tracker and EarlyStopping are independent value types that share the
// same comparison policy; each stands alone.
package track

import (
	"errors"
	"fmt"
)

// Unlimited disables the patience limit: the tracker never fails, no
// matter how long the non-improving streak grows.
const Unlimited = -1

// Configuration errors reported at construction time.
var (
	ErrInvalidPatience = errors.New("patience must be non-negative or Unlimited")
	ErrInvalidMinDelta = errors.New("min delta must be non-negative")
)

// Tracker classifies each reported score against the best score seen so
// far. Scores are compared as higher-is-better; a caller that minimizes
// negates scores (or uses EarlyStopping, which does it internally).
// Not safe for concurrent use.
type Tracker struct {
	patience int
	minDelta float64

	bestScore   float64
	hasBest     bool
	badStreak   int
	lastOutcome Outcome
}

// NewTracker creates a Tracker tolerating up to patience consecutive
// non-improving updates, where an improvement must beat the best score
// by at least minDelta. Pass Unlimited for patience to never fail;
// patience 0 means any non-improving update fails immediately.
func NewTracker(patience int, minDelta float64) (*Tracker, error) {
	if patience < Unlimited {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPatience, patience)
	}
	if minDelta < 0 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidMinDelta, minDelta)
	}
	return &Tracker{patience: patience, minDelta: minDelta}, nil
}

// Update classifies score. An improvement of at least minDelta over the
// best (ties at exactly minDelta count) records a new best and clears
// the bad streak. Otherwise the streak grows; the update reads as a
// failure once the streak exceeds patience, and as neutral while still
// within tolerance or when patience is Unlimited.
func (t *Tracker) Update(score float64) {
	if !t.hasBest || score-t.bestScore >= t.minDelta {
		t.bestScore = score
		t.hasBest = true
		t.badStreak = 0
		t.lastOutcome = OutcomeSuccess
		return
	}
	t.badStreak++
	if t.patience != Unlimited && t.badStreak > t.patience {
		t.lastOutcome = OutcomeFail
		return
	}
	t.lastOutcome = OutcomeNeutral
}

// Success reports whether the most recent update improved on the best.
// False before any update.
func (t *Tracker) Success() bool { return t.lastOutcome == OutcomeSuccess }

// Fail reports whether the most recent update exhausted the patience
// budget. False before any update.
func (t *Tracker) Fail() bool { return t.lastOutcome == OutcomeFail }

// Outcome returns the classification of the most recent update.
func (t *Tracker) Outcome() Outcome { return t.lastOutcome }

// BestScore returns the best score seen and whether any score has been
// reported. The best is monotonically non-decreasing until Reset.
func (t *Tracker) BestScore() (float64, bool) { return t.bestScore, t.hasBest }

// BadStreak returns the current count of consecutive non-improving updates.
func (t *Tracker) BadStreak() int { return t.badStreak }

// ForgetBadUpdates clears the non-improving streak without touching the
// best score. A pending fail outcome is downgraded to neutral so Fail
// no longer reads true. Used to restart the non-improvement clock after
// an intervention such as a learning-rate drop.
func (t *Tracker) ForgetBadUpdates() {
	t.badStreak = 0
	if t.lastOutcome == OutcomeFail {
		t.lastOutcome = OutcomeNeutral
	}
}

// Reset returns the tracker to its freshly constructed state.
func (t *Tracker) Reset() {
	t.bestScore = 0
	t.hasBest = false
	t.badStreak = 0
	t.lastOutcome = OutcomeNone
}
