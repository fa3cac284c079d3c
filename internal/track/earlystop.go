package track

import (
	"errors"
	"fmt"
)

// Mode is the direction of improvement for EarlyStopping.
type Mode string

const (
	ModeMin Mode = "min" // lower scores are better (e.g. loss)
	ModeMax Mode = "max" // higher scores are better (e.g. accuracy)
)

// ErrInvalidMode is returned for a mode other than min or max.
var ErrInvalidMode = errors.New(`mode must be "min" or "max"`)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMin, ModeMax:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidMode, s)
	}
}

// EarlyStopping decides when an optimization loop should stop because
// scores are no longer improving in the configured direction. Unlike
// Tracker, patience is mandatory and positive, and there is no neutral
// zone: once the non-improving streak exceeds patience, ShouldStop
// reports true until the streak is cleared by an improvement,
// ForgetBadUpdates, or Reset. Not safe for concurrent use.
//
// EarlyStopping deliberately re-derives the comparison policy instead
// of wrapping a Tracker so each type is usable standalone.
type EarlyStopping struct {
	patience int
	mode     Mode
	minDelta float64

	bestScore float64 // stored in caller units, compared per mode
	hasBest   bool
	badStreak int
}

// NewEarlyStopping validates the configuration and creates a stopper.
// patience must be positive, mode min or max, minDelta non-negative;
// invalid values are errors, never clamped.
func NewEarlyStopping(patience int, mode Mode, minDelta float64) (*EarlyStopping, error) {
	if patience <= 0 {
		return nil, fmt.Errorf("early stopping patience must be positive, got %d", patience)
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if minDelta < 0 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidMinDelta, minDelta)
	}
	return &EarlyStopping{patience: patience, mode: mode, minDelta: minDelta}, nil
}

// sign maps scores onto a higher-is-better axis.
func (e *EarlyStopping) sign() float64 {
	if e.mode == ModeMin {
		return -1
	}
	return 1
}

// Update reports a new score. An improvement by at least minDelta in
// the configured direction (ties at exactly minDelta count) records a
// new best and clears the bad streak; anything else grows the streak.
func (e *EarlyStopping) Update(score float64) {
	if !e.hasBest || e.sign()*(score-e.bestScore) >= e.minDelta {
		e.bestScore = score
		e.hasBest = true
		e.badStreak = 0
		return
	}
	e.badStreak++
}

// ShouldStop reports whether the non-improving streak has exceeded
// patience. Pure query.
func (e *EarlyStopping) ShouldStop() bool { return e.badStreak > e.patience }

// BestScore returns the best score seen (in the caller's units) and
// whether any score has been reported.
func (e *EarlyStopping) BestScore() (float64, bool) { return e.bestScore, e.hasBest }

// BadStreak returns the current count of consecutive non-improving updates.
func (e *EarlyStopping) BadStreak() int { return e.badStreak }

// Patience returns the configured patience budget.
func (e *EarlyStopping) Patience() int { return e.patience }

// Mode returns the configured direction of improvement.
func (e *EarlyStopping) Mode() Mode { return e.mode }

// ForgetBadUpdates clears the non-improving streak without touching the
// best score, so ShouldStop reads false again.
func (e *EarlyStopping) ForgetBadUpdates() { e.badStreak = 0 }

// Reset returns the stopper to its freshly constructed state.
func (e *EarlyStopping) Reset() {
	e.bestScore = 0
	e.hasBest = false
	e.badStreak = 0
}
