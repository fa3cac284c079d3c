package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTracker(t *testing.T, patience int, minDelta float64) *Tracker {
	t.Helper()
	tr, err := NewTracker(patience, minDelta)
	require.NoError(t, err)
	return tr
}

func TestNewTracker_Validation(t *testing.T) {
	_, err := NewTracker(0, -0.5)
	assert.ErrorIs(t, err, ErrInvalidMinDelta)

	_, err = NewTracker(-2, 0)
	assert.ErrorIs(t, err, ErrInvalidPatience)

	_, err = NewTracker(Unlimited, 0)
	assert.NoError(t, err)
}

func TestTracker_InitialState(t *testing.T) {
	tr := mustTracker(t, 0, 0)
	assert.False(t, tr.Success())
	assert.False(t, tr.Fail())
	assert.Equal(t, OutcomeNone, tr.Outcome())
	_, ok := tr.BestScore()
	assert.False(t, ok)
}

func TestTracker_ZeroTolerance(t *testing.T) {
	tr := mustTracker(t, 0, 0)

	tr.Update(3.0)
	assert.True(t, tr.Success(), "first update always succeeds")
	best, ok := tr.BestScore()
	require.True(t, ok)
	assert.Equal(t, 3.0, best)

	tr.Update(2.0)
	assert.True(t, tr.Fail(), "patience 0 fails on the first non-improving update")
	best, _ = tr.BestScore()
	assert.Equal(t, 3.0, best, "best is untouched by a failing update")
}

func TestTracker_TieAtMinDeltaSucceeds(t *testing.T) {
	tr := mustTracker(t, 0, 2.0)
	tr.Update(10.0)
	tr.Update(12.0) // exactly minDelta above best
	assert.True(t, tr.Success())

	tr.Update(13.9) // 1.9 above best, below threshold
	assert.True(t, tr.Fail())
	best, _ := tr.BestScore()
	assert.Equal(t, 12.0, best)
}

func TestTracker_EqualScoreWithZeroDeltaSucceeds(t *testing.T) {
	tr := mustTracker(t, 1, 0)
	tr.Update(1.0)
	tr.Update(1.0)
	assert.True(t, tr.Success(), "a tie at exactly minDelta counts as improvement")
}

func TestTracker_NeutralZone(t *testing.T) {
	tr := mustTracker(t, 1, 0)
	tr.Update(5.0)
	assert.True(t, tr.Success())

	tr.Update(4.0)
	assert.False(t, tr.Success())
	assert.False(t, tr.Fail())
	assert.Equal(t, OutcomeNeutral, tr.Outcome())
	assert.Equal(t, 1, tr.BadStreak())

	tr.Update(4.0)
	assert.True(t, tr.Fail(), "streak 2 exceeds patience 1")
	assert.Equal(t, 2, tr.BadStreak())

	tr.Update(6.0)
	assert.True(t, tr.Success(), "an improvement clears the streak")
	assert.Equal(t, 0, tr.BadStreak())
}

func TestTracker_UnlimitedPatienceNeverFails(t *testing.T) {
	tr := mustTracker(t, Unlimited, 0)
	tr.Update(0.0)
	for i := 1; i <= 100; i++ {
		tr.Update(float64(-i))
		assert.False(t, tr.Fail())
	}
	// The streak still advances; it just never trips a failure.
	assert.Equal(t, 100, tr.BadStreak())
}

func TestTracker_ForgetBadUpdates(t *testing.T) {
	tr := mustTracker(t, 0, 0)
	tr.Update(1.0)
	tr.Update(0.0)
	require.True(t, tr.Fail())

	tr.ForgetBadUpdates()
	assert.False(t, tr.Fail(), "forget clears a pending failure")
	assert.False(t, tr.Success())
	assert.Equal(t, 0, tr.BadStreak())
	best, ok := tr.BestScore()
	require.True(t, ok)
	assert.Equal(t, 1.0, best, "forget keeps the historical best")
}

func TestTracker_ForgetKeepsSuccess(t *testing.T) {
	tr := mustTracker(t, 1, 0)
	tr.Update(1.0)
	tr.ForgetBadUpdates()
	assert.True(t, tr.Success(), "forget only downgrades failures")
}

func TestTracker_ResetMatchesFresh(t *testing.T) {
	tr := mustTracker(t, 2, 0.5)
	tr.Update(1.0)
	tr.Update(0.0)
	tr.Reset()

	fresh := mustTracker(t, 2, 0.5)
	for _, tc := range []*Tracker{tr, fresh} {
		assert.False(t, tc.Success())
		assert.False(t, tc.Fail())
		assert.Equal(t, OutcomeNone, tc.Outcome())
		assert.Equal(t, 0, tc.BadStreak())
		_, ok := tc.BestScore()
		assert.False(t, ok)
	}

	// Both behave identically from here on.
	tr.Update(-1.0)
	fresh.Update(-1.0)
	assert.Equal(t, tr.Outcome(), fresh.Outcome())
}

func TestTracker_BestScoreMonotonic(t *testing.T) {
	tr := mustTracker(t, Unlimited, 0)
	scores := []float64{-3, 2, 1, 5, 5, 4, 9}
	prev := 0.0
	hasPrev := false
	for _, s := range scores {
		tr.Update(s)
		best, ok := tr.BestScore()
		require.True(t, ok)
		if hasPrev {
			assert.GreaterOrEqual(t, best, prev)
		}
		prev, hasPrev = best, true
	}
	assert.Equal(t, 9.0, prev)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "none", OutcomeNone.String())
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "neutral", OutcomeNeutral.String())
	assert.Equal(t, "fail", OutcomeFail.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
