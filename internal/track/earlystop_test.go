package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStopper(t *testing.T, patience int, mode Mode, minDelta float64) *EarlyStopping {
	t.Helper()
	es, err := NewEarlyStopping(patience, mode, minDelta)
	require.NoError(t, err)
	return es
}

func TestNewEarlyStopping_Validation(t *testing.T) {
	_, err := NewEarlyStopping(0, ModeMax, 0)
	assert.Error(t, err, "patience must be positive")

	_, err = NewEarlyStopping(-1, ModeMin, 0)
	assert.Error(t, err)

	_, err = NewEarlyStopping(1, Mode("hello"), 0)
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = NewEarlyStopping(1, ModeMin, -1.0)
	assert.ErrorIs(t, err, ErrInvalidMinDelta)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("min")
	require.NoError(t, err)
	assert.Equal(t, ModeMin, m)

	m, err = ParseMode("max")
	require.NoError(t, err)
	assert.Equal(t, ModeMax, m)

	_, err = ParseMode("best")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestEarlyStopping_MinMode(t *testing.T) {
	es := mustStopper(t, 2, ModeMin, 0)

	es.Update(0.0)
	assert.False(t, es.ShouldStop())
	es.Update(1.0) // worse under min: streak 1
	assert.False(t, es.ShouldStop())
	es.Update(1.0) // streak 2, still within patience
	assert.False(t, es.ShouldStop())
	es.Update(1.0) // streak 3 exceeds patience 2
	assert.True(t, es.ShouldStop())

	es.Update(-1.0) // a real improvement clears the streak
	assert.False(t, es.ShouldStop())
	best, ok := es.BestScore()
	require.True(t, ok)
	assert.Equal(t, -1.0, best)
}

func TestEarlyStopping_BothModes(t *testing.T) {
	for _, mode := range []Mode{ModeMin, ModeMax} {
		t.Run(string(mode), func(t *testing.T) {
			sign := 1.0
			if mode == ModeMin {
				sign = -1.0
			}
			es := mustStopper(t, 1, mode, 0)

			es.Update(0.0)
			es.Update(sign * 1.0) // improvement in the configured direction
			assert.False(t, es.ShouldStop())
			assert.Equal(t, 0, es.BadStreak())

			es.Update(sign * -5.0) // regression: streak 1
			assert.False(t, es.ShouldStop())
			es.Update(sign * -5.0) // streak 2 > patience 1
			assert.True(t, es.ShouldStop())
		})
	}
}

func TestEarlyStopping_EqualScoresCountAsImprovementAtZeroDelta(t *testing.T) {
	// With minDelta 0, a tie sits exactly at the threshold and counts
	// as success, so a flat score sequence never stops.
	es := mustStopper(t, 1, ModeMin, 0)
	for i := 0; i < 10; i++ {
		es.Update(1.0)
		assert.False(t, es.ShouldStop())
	}
}

func TestEarlyStopping_MinDelta(t *testing.T) {
	for _, mode := range []Mode{ModeMin, ModeMax} {
		t.Run(string(mode), func(t *testing.T) {
			sign := 1.0
			if mode == ModeMin {
				sign = -1.0
			}
			es := mustStopper(t, 1, mode, 0.1)

			es.Update(0.0)
			es.Update(sign * 0.2) // beats the threshold
			assert.Equal(t, 0, es.BadStreak())

			es.Update(sign * 0.25) // only 0.05 better: below minDelta, streak 1
			assert.False(t, es.ShouldStop())
			es.Update(sign * 0.25) // streak 2 > patience 1
			assert.True(t, es.ShouldStop())

			es.Update(sign * 0.3) // exactly minDelta better than the best of 0.2: tie counts
			assert.False(t, es.ShouldStop())
		})
	}
}

func TestEarlyStopping_ForgetBadUpdates(t *testing.T) {
	es := mustStopper(t, 1, ModeMin, 0.5)
	es.Update(1.0)
	es.Update(1.2)
	es.Update(1.2)
	require.True(t, es.ShouldStop())

	es.ForgetBadUpdates()
	assert.False(t, es.ShouldStop(), "forget resets the non-improvement clock")
	best, _ := es.BestScore()
	assert.Equal(t, 1.0, best, "forget keeps the historical best")
}

func TestEarlyStopping_ResetMatchesFresh(t *testing.T) {
	es := mustStopper(t, 1, ModeMax, 0)
	es.Update(5.0)
	es.Update(1.0)
	es.Update(1.0)
	require.True(t, es.ShouldStop())

	es.Reset()
	fresh := mustStopper(t, 1, ModeMax, 0)
	for _, e := range []*EarlyStopping{es, fresh} {
		assert.False(t, e.ShouldStop())
		assert.Equal(t, 0, e.BadStreak())
		_, ok := e.BestScore()
		assert.False(t, ok)
	}

	es.Update(1.0)
	assert.False(t, es.ShouldStop(), "first post-reset update starts a fresh best")
}

func TestEarlyStopping_Accessors(t *testing.T) {
	es := mustStopper(t, 3, ModeMin, 0.25)
	assert.Equal(t, 3, es.Patience())
	assert.Equal(t, ModeMin, es.Mode())
}
