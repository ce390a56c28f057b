package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(day int, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestApplyFirstActivity(t *testing.T) {
	now := ts(1, 10)
	state := Apply(State{}, now)

	require.NotNil(t, state.LastActivityAt)
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 1, state.LongestStreak)
	assert.True(t, state.LastActivityAt.Equal(now))
}

func TestApplySameDayIsNoOp(t *testing.T) {
	first := ts(1, 8)
	state := Apply(State{}, first)

	again := Apply(state, ts(1, 23))
	assert.Equal(t, 1, again.CurrentStreak)
	assert.True(t, again.LastActivityAt.Equal(first))
}

func TestApplyConsecutiveDayIncrements(t *testing.T) {
	state := Apply(State{}, ts(1, 22))

	// Late evening followed by early morning is still consecutive because
	// the comparison runs on day starts, not raw timestamps.
	state = Apply(state, ts(2, 1))
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 2, state.LongestStreak)

	state = Apply(state, ts(3, 12))
	assert.Equal(t, 3, state.CurrentStreak)
}

func TestApplySkippedDayResets(t *testing.T) {
	state := Apply(State{}, ts(1, 10))
	state = Apply(state, ts(2, 10))
	assert.Equal(t, 2, state.CurrentStreak)

	state = Apply(state, ts(4, 10))
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 2, state.LongestStreak, "longest streak survives a reset")
}

func TestApplyLongestNeverDecreases(t *testing.T) {
	state := State{}
	for day := 1; day <= 5; day++ {
		state = Apply(state, ts(day, 9))
	}
	assert.Equal(t, 5, state.CurrentStreak)
	assert.Equal(t, 5, state.LongestStreak)

	state = Apply(state, ts(10, 9))
	state = Apply(state, ts(11, 9))
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 5, state.LongestStreak)
}

func TestIsBroken(t *testing.T) {
	last := ts(1, 10)
	state := State{LastActivityAt: &last, CurrentStreak: 3, LongestStreak: 3}

	assert.False(t, IsBroken(state, ts(1, 20)), "same day")
	assert.False(t, IsBroken(state, ts(2, 5)), "next day")
	assert.True(t, IsBroken(state, ts(3, 10)), "skipped a day")
	assert.False(t, IsBroken(State{}, ts(3, 10)), "no history yet")
}
