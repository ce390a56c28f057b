// Package streak implements the consecutive-activity-day counter.
//
// A user's streak advances on any qualifying action (posting, claiming,
// commenting, completing a task). Day comparison is done on local calendar
// day starts, and "consecutive" is a fuzzy window of 12 to 36 hours between
// day starts to tolerate timezone skew.
package streak

import "time"

// State is a user's streak record
type State struct {
	LastActivityAt *time.Time
	CurrentStreak  int
	LongestStreak  int
}

const (
	minConsecutiveGap = 12 * time.Hour
	maxConsecutiveGap = 36 * time.Hour
)

// dayStart truncates a time to the start of its calendar day.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// isConsecutiveDay reports whether the gap between two day starts falls in
// the [12h, 36h] window.
func isConsecutiveDay(prev, next time.Time) bool {
	diff := next.Sub(prev)
	return diff >= minConsecutiveGap && diff <= maxConsecutiveGap
}

// Apply advances the streak state for an activity happening at now. Repeated
// activities on the same calendar day are no-ops; a gap of one day increments
// the streak; anything else resets it to 1. The returned state always carries
// now as the last activity time unless the call was a same-day no-op.
func Apply(state State, now time.Time) State {
	if state.LastActivityAt == nil {
		streak := 1
		longest := state.LongestStreak
		if streak > longest {
			longest = streak
		}
		return State{
			LastActivityAt: &now,
			CurrentStreak:  streak,
			LongestStreak:  longest,
		}
	}

	last := *state.LastActivityAt

	if sameDay(last, now) {
		// Already counted today
		return state
	}

	current := state.CurrentStreak
	if isConsecutiveDay(dayStart(last), dayStart(now)) {
		current++
	} else {
		current = 1
	}

	longest := state.LongestStreak
	if current > longest {
		longest = current
	}

	return State{
		LastActivityAt: &now,
		CurrentStreak:  current,
		LongestStreak:  longest,
	}
}

// IsBroken reports whether a streak would reset on the next activity at now,
// without mutating anything. Used for display: a stale streak shows as 0
// before the next activity writes the reset.
func IsBroken(state State, now time.Time) bool {
	if state.LastActivityAt == nil {
		return false
	}
	last := *state.LastActivityAt
	return !sameDay(last, now) && !isConsecutiveDay(dayStart(last), dayStart(now))
}
