// Package badges derives achievement badges from user statistics.
package badges

// Badge identifiers
const (
	FirstPost       = "first_post"
	Posts10         = "posts_10"
	Posts25         = "posts_25"
	Helper          = "helper"
	Tasks10         = "tasks_10"
	SuperHelper     = "super_helper"
	Tasks25         = "tasks_25"
	Tasks50         = "tasks_50"
	CommunityStar   = "community_star"
	PerfectRating   = "perfect_rating"
	EarlyBird       = "early_bird"
	Streak7         = "streak_7"
	Streak30        = "streak_30"
	CommunityLeader = "community_leader"
)

// Stats is the subset of user statistics badges are derived from
type Stats struct {
	PostsCreated         int
	TasksCompleted       int
	AverageRating        float64
	TotalRatingsReceived int
	FirstClaimCount      int
	CurrentStreak        int
	LongestStreak        int
	TotalEngagement      int
}

// Earned returns the badge ids earned for the given stats, in a stable order.
func Earned(stats Stats) []string {
	var earned []string

	if stats.PostsCreated >= 1 {
		earned = append(earned, FirstPost)
	}
	if stats.PostsCreated >= 10 {
		earned = append(earned, Posts10)
	}
	if stats.PostsCreated >= 25 {
		earned = append(earned, Posts25)
	}

	if stats.TasksCompleted >= 5 {
		earned = append(earned, Helper)
	}
	if stats.TasksCompleted >= 10 {
		earned = append(earned, Tasks10)
	}
	if stats.TasksCompleted >= 20 {
		earned = append(earned, SuperHelper)
	}
	if stats.TasksCompleted >= 25 {
		earned = append(earned, Tasks25)
	}
	if stats.TasksCompleted >= 50 {
		earned = append(earned, Tasks50)
	}

	if stats.AverageRating >= 4.5 && stats.TotalRatingsReceived >= 3 {
		earned = append(earned, CommunityStar)
	}
	if stats.AverageRating == 5.0 && stats.TotalRatingsReceived >= 5 {
		earned = append(earned, PerfectRating)
	}

	if stats.FirstClaimCount >= 1 {
		earned = append(earned, EarlyBird)
	}

	if stats.CurrentStreak >= 7 || stats.LongestStreak >= 7 {
		earned = append(earned, Streak7)
	}
	if stats.CurrentStreak >= 30 || stats.LongestStreak >= 30 {
		earned = append(earned, Streak30)
	}

	if stats.TotalEngagement >= 100 {
		earned = append(earned, CommunityLeader)
	}

	return earned
}
