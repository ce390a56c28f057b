package dto

import (
	"time"

	"github.com/dotoapp/doto-backend/internal/app/models"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	AvatarURL     *string   `json:"avatarUrl,omitempty"`
	Age           *int      `json:"age,omitempty"`
	Location      *string   `json:"location,omitempty"`
	CurrentStreak int       `json:"currentStreak"`
	LongestStreak int       `json:"longestStreak"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		AvatarURL:     user.AvatarURL,
		Age:           user.Age,
		Location:      user.Location,
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		CreatedAt:     user.CreatedAt,
	}
}

// UpdateProfileRequest updates the caller's profile
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Age      *int    `json:"age,omitempty" binding:"omitempty,gte=13,lte=120"`
	Location *string `json:"location,omitempty"`
}

// RegisterPushTokenRequest registers a device push token for the caller
type RegisterPushTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"omitempty,oneof=android ios web"`
}

// UserStatsResponse carries the aggregate statistics for a user
type UserStatsResponse struct {
	PostsCreated         int     `json:"postsCreated"`
	TasksCompleted       int     `json:"tasksCompleted"`
	TotalRatingsReceived int     `json:"totalRatingsReceived"`
	AverageRating        float64 `json:"averageRating"`
	TotalLikesReceived   int     `json:"totalLikesReceived"`
	CommentsMade         int     `json:"commentsMade"`
	FirstClaimCount      int     `json:"firstClaimCount"`
	TotalPoints          int     `json:"totalPoints"`
	TotalEngagement      int     `json:"totalEngagement"`
	CurrentStreak        int     `json:"currentStreak"`
	LongestStreak        int     `json:"longestStreak"`
	Badges               []string `json:"badges"`
}
