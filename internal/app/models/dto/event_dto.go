package dto

import (
	"time"

	"github.com/dotoapp/doto-backend/internal/app/models"
)

// CreateEventRequest creates a new community event
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"max=5000"`
	Location    string     `json:"location" binding:"max=255"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
}

// UpdateEventRequest edits an event (organizer only)
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=5000"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=255"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
}

// BlockUserRequest blocks a user from an event (organizer only)
type BlockUserRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

// EventResponse is the public view of a community event
type EventResponse struct {
	ID           int64         `json:"id"`
	AuthorID     int64         `json:"authorId"`
	Author       *UserResponse `json:"author,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Location     string        `json:"location"`
	StartsAt     *time.Time    `json:"startsAt,omitempty"`
	Status       string        `json:"status"`
	Subscribers  []int64       `json:"subscribers"`
	BlockedUsers []int64       `json:"blockedUsers,omitempty"`
	LikedBy      []int64       `json:"likedBy"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// FromEvent converts a models.CommunityEvent to an EventResponse.
// includeBlocked controls whether the blocked-user list is exposed
// (organizer only).
func FromEvent(event *models.CommunityEvent, includeBlocked bool) EventResponse {
	if event == nil {
		return EventResponse{}
	}

	resp := EventResponse{
		ID:          event.ID,
		AuthorID:    event.AuthorID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		Status:      string(event.Status),
		Subscribers: event.Subscribers,
		LikedBy:     event.LikedBy,
		CreatedAt:   event.CreatedAt,
	}

	if resp.Subscribers == nil {
		resp.Subscribers = []int64{}
	}
	if resp.LikedBy == nil {
		resp.LikedBy = []int64{}
	}

	if includeBlocked {
		resp.BlockedUsers = event.BlockedUsers
		if resp.BlockedUsers == nil {
			resp.BlockedUsers = []int64{}
		}
	}

	if event.Author != nil {
		author := FromUser(event.Author)
		resp.Author = &author
	}

	return resp
}
