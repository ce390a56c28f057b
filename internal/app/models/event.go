package models

import "time"

// EventStatus is the lifecycle state of a community event
type EventStatus string

const (
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// CommunityEvent represents an event organized by a user
type CommunityEvent struct {
	ID          int64       `json:"id" db:"id"`
	AuthorID    int64       `json:"authorId" db:"author_id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Location    string      `json:"location" db:"location"`
	StartsAt    *time.Time  `json:"startsAt,omitempty" db:"starts_at"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author       *User   `json:"author,omitempty"`
	Subscribers  []int64 `json:"subscribers,omitempty"`
	BlockedUsers []int64 `json:"blockedUsers,omitempty"`
	LikedBy      []int64 `json:"likedBy,omitempty"`
}
