package models

import "time"

// Comment belongs to either a post or a community event, never both
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    *int64    `json:"postId,omitempty" db:"post_id"`
	EventID   *int64    `json:"eventId,omitempty" db:"event_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author *User `json:"author,omitempty"`
}
