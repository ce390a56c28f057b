package models

import "time"

// NotificationType identifies what triggered a notification
type NotificationType string

const (
	NotificationPostClaimed        NotificationType = "post_claimed"
	NotificationClaimerApproved    NotificationType = "claimer_approved"
	NotificationTaskMarkedComplete NotificationType = "task_marked_complete"
	NotificationTaskCompleted      NotificationType = "task_completed"
	NotificationNewMessage         NotificationType = "new_message"
	NotificationEventCancelled     NotificationType = "event_cancelled"
)

// Notification is an in-app notification for a single user
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"userId" db:"user_id"`
	PostID    *int64           `json:"postId,omitempty" db:"post_id"`
	EventID   *int64           `json:"eventId,omitempty" db:"event_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	PostTitle *string          `json:"postTitle,omitempty" db:"post_title"`
	Rating    *int             `json:"rating,omitempty" db:"rating"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
