package dto

import (
	"time"

	"github.com/dotoapp/doto-backend/internal/app/models"
)

// NotificationResponse is the public view of a notification
type NotificationResponse struct {
	ID        int64   `json:"id"`
	PostID    *int64  `json:"postId,omitempty"`
	EventID   *int64  `json:"eventId,omitempty"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	PostTitle *string `json:"postTitle,omitempty"`
	Rating    *int    `json:"rating,omitempty"`
	Read      bool    `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse is a list of notifications with the unread count
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

// FromNotification converts a models.Notification to a NotificationResponse
func FromNotification(n *models.Notification) NotificationResponse {
	if n == nil {
		return NotificationResponse{}
	}
	return NotificationResponse{
		ID:        n.ID,
		PostID:    n.PostID,
		EventID:   n.EventID,
		Type:      string(n.Type),
		Message:   n.Message,
		PostTitle: n.PostTitle,
		Rating:    n.Rating,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
