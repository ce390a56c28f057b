package dto

import (
	"time"

	"github.com/dotoapp/doto-backend/internal/app/models"
)

// SendMessageRequest sends a message to another user. The conversation is
// created on first message.
type SendMessageRequest struct {
	RecipientID int64    `json:"recipientId" binding:"required"`
	Text        string   `json:"text" binding:"max=5000"`
	Images      []string `json:"images" binding:"omitempty,max=10"`
}

// MessageResponse is the public view of a message
type MessageResponse struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       int64     `json:"senderId"`
	Text           string    `json:"text"`
	Images         []string  `json:"images"`
	CreatedAt      time.Time `json:"createdAt"`
	TimeAgo        string    `json:"timeAgo"`
}

// ConversationResponse is the caller's view of a conversation
type ConversationResponse struct {
	ID            string        `json:"id"`
	Partner       *UserResponse `json:"partner,omitempty"`
	LastMessage   string        `json:"lastMessage"`
	LastMessageAt *time.Time    `json:"lastMessageAt,omitempty"`
	TimeAgo       string        `json:"timeAgo,omitempty"`
}

// FromMessage converts a models.Message to a MessageResponse.
// timeAgo is the display form of the message timestamp.
func FromMessage(message *models.Message, timeAgo string) MessageResponse {
	if message == nil {
		return MessageResponse{}
	}

	images := message.Images
	if images == nil {
		images = []string{}
	}

	return MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Text:           message.Text,
		Images:         images,
		CreatedAt:      message.CreatedAt,
		TimeAgo:        timeAgo,
	}
}
