package models

import (
	"fmt"
	"time"
)

// Conversation is a 1:1 message thread between two users. The primary key is
// deterministic: the same pair of users always maps to the same conversation.
type Conversation struct {
	ID             string     `json:"id" db:"id"`
	Participant1ID int64      `json:"participant1Id" db:"participant1_id"`
	Participant2ID int64      `json:"participant2Id" db:"participant2_id"`
	LastMessage    string     `json:"lastMessage" db:"last_message"`
	LastMessageAt  *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`

	// The other participant, resolved for the requesting user
	Partner *User `json:"partner,omitempty"`
}

// Message is immutable once created
type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID string    `json:"conversationId" db:"conversation_id"`
	SenderID       int64     `json:"senderId" db:"sender_id"`
	Text           string    `json:"text" db:"text"`
	Images         []string  `json:"images" db:"images"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// ConversationID derives the deterministic conversation id for a pair of
// users. It is symmetric: ConversationID(a, b) == ConversationID(b, a).
func ConversationID(userID1, userID2 int64) string {
	lo, hi := userID1, userID2
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("conv_%d_%d", lo, hi)
}

// ConversationParticipants returns the pair in canonical (ascending) order.
func ConversationParticipants(userID1, userID2 int64) (int64, int64) {
	if userID1 > userID2 {
		return userID2, userID1
	}
	return userID1, userID2
}
