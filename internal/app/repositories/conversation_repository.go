package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/db"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
)

// IConversationRepository defines the interface for conversation and message
// database operations.
type IConversationRepository interface {
	GetOrCreate(ctx context.Context, userID1, userID2 int64) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID string, userID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, sender *models.User, message *models.Message) (*models.Notification, error)
	ListMessages(ctx context.Context, conversationID string, page, size int) ([]models.Message, int64, error)
}

// ConversationRepository handles conversation database operations
type ConversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate returns the conversation between two users, creating it on
// first contact. The id is deterministic so concurrent first messages from
// both sides land in the same row.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, userID1, userID2 int64) (*models.Conversation, error) {
	if userID1 == userID2 {
		return nil, apperrors.ErrSelfConversation
	}

	id := models.ConversationID(userID1, userID2)
	p1, p2 := models.ConversationParticipants(userID1, userID2)

	_, err := r.db.Exec(ctx, `
		INSERT INTO conversations (id, participant1_id, participant2_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`, id, p1, p2)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a conversation by its deterministic id
func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := r.db.QueryRow(ctx, `
		SELECT id, participant1_id, participant2_id, last_message, last_message_at, created_at
		FROM conversations
		WHERE id = $1`, id).Scan(
		&conv.ID, &conv.Participant1ID, &conv.Participant2ID,
		&conv.LastMessage, &conv.LastMessageAt, &conv.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return conv, nil
}

// IsParticipant reports whether a user belongs to a conversation
func (r *ConversationRepository) IsParticipant(ctx context.Context, conversationID string, userID int64) (bool, error) {
	var isParticipant bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM conversations
			WHERE id = $1 AND (participant1_id = $2 OR participant2_id = $2)
		)`, conversationID, userID).Scan(&isParticipant)

	if err != nil {
		return false, fmt.Errorf("error checking conversation membership: %w", err)
	}

	return isParticipant, nil
}

// ListForUser returns a user's conversations, most recently active first,
// with the partner profile resolved.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.participant1_id, c.participant2_id, c.last_message, c.last_message_at, c.created_at,
			u.id, u.name, u.avatar_url, u.location
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.participant1_id = $1 THEN c.participant2_id ELSE c.participant1_id END
		WHERE c.participant1_id = $1 OR c.participant2_id = $1
		ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		partner := &models.User{}
		if err := rows.Scan(
			&conv.ID, &conv.Participant1ID, &conv.Participant2ID,
			&conv.LastMessage, &conv.LastMessageAt, &conv.CreatedAt,
			&partner.ID, &partner.Name, &partner.AvatarURL, &partner.Location); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		conv.Partner = partner
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return conversations, nil
}

// CreateMessage appends a message and bumps the conversation summary. The
// recipient's notification commits with the message.
func (r *ConversationRepository) CreateMessage(ctx context.Context, sender *models.User, message *models.Message) (*models.Notification, error) {
	var notification *models.Notification

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var p1, p2 int64
		err := tx.QueryRow(ctx, `
			SELECT participant1_id, participant2_id
			FROM conversations
			WHERE id = $1`, message.ConversationID).Scan(&p1, &p2)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrConversationNotFound
			}
			return fmt.Errorf("error loading conversation: %w", err)
		}

		if sender.ID != p1 && sender.ID != p2 {
			return apperrors.ErrNotAParticipant
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO messages (conversation_id, sender_id, text, images)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			message.ConversationID, message.SenderID, message.Text, message.Images).Scan(
			&message.ID, &message.CreatedAt)
		if err != nil {
			return fmt.Errorf("error inserting message: %w", err)
		}

		preview := message.Text
		if preview == "" && len(message.Images) > 0 {
			preview = "Sent a photo"
		}

		_, err = tx.Exec(ctx, `
			UPDATE conversations
			SET last_message = $1, last_message_at = $2
			WHERE id = $3`, preview, message.CreatedAt, message.ConversationID)
		if err != nil {
			return fmt.Errorf("error updating conversation summary: %w", err)
		}

		recipientID := p1
		if sender.ID == p1 {
			recipientID = p2
		}

		notification, err = insertNotification(ctx, tx, &models.Notification{
			UserID:  recipientID,
			Type:    models.NotificationNewMessage,
			Message: fmt.Sprintf("New message from %s", sender.Name),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return notification, nil
}

// ListMessages returns a page of a conversation's messages in chronological
// order, newest page first.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string, page, size int) ([]models.Message, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1`, conversationID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting messages: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	rows, err := r.db.Query(ctx, `
		SELECT id, conversation_id, sender_id, text, images, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, conversationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.Images, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating message rows: %w", err)
	}

	// Reverse so the page reads oldest to newest
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}
