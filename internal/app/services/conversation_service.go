package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
	"github.com/dotoapp/doto-backend/internal/pkg/websocket"
)

// ConversationService handles 1:1 messaging. Messages are persisted first,
// then fanned out to connected WebSocket clients and the recipient's devices.
type ConversationService struct {
	conversationRepo repositories.IConversationRepository
	userRepo         repositories.IUserRepository
	hub              *websocket.Hub
	notifier         *Notifier
	logger           zerolog.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	conversationRepo repositories.IConversationRepository,
	userRepo repositories.IUserRepository,
	hub *websocket.Hub,
	notifier *Notifier,
	logger zerolog.Logger,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		hub:              hub,
		notifier:         notifier,
		logger:           logger,
	}
}

// SendMessage delivers a message to another user, creating the conversation
// on first contact.
func (s *ConversationService) SendMessage(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	if req.Text == "" && len(req.Images) == 0 {
		return nil, apperrors.ErrValidationFailed
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	// Verify the recipient exists before creating the conversation
	if _, err := s.userRepo.GetByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	conversation, err := s.conversationRepo.GetOrCreate(ctx, senderID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Text:           req.Text,
		Images:         req.Images,
	}
	if message.Images == nil {
		message.Images = []string{}
	}

	notification, err := s.conversationRepo.CreateMessage(ctx, sender, message)
	if err != nil {
		return nil, err
	}

	// Fan out to clients connected to this conversation
	if s.hub != nil {
		msgType := "text"
		if len(message.Images) > 0 {
			msgType = "image"
		}
		s.hub.BroadcastToConversation(&websocket.Message{
			Type:           msgType,
			ConversationID: message.ConversationID,
			SenderID:       message.SenderID,
			Content:        message.Text,
			Images:         message.Images,
			Timestamp:      message.CreatedAt,
			ID:             message.ID,
		})
	}

	s.notifier.NotifyAsync(notification)

	return message, nil
}

// ListConversations returns the caller's conversations, most recent first
func (s *ConversationService) ListConversations(ctx context.Context, userID int64) ([]dto.ConversationResponse, error) {
	conversations, err := s.conversationRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]dto.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		resp := dto.ConversationResponse{
			ID:            conv.ID,
			LastMessage:   conv.LastMessage,
			LastMessageAt: conv.LastMessageAt,
		}
		if conv.Partner != nil {
			partner := dto.FromUser(conv.Partner)
			resp.Partner = &partner
		}
		if conv.LastMessageAt != nil {
			resp.TimeAgo = helpers.FormatMessageTime(*conv.LastMessageAt, now)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// ListMessages returns a page of a conversation's messages. Only
// participants may read them.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID string, userID int64, page, size int) ([]dto.MessageResponse, *dto.PaginationInfo, error) {
	isParticipant, err := s.conversationRepo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !isParticipant {
		return nil, nil, apperrors.ErrNotAParticipant
	}

	messages, total, err := s.conversationRepo.ListMessages(ctx, conversationID, page, size)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, dto.FromMessage(&messages[i], helpers.FormatMessageTime(messages[i].CreatedAt, now)))
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return responses, &pagination, nil
}

// GetOrCreateConversation resolves the conversation with another user,
// creating it if it does not exist yet.
func (s *ConversationService) GetOrCreateConversation(ctx context.Context, userID, partnerID int64) (*models.Conversation, error) {
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}
	return s.conversationRepo.GetOrCreate(ctx, userID, partnerID)
}
