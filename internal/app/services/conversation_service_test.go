package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
)

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	nextMessageID int64
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
		nextMessageID: 1,
	}
}

func (r *fakeConversationRepo) GetOrCreate(_ context.Context, userID1, userID2 int64) (*models.Conversation, error) {
	if userID1 == userID2 {
		return nil, apperrors.ErrSelfConversation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := models.ConversationID(userID1, userID2)
	conv, ok := r.conversations[id]
	if !ok {
		p1, p2 := models.ConversationParticipants(userID1, userID2)
		conv = &models.Conversation{ID: id, Participant1ID: p1, Participant2ID: p2, CreatedAt: time.Now()}
		r.conversations[id] = conv
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) IsParticipant(_ context.Context, conversationID string, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		return false, nil
	}
	return conv.Participant1ID == userID || conv.Participant2ID == userID, nil
}

func (r *fakeConversationRepo) ListForUser(_ context.Context, userID int64) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Conversation
	for _, conv := range r.conversations {
		if conv.Participant1ID == userID || conv.Participant2ID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) CreateMessage(_ context.Context, sender *models.User, message *models.Message) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[message.ConversationID]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	if sender.ID != conv.Participant1ID && sender.ID != conv.Participant2ID {
		return nil, apperrors.ErrNotAParticipant
	}

	message.ID = r.nextMessageID
	message.CreatedAt = time.Now()
	r.nextMessageID++
	r.messages[conv.ID] = append(r.messages[conv.ID], *message)

	preview := message.Text
	if preview == "" && len(message.Images) > 0 {
		preview = "Sent a photo"
	}
	conv.LastMessage = preview
	conv.LastMessageAt = &message.CreatedAt

	recipientID := conv.Participant1ID
	if sender.ID == recipientID {
		recipientID = conv.Participant2ID
	}
	return &models.Notification{
		UserID:  recipientID,
		Type:    models.NotificationNewMessage,
		Message: fmt.Sprintf("New message from %s", sender.Name),
	}, nil
}

func (r *fakeConversationRepo) ListMessages(_ context.Context, conversationID string, _, _ int) ([]models.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := r.messages[conversationID]
	return messages, int64(len(messages)), nil
}

func newTestConversationService(t *testing.T) (*ConversationService, *fakeConversationRepo, *fakeUserRepo) {
	t.Helper()
	convRepo := newFakeConversationRepo()
	userRepo := newFakeUserRepo()
	svc := NewConversationService(convRepo, userRepo, nil, newTestNotifier(), zerolog.Nop())
	return svc, convRepo, userRepo
}

func TestSendMessageCreatesConversationOnFirstContact(t *testing.T) {
	svc, convRepo, userRepo := newTestConversationService(t)
	ctx := context.Background()

	alice := userRepo.addUser("alice")
	bob := userRepo.addUser("bob")

	message, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageRequest{
		RecipientID: bob.ID,
		Text:        "hey, still need help with the boxes?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConversationID(alice.ID, bob.ID), message.ConversationID)
	assert.NotNil(t, message.Images, "images marshal as an empty list, not null")

	conv, err := convRepo.GetByID(ctx, message.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "hey, still need help with the boxes?", conv.LastMessage)

	// A reply from the other side lands in the same conversation
	reply, err := svc.SendMessage(ctx, bob.ID, &dto.SendMessageRequest{
		RecipientID: alice.ID,
		Text:        "yes please",
	})
	require.NoError(t, err)
	assert.Equal(t, message.ConversationID, reply.ConversationID)
}

func TestSendMessageImageOnly(t *testing.T) {
	svc, convRepo, userRepo := newTestConversationService(t)
	ctx := context.Background()

	alice := userRepo.addUser("alice")
	bob := userRepo.addUser("bob")

	message, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageRequest{
		RecipientID: bob.ID,
		Images:      []string{"/uploads/messages/box.jpg"},
	})
	require.NoError(t, err)

	conv, err := convRepo.GetByID(ctx, message.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "Sent a photo", conv.LastMessage)
}

func TestSendMessageRejections(t *testing.T) {
	svc, _, userRepo := newTestConversationService(t)
	ctx := context.Background()

	alice := userRepo.addUser("alice")
	bob := userRepo.addUser("bob")

	_, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageRequest{RecipientID: bob.ID})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed, "empty messages are rejected")

	_, err = svc.SendMessage(ctx, alice.ID, &dto.SendMessageRequest{RecipientID: alice.ID, Text: "hi me"})
	require.ErrorIs(t, err, apperrors.ErrSelfConversation)

	_, err = svc.SendMessage(ctx, alice.ID, &dto.SendMessageRequest{RecipientID: 999, Text: "hello?"})
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestListMessagesParticipantsOnly(t *testing.T) {
	svc, _, userRepo := newTestConversationService(t)
	ctx := context.Background()

	alice := userRepo.addUser("alice")
	bob := userRepo.addUser("bob")
	eve := userRepo.addUser("eve")

	message, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageRequest{RecipientID: bob.ID, Text: "hi"})
	require.NoError(t, err)

	messages, pagination, err := svc.ListMessages(ctx, message.ConversationID, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.EqualValues(t, 1, pagination.TotalItems)

	_, _, err = svc.ListMessages(ctx, message.ConversationID, eve.ID, 1, 10)
	require.ErrorIs(t, err, apperrors.ErrNotAParticipant)
}

func TestGetOrCreateConversationRequiresKnownPartner(t *testing.T) {
	svc, _, userRepo := newTestConversationService(t)
	ctx := context.Background()

	alice := userRepo.addUser("alice")

	_, err := svc.GetOrCreateConversation(ctx, alice.ID, 999)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	bob := userRepo.addUser("bob")
	conv, err := svc.GetOrCreateConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConversationID(alice.ID, bob.ID), conv.ID)
}
