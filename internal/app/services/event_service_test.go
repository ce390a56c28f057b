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

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[int64]*models.CommunityEvent
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*models.CommunityEvent), nextID: 1}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.CommunityEvent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = r.nextID
	event.Status = models.EventStatusActive
	event.CreatedAt = time.Now()
	r.events[event.ID] = event
	r.nextID++
	return event.ID, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.CommunityEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	copied.Subscribers = append([]int64(nil), event.Subscribers...)
	copied.BlockedUsers = append([]int64(nil), event.BlockedUsers...)
	copied.LikedBy = append([]int64(nil), event.LikedBy...)
	return &copied, nil
}

func (r *fakeEventRepo) List(ctx context.Context, _, _ int) ([]*models.CommunityEvent, int64, error) {
	r.mu.Lock()
	ids := make([]int64, 0, len(r.events))
	for id := range r.events {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	out := make([]*models.CommunityEvent, 0, len(ids))
	for _, id := range ids {
		event, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, event)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.CommunityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Cancel(_ context.Context, eventID, authorID int64) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if event.AuthorID != authorID {
		return nil, apperrors.ErrPermissionDenied
	}
	if event.Status == models.EventStatusCancelled {
		return nil, apperrors.ErrEventCancelled
	}
	event.Status = models.EventStatusCancelled

	notifications := make([]*models.Notification, 0, len(event.Subscribers))
	for _, uid := range event.Subscribers {
		notifications = append(notifications, &models.Notification{
			UserID:  uid,
			EventID: &event.ID,
			Type:    models.NotificationEventCancelled,
			Message: fmt.Sprintf("The event %q was cancelled", event.Title),
		})
	}
	return notifications, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Subscribe(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	for _, uid := range event.Subscribers {
		if uid == userID {
			return nil
		}
	}
	event.Subscribers = append(event.Subscribers, userID)
	return nil
}

func (r *fakeEventRepo) Unsubscribe(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	event.Subscribers = removeID(event.Subscribers, userID)
	return nil
}

// Block drops the target's subscription, like the SQL repository does
func (r *fakeEventRepo) Block(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	for _, uid := range event.BlockedUsers {
		if uid == userID {
			return nil
		}
	}
	event.BlockedUsers = append(event.BlockedUsers, userID)
	event.Subscribers = removeID(event.Subscribers, userID)
	return nil
}

func (r *fakeEventRepo) Unblock(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	event.BlockedUsers = removeID(event.BlockedUsers, userID)
	return nil
}

func (r *fakeEventRepo) IsBlocked(_ context.Context, eventID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return false, apperrors.ErrEventNotFound
	}
	for _, uid := range event.BlockedUsers {
		if uid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) Like(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	for _, uid := range event.LikedBy {
		if uid == userID {
			return nil
		}
	}
	event.LikedBy = append(event.LikedBy, userID)
	return nil
}

func (r *fakeEventRepo) Unlike(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	event.LikedBy = removeID(event.LikedBy, userID)
	return nil
}

func removeID(ids []int64, target int64) []int64 {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func newTestEventService(t *testing.T) (*EventService, *fakeEventRepo, *fakeUserRepo) {
	t.Helper()
	eventRepo := newFakeEventRepo()
	userRepo := newFakeUserRepo()
	svc := NewEventService(eventRepo, userRepo, newTestNotifier(), zerolog.Nop())
	return svc, eventRepo, userRepo
}

func createTestEvent(t *testing.T, svc *EventService, authorID int64) *models.CommunityEvent {
	t.Helper()
	event, err := svc.CreateEvent(context.Background(), authorID, &dto.CreateEventRequest{
		Title:    "Neighborhood cleanup",
		Location: "Gan Meir, Tel Aviv",
	})
	require.NoError(t, err)
	return event
}

func TestCreateEventSubscribesOrganizer(t *testing.T) {
	svc, _, userRepo := newTestEventService(t)

	organizer := userRepo.addUser("organizer")
	event := createTestEvent(t, svc, organizer.ID)

	assert.Equal(t, models.EventStatusActive, event.Status)
	assert.Contains(t, event.Subscribers, organizer.ID)

	stored, err := userRepo.GetByID(context.Background(), organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
}

func TestSubscribeRules(t *testing.T) {
	svc, _, userRepo := newTestEventService(t)
	ctx := context.Background()

	organizer := userRepo.addUser("organizer")
	guest := userRepo.addUser("guest")
	event := createTestEvent(t, svc, organizer.ID)

	require.NoError(t, svc.Subscribe(ctx, event.ID, guest.ID))

	// Blocked users cannot subscribe, and blocking drops their subscription
	require.NoError(t, svc.BlockUser(ctx, event.ID, organizer.ID, guest.ID))
	require.ErrorIs(t, svc.Subscribe(ctx, event.ID, guest.ID), apperrors.ErrUserBlocked)

	stored, err := svc.GetEvent(ctx, event.ID, organizer.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Subscribers, guest.ID)

	require.NoError(t, svc.UnblockUser(ctx, event.ID, organizer.ID, guest.ID))
	require.NoError(t, svc.Subscribe(ctx, event.ID, guest.ID))
}

func TestBlockedUserCannotSeeEvent(t *testing.T) {
	svc, _, userRepo := newTestEventService(t)
	ctx := context.Background()

	organizer := userRepo.addUser("organizer")
	guest := userRepo.addUser("guest")
	event := createTestEvent(t, svc, organizer.ID)

	require.NoError(t, svc.BlockUser(ctx, event.ID, organizer.ID, guest.ID))

	_, err := svc.GetEvent(ctx, event.ID, guest.ID)
	require.ErrorIs(t, err, apperrors.ErrUserBlocked)

	responses, _, err := svc.ListEvents(ctx, guest.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, responses)

	responses, _, err = svc.ListEvents(ctx, organizer.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, responses, 1)
}

func TestBlockRules(t *testing.T) {
	svc, _, userRepo := newTestEventService(t)
	ctx := context.Background()

	organizer := userRepo.addUser("organizer")
	guest := userRepo.addUser("guest")
	event := createTestEvent(t, svc, organizer.ID)

	require.ErrorIs(t, svc.BlockUser(ctx, event.ID, guest.ID, organizer.ID), apperrors.ErrPermissionDenied)
	require.ErrorIs(t, svc.BlockUser(ctx, event.ID, organizer.ID, organizer.ID), apperrors.ErrBadRequest)
}

func TestCancelEvent(t *testing.T) {
	svc, eventRepo, userRepo := newTestEventService(t)
	ctx := context.Background()

	organizer := userRepo.addUser("organizer")
	guest := userRepo.addUser("guest")
	event := createTestEvent(t, svc, organizer.ID)
	require.NoError(t, svc.Subscribe(ctx, event.ID, guest.ID))

	require.ErrorIs(t, svc.CancelEvent(ctx, event.ID, guest.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.CancelEvent(ctx, event.ID, organizer.ID))
	require.ErrorIs(t, svc.CancelEvent(ctx, event.ID, organizer.ID), apperrors.ErrEventCancelled)

	stored, err := eventRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, stored.Status)

	// Cancelled events are frozen
	newTitle := "Neighborhood cleanup, round two"
	_, err = svc.UpdateEvent(ctx, event.ID, organizer.ID, &dto.UpdateEventRequest{Title: &newTitle})
	require.ErrorIs(t, err, apperrors.ErrEventCancelled)

	late := userRepo.addUser("late")
	require.ErrorIs(t, svc.Subscribe(ctx, event.ID, late.ID), apperrors.ErrEventCancelled)
}

func TestUpdateAndDeleteEventOrganizerOnly(t *testing.T) {
	svc, _, userRepo := newTestEventService(t)
	ctx := context.Background()

	organizer := userRepo.addUser("organizer")
	guest := userRepo.addUser("guest")
	event := createTestEvent(t, svc, organizer.ID)

	newTitle := "Neighborhood cleanup, with pizza"
	_, err := svc.UpdateEvent(ctx, event.ID, guest.ID, &dto.UpdateEventRequest{Title: &newTitle})
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.UpdateEvent(ctx, event.ID, organizer.ID, &dto.UpdateEventRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	require.ErrorIs(t, svc.DeleteEvent(ctx, event.ID, guest.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.DeleteEvent(ctx, event.ID, organizer.ID))
	_, err = svc.GetEvent(ctx, event.ID, organizer.ID)
	require.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
