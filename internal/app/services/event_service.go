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
)

// EventService handles community events: creation, subscription, blocking,
// likes and cancellation.
type EventService struct {
	eventRepo repositories.IEventRepository
	userRepo  repositories.IUserRepository
	notifier  *Notifier
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repositories.IEventRepository,
	userRepo repositories.IUserRepository,
	notifier *Notifier,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateEvent stores a new community event. The organizer is subscribed to
// their own event. Creating an event counts as streak activity.
func (s *EventService) CreateEvent(ctx context.Context, authorID int64, req *dto.CreateEventRequest) (*models.CommunityEvent, error) {
	event := &models.CommunityEvent{
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Subscribe(ctx, id, authorID); err != nil {
		s.logger.Warn().Err(err).Int64("eventID", id).Msg("Failed to subscribe organizer to own event")
	}

	if _, err := s.userRepo.RecordActivity(ctx, authorID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", authorID).Msg("Failed to record streak activity")
	}

	return s.eventRepo.GetByID(ctx, id)
}

// GetEvent returns a single event. Users the organizer blocked cannot see it.
func (s *EventService) GetEvent(ctx context.Context, eventID, viewerID int64) (*models.CommunityEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	for _, blocked := range event.BlockedUsers {
		if blocked == viewerID {
			return nil, apperrors.ErrUserBlocked
		}
	}

	return event, nil
}

// ListEvents returns a page of events, hiding those the viewer is blocked from
func (s *EventService) ListEvents(ctx context.Context, viewerID int64, page, size int) ([]dto.EventResponse, *dto.PaginationInfo, error) {
	events, total, err := s.eventRepo.List(ctx, page, size)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		blocked := false
		for _, uid := range event.BlockedUsers {
			if uid == viewerID {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		responses = append(responses, dto.FromEvent(event, event.AuthorID == viewerID))
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return responses, &pagination, nil
}

// UpdateEvent edits an event, organizer only. Cancelled events are frozen.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, userID int64, req *dto.UpdateEventRequest) (*models.CommunityEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.AuthorID != userID {
		return nil, apperrors.ErrPermissionDenied
	}
	if event.Status == models.EventStatusCancelled {
		return nil, apperrors.ErrEventCancelled
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = req.StartsAt
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return s.eventRepo.GetByID(ctx, eventID)
}

// CancelEvent cancels an event and notifies every subscriber
func (s *EventService) CancelEvent(ctx context.Context, eventID, userID int64) error {
	notifications, err := s.eventRepo.Cancel(ctx, eventID, userID)
	if err != nil {
		return err
	}

	s.notifier.NotifyAllAsync(notifications)
	return nil
}

// DeleteEvent removes an event, organizer only
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.AuthorID != userID {
		return apperrors.ErrPermissionDenied
	}

	return s.eventRepo.Delete(ctx, eventID)
}

// Subscribe adds the caller to the event's subscriber list. Cancelled events
// and events the caller is blocked from reject new subscribers.
func (s *EventService) Subscribe(ctx context.Context, eventID, userID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.Status == models.EventStatusCancelled {
		return apperrors.ErrEventCancelled
	}

	blocked, err := s.eventRepo.IsBlocked(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if blocked {
		return apperrors.ErrUserBlocked
	}

	return s.eventRepo.Subscribe(ctx, eventID, userID)
}

// Unsubscribe removes the caller from the event's subscriber list
func (s *EventService) Unsubscribe(ctx context.Context, eventID, userID int64) error {
	return s.eventRepo.Unsubscribe(ctx, eventID, userID)
}

// BlockUser blocks a user from an event, organizer only. A blocked user's
// subscription is dropped.
func (s *EventService) BlockUser(ctx context.Context, eventID, authorID, targetUserID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.AuthorID != authorID {
		return apperrors.ErrPermissionDenied
	}
	if targetUserID == authorID {
		return apperrors.ErrBadRequest
	}

	return s.eventRepo.Block(ctx, eventID, targetUserID)
}

// UnblockUser lifts a block, organizer only
func (s *EventService) UnblockUser(ctx context.Context, eventID, authorID, targetUserID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.AuthorID != authorID {
		return apperrors.ErrPermissionDenied
	}

	return s.eventRepo.Unblock(ctx, eventID, targetUserID)
}

// LikeEvent records a like, idempotently
func (s *EventService) LikeEvent(ctx context.Context, eventID, userID int64) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.eventRepo.Like(ctx, eventID, userID)
}

// UnlikeEvent removes a like
func (s *EventService) UnlikeEvent(ctx context.Context, eventID, userID int64) error {
	return s.eventRepo.Unlike(ctx, eventID, userID)
}
