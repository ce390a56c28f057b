package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
)

// NotificationService handles the in-app notification feed
type NotificationService struct {
	notificationRepo repositories.INotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.INotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns a page of the caller's notifications with the unread count
func (s *NotificationService) List(ctx context.Context, userID int64, page, size int) (*dto.NotificationListResponse, *dto.PaginationInfo, error) {
	notifications, total, err := s.notificationRepo.ListForUser(ctx, userID, page, size)
	if err != nil {
		return nil, nil, err
	}

	unread, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.FromNotification(&notifications[i]))
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, &pagination, nil
}

// UnreadCount returns the caller's unread notification count
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead marks a single notification as read
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the caller's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Delete removes one of the caller's notifications
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID int64) error {
	return s.notificationRepo.Delete(ctx, notificationID, userID)
}
