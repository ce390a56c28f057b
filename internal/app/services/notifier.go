package services

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/push"
)

// pushTitles maps notification types to push notification titles
var pushTitles = map[models.NotificationType]string{
	models.NotificationPostClaimed:        "Someone wants to help",
	models.NotificationClaimerApproved:    "You were chosen",
	models.NotificationTaskMarkedComplete: "Task marked as done",
	models.NotificationTaskCompleted:      "Task completed",
	models.NotificationNewMessage:         "New message",
	models.NotificationEventCancelled:     "Event cancelled",
}

// Notifier delivers stored notifications to the user's devices. Delivery is
// fire and forget: the notification row is already committed, push failures
// only lose the banner, not the notification.
type Notifier struct {
	pushTokenRepo repositories.IPushTokenRepository
	sender        *push.Sender
	logger        zerolog.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(pushTokenRepo repositories.IPushTokenRepository, sender *push.Sender, logger zerolog.Logger) *Notifier {
	return &Notifier{
		pushTokenRepo: pushTokenRepo,
		sender:        sender,
		logger:        logger,
	}
}

// NotifyAsync pushes a notification to all of the recipient's devices in the
// background.
func (n *Notifier) NotifyAsync(notification *models.Notification) {
	if notification == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		tokens, err := n.pushTokenRepo.GetTokensForUser(ctx, notification.UserID)
		if err != nil {
			n.logger.Error().Err(err).Int64("userID", notification.UserID).Msg("Failed to load push tokens")
			return
		}
		if len(tokens) == 0 {
			n.logger.Debug().Int64("userID", notification.UserID).Msg("No push tokens registered, skipping push")
			return
		}

		title := pushTitles[notification.Type]
		if title == "" {
			title = "DOTO"
		}

		data := map[string]string{
			"type": string(notification.Type),
		}
		if notification.PostID != nil {
			data["postId"] = strconv.FormatInt(*notification.PostID, 10)
		}
		if notification.EventID != nil {
			data["eventId"] = strconv.FormatInt(*notification.EventID, 10)
		}

		n.sender.SendToAll(ctx, tokens, title, notification.Message, data)
	}()
}

// NotifyAllAsync pushes a batch of notifications, one per recipient
func (n *Notifier) NotifyAllAsync(notifications []*models.Notification) {
	for _, notification := range notifications {
		n.NotifyAsync(notification)
	}
}
