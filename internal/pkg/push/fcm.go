package push

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/logger"
)

// FCMClient delivers notifications to native device tokens via Firebase
// Cloud Messaging. It is optional: when no service account is configured
// the client stays uninitialized and Send returns ErrPushNotConfigured.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient initializes FCM from the FIREBASE_SERVICE_ACCOUNT environment
// variable (JSON contents) or, failing that, the given credential file path.
// A nil-client result is not an error; push simply stays disabled.
func NewFCMClient(ctx context.Context, credentialFile string) *FCMClient {
	var opts []option.ClientOption

	if raw := os.Getenv("FIREBASE_SERVICE_ACCOUNT"); raw != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(raw)))
	} else if credentialFile != "" {
		if _, err := os.Stat(credentialFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(credentialFile))
		}
	}

	if len(opts) == 0 {
		logger.Warn().Msg("No Firebase service account configured, FCM push disabled")
		return &FCMClient{}
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize Firebase app, FCM push disabled")
		return &FCMClient{}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create FCM messaging client, FCM push disabled")
		return &FCMClient{}
	}

	logger.Info().Msg("FCM messaging client initialized")
	return &FCMClient{client: client}
}

// Configured reports whether FCM delivery is available.
func (c *FCMClient) Configured() bool {
	return c.client != nil
}

// Send delivers a single notification to a native FCM token.
func (c *FCMClient) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if c.client == nil {
		return "", apperrors.ErrPushNotConfigured
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "default",
			},
		},
	}

	id, err := c.client.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("fcm send failed: %w", err)
	}
	return id, nil
}
