package push

import (
	"context"
	"encoding/json"

	"github.com/dotoapp/doto-backend/internal/pkg/logger"
)

// Result is the normalized outcome of a single push delivery, regardless of
// which provider carried it.
type Result struct {
	Token    string          `json:"token"`
	Provider string          `json:"provider"`
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

// Sender routes a notification to Expo or FCM based on the token format.
type Sender struct {
	expo *ExpoClient
	fcm  *FCMClient
}

func NewSender(expo *ExpoClient, fcm *FCMClient) *Sender {
	return &Sender{expo: expo, fcm: fcm}
}

// Send delivers one notification to one device token, choosing the provider
// by token shape. Expo tokens start with "ExponentPushToken[", everything
// else is treated as a native FCM token.
func (s *Sender) Send(ctx context.Context, token, title, body string, data map[string]string) Result {
	if IsExpoToken(token) {
		resp, err := s.expo.Send(ctx, &ExpoMessage{
			To:    token,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
		})
		if err != nil {
			return Result{Token: token, Provider: "expo", Error: err.Error()}
		}
		return Result{Token: token, Provider: "expo", OK: true, Response: resp}
	}

	id, err := s.fcm.Send(ctx, token, title, body, data)
	if err != nil {
		return Result{Token: token, Provider: "fcm", Error: err.Error()}
	}
	return Result{Token: token, Provider: "fcm", OK: true, Response: json.RawMessage(`{"messageId":"` + id + `"}`)}
}

// SendToAll fans a notification out to a set of tokens. Failures are logged
// and reflected in the per-token results, never fatal.
func (s *Sender) SendToAll(ctx context.Context, tokens []string, title, body string, data map[string]string) []Result {
	results := make([]Result, 0, len(tokens))
	for _, token := range tokens {
		res := s.Send(ctx, token, title, body, data)
		if !res.OK {
			logger.Warn().
				Str("provider", res.Provider).
				Str("error", res.Error).
				Msg("Push delivery failed")
		}
		results = append(results, res)
	}
	return results
}
