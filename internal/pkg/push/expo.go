package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultExpoURL is the Expo push endpoint
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// ExpoTokenPrefix identifies Expo push tokens
const ExpoTokenPrefix = "ExponentPushToken["

// IsExpoToken reports whether a device token belongs to the Expo push service.
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, ExpoTokenPrefix)
}

// ExpoMessage is the request body for the Expo push API
type ExpoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound,omitempty"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// ExpoClient posts notifications to the Expo push endpoint
type ExpoClient struct {
	url    string
	client *http.Client
}

// NewExpoClient creates an Expo push client. An empty url falls back to the
// public Expo endpoint.
func NewExpoClient(url string) *ExpoClient {
	if url == "" {
		url = DefaultExpoURL
	}
	return &ExpoClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send posts a message and returns Expo's raw JSON response body.
func (c *ExpoClient) Send(ctx context.Context, msg *ExpoMessage) (json.RawMessage, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expo message: %w", err)
	}
	return c.Forward(ctx, body)
}

// Forward posts an already-serialized request body verbatim and returns the
// provider's JSON response. Used by the proxy, which does not interpret the
// payload.
func (c *ExpoClient) Forward(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build expo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("expo request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read expo response: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("expo returned non-JSON response (status %d)", resp.StatusCode)
	}

	return json.RawMessage(data), nil
}
