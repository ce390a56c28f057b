package pushproxy

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoapp/doto-backend/internal/pkg/push"
)

func newTestProxy(t *testing.T, expoHandler http.HandlerFunc) (*gin.Engine, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	expoServer := httptest.NewServer(expoHandler)
	t.Cleanup(expoServer.Close)

	proxy := NewProxy(push.NewExpoClient(expoServer.URL), &push.FCMClient{}, zerolog.Nop())

	router := gin.New()
	proxy.SetupRouter(router)
	return router, expoServer
}

func TestHealthReportsFCMStatus(t *testing.T) {
	router, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Push proxy server is running", body["message"])
	assert.Equal(t, false, body["fcmConfigured"])
}

func TestForwardExpoRelaysBody(t *testing.T) {
	var gotBody []byte
	router, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		w.Write([]byte(`{"data":[{"status":"ok"}]}`))
	})

	payload := `[{"to":"ExponentPushToken[a]","title":"hi"}]`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/push/send", bytes.NewBufferString(payload))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, string(gotBody))
	assert.JSONEq(t, `{"data":[{"status":"ok"}]}`, w.Body.String())
}

func TestSmartSendPicksExpoByTokenPrefix(t *testing.T) {
	router, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"status":"ok"}}`))
	})

	payload := `{"token":"ExponentPushToken[abc]","title":"hello"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/smart/send", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "expo", body["provider"])
	assert.Equal(t, true, body["success"])
}

func TestSmartSendNativeTokenFailsWithoutFCM(t *testing.T) {
	router, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {})

	payload := `{"token":"native-token","title":"hello"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/smart/send", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fcm", body["provider"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to send push notification", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestSendFCMRequiresToken(t *testing.T) {
	router, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/fcm/send", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
