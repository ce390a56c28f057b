// Package pushproxy implements a small relay in front of the Expo push API
// and Firebase Cloud Messaging. Mobile clients talk to this service instead
// of carrying provider credentials.
package pushproxy

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/pkg/push"
)

// SendRequest is the provider-agnostic send payload
type SendRequest struct {
	Token string            `json:"token" binding:"required"`
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// Proxy routes push requests to the right provider
type Proxy struct {
	expo   *push.ExpoClient
	fcm    *push.FCMClient
	sender *push.Sender
	logger zerolog.Logger
}

// NewProxy creates a new Proxy
func NewProxy(expo *push.ExpoClient, fcm *push.FCMClient, logger zerolog.Logger) *Proxy {
	return &Proxy{
		expo:   expo,
		fcm:    fcm,
		sender: push.NewSender(expo, fcm),
		logger: logger,
	}
}

// SetupRouter registers the proxy routes on a Gin engine.
func (p *Proxy) SetupRouter(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/push/send", p.ForwardExpo)
		api.POST("/fcm/send", p.SendFCM)
		api.POST("/smart/send", p.SendSmart)
	}

	router.GET("/health", p.Health)
}

// ForwardExpo relays the request body to the Expo push API unchanged and
// returns Expo's response verbatim.
func (p *Proxy) ForwardExpo(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	response, err := p.expo.Forward(ctx.Request.Context(), body)
	if err != nil {
		p.logger.Error().Err(err).Msg("Expo forward failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send push notification",
			"message": err.Error(),
		})
		return
	}

	ctx.Data(http.StatusOK, "application/json", response)
}

// SendFCM delivers a notification through Firebase Cloud Messaging.
func (p *Proxy) SendFCM(ctx *gin.Context) {
	var req SendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := p.fcm.Send(ctx.Request.Context(), req.Token, req.Title, req.Body, req.Data)
	if err != nil {
		p.logger.Error().Err(err).Msg("FCM send failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send push notification",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "messageId": messageID})
}

// SendSmart picks the provider from the token format: Expo tokens go to
// the Expo API, everything else to FCM.
func (p *Proxy) SendSmart(ctx *gin.Context) {
	var req SendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := p.sender.Send(ctx.Request.Context(), req.Token, req.Title, req.Body, req.Data)
	if !result.OK {
		p.logger.Error().Str("provider", result.Provider).Str("error", result.Error).Msg("Smart send failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"provider": result.Provider,
			"error":    "Failed to send push notification",
			"message":  result.Error,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"provider": result.Provider,
		"response": result.Response,
	})
}

// Health reports service status and whether FCM credentials are loaded.
func (p *Proxy) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"message":       "Push proxy server is running",
		"fcmConfigured": p.fcm.Configured(),
	})
}
