package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ConversationAccess checks whether a user may join a conversation room.
type ConversationAccess interface {
	IsParticipant(ctx context.Context, conversationID string, userID int64) (bool, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	access ConversationAccess
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, access ConversationAccess, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		access: access,
		logger: logger,
	}
}

// HandleConnection upgrades the HTTP request to a WebSocket connection and
// joins the client to the conversation room after a participant check.
func (h *Handler) HandleConnection(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID",
		})
		return
	}

	// Get user ID from context (set by auth middleware)
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}

	userID, ok := userIDInterface.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	isParticipant, err := h.access.IsParticipant(c, conversationID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("conversationID", conversationID).
			Int64("userID", userID).
			Msg("Failed to check conversation membership")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check conversation membership",
		})
		return
	}

	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "User is not a participant in this conversation",
		})
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("conversationID", conversationID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	// Create a new client and register it with the hub
	client := &Client{
		hub:            h.hub,
		conn:           conn,
		send:           make(chan []byte, 256),
		userID:         userID,
		conversationID: conversationID,
		logger:         h.logger,
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("conversationID", conversationID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
