package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/services"
	"github.com/dotoapp/doto-backend/internal/middleware"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
)

// ConversationController handles direct messaging between users
type ConversationController struct {
	conversationService *services.ConversationService
	logger              zerolog.Logger
}

// NewConversationController creates a new ConversationController
func NewConversationController(conversationService *services.ConversationService, logger zerolog.Logger) *ConversationController {
	return &ConversationController{
		conversationService: conversationService,
		logger:              logger,
	}
}

// SendMessage sends a message to another user, creating the conversation
// on first contact
func (c *ConversationController) SendMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	message, err := c.conversationService.SendMessage(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("senderID", userID).Msg("Failed to send message")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromMessage(message, "Just now")))
}

// ListConversations lists the caller's conversations, most recent first
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	conversations, err := c.conversationService.ListConversations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversations))
}

// GetOrCreateConversation resolves the conversation with a partner,
// creating it when it does not exist yet
func (c *ConversationController) GetOrCreateConversation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	partnerID, ok := pathID(ctx, "partnerId")
	if !ok {
		return
	}

	conversation, err := c.conversationService.GetOrCreateConversation(ctx.Request.Context(), userID, partnerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversation))
}

// ListMessages returns a page of messages in chronological order
func (c *ConversationController) ListMessages(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	conversationID := ctx.Param("id")
	if conversationID == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid conversation id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	messages, pagination, err := c.conversationService.ListMessages(ctx.Request.Context(), conversationID, userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"messages":   messages,
		"pagination": pagination,
	}))
}
