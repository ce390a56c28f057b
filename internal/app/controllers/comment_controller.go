package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/services"
	"github.com/dotoapp/doto-backend/internal/middleware"
)

// CommentController handles comments on posts and community events
type CommentController struct {
	commentService *services.CommentService
	logger         zerolog.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, logger zerolog.Logger) *CommentController {
	return &CommentController{
		commentService: commentService,
		logger:         logger,
	}
}

// AddPostComment adds a comment to a post
func (c *CommentController) AddPostComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.AddPostComment(ctx.Request.Context(), postID, userID, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromComment(comment)))
}

// ListPostComments lists the comments on a post, oldest first
func (c *CommentController) ListPostComments(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListPostComments(ctx.Request.Context(), postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toCommentResponses(comments)))
}

// AddEventComment adds a comment to a community event
func (c *CommentController) AddEventComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.AddEventComment(ctx.Request.Context(), eventID, userID, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromComment(comment)))
}

// ListEventComments lists the comments on a community event, oldest first
func (c *CommentController) ListEventComments(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListEventComments(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toCommentResponses(comments)))
}

// DeleteComment removes a comment (author only)
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.commentService.DeleteComment(ctx.Request.Context(), commentID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted"))
}

func toCommentResponses(comments []models.Comment) []dto.CommentResponse {
	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, dto.FromComment(&comments[i]))
	}
	return responses
}
