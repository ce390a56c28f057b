package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/services"
	"github.com/dotoapp/doto-backend/internal/middleware"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
)

// PostController handles help request posts and their lifecycle
type PostController struct {
	postService *services.PostService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// CreatePost creates a new help request
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to create post")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromPost(post)))
}

// GetFeed returns the paginated post feed. The checkbox filters combine
// with OR semantics.
func (c *PostController) GetFeed(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	filter := parseFeedFilter(ctx)

	feed, err := c.postService.GetFeed(ctx.Request.Context(), userID, filter)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to load feed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed))
}

func parseFeedFilter(ctx *gin.Context) dto.FeedFilter {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := dto.FeedFilter{
		Tab:          dto.FeedTab(ctx.DefaultQuery("tab", string(dto.FeedTabNearby))),
		WithComments: ctx.Query("withComments") == "true",
		WithLikes:    ctx.Query("withLikes") == "true",
		WithClaims:   ctx.Query("withClaims") == "true",
		NearbyMe:     ctx.Query("nearbyMe") == "true",
		Page:         page,
		PageSize:     size,
	}

	if lat, err := strconv.ParseFloat(ctx.Query("latitude"), 64); err == nil {
		if lon, err := strconv.ParseFloat(ctx.Query("longitude"), 64); err == nil {
			filter.Latitude = &lat
			filter.Longitude = &lon
		}
	}

	return filter
}

// GetPost returns a single post with its claims, likes and comments
func (c *PostController) GetPost(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	post, err := c.postService.GetPost(ctx.Request.Context(), postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromPost(post)))
}

// UpdatePost edits a post (author only)
func (c *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	post, err := c.postService.UpdatePost(ctx.Request.Context(), postID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromPost(post)))
}

// DeletePost removes a post (author only)
func (c *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.DeletePost(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted"))
}

// ClaimPost registers the caller as a claimer on a post
func (c *PostController) ClaimPost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.ClaimPost(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post claimed"))
}

// UnclaimPost withdraws the caller's claim
func (c *PostController) UnclaimPost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.UnclaimPost(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Claim withdrawn"))
}

// ApproveClaimer selects which claimer may perform the task (author only)
func (c *PostController) ApproveClaimer(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ApproveClaimerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	if err := c.postService.ApproveClaimer(ctx.Request.Context(), postID, userID, req.ClaimerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Claimer approved"))
}

// MarkComplete records that the approved claimer finished the task
func (c *PostController) MarkComplete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.MarkComplete(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Task marked as complete"))
}

// CompletePost confirms completion and rates the helper (author only)
func (c *PostController) CompletePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CompletePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleBindingError(ctx, err)
		return
	}

	if err := c.postService.CompleteAndRate(ctx.Request.Context(), postID, userID, req.Rating); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Task completed"))
}

// LikePost adds the caller's like to a post
func (c *PostController) LikePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.LikePost(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post liked"))
}

// UnlikePost removes the caller's like from a post
func (c *PostController) UnlikePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.UnlikePost(ctx.Request.Context(), postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post unliked"))
}

// ListCategories returns all post categories
func (c *PostController) ListCategories(ctx *gin.Context) {
	categories, err := c.postService.ListCategories(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}
