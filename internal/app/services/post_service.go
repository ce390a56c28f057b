package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/geo"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
)

// PostService handles the help request lifecycle: create, feed, claims,
// approval, completion and likes.
type PostService struct {
	postRepo     repositories.IPostRepository
	userRepo     repositories.IUserRepository
	categoryRepo repositories.ICategoryRepository
	notifier     *Notifier
	logger       zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.IPostRepository,
	userRepo repositories.IUserRepository,
	categoryRepo repositories.ICategoryRepository,
	notifier *Notifier,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreatePost stores a new help request. Coordinates are not resolved here;
// the geocoding worker fills them in asynchronously. Posting counts as
// activity for the author's streak.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*models.Post, error) {
	category := req.Category
	if category == "" {
		category = "other"
	}

	post := &models.Post{
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Location:    req.Location,
		Photos:      req.Photos,
	}
	if post.Photos == nil {
		post.Photos = []string{}
	}

	id, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.RecordActivity(ctx, authorID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", authorID).Msg("Failed to record streak activity")
	}

	return s.postRepo.GetByID(ctx, id)
}

// GetPost returns a single post with its related entities
func (s *PostService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// UpdatePost applies the non-nil fields of the request. Changing the
// location clears the coordinates so the geocoding worker re-resolves them.
func (s *PostService) UpdatePost(ctx context.Context, postID, userID int64, req *dto.UpdatePostRequest) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Location != nil && *req.Location != post.Location {
		post.Location = *req.Location
		post.Latitude = nil
		post.Longitude = nil
		post.GeocodeFailed = false
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID)
}

// DeletePost removes a post, author only
func (s *PostService) DeletePost(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		return apperrors.ErrPermissionDenied
	}

	return s.postRepo.Delete(ctx, postID)
}

// GetFeed returns a page of posts for the requested tab. The friends and
// following tabs exist in the client but have no social graph behind them
// yet, so they resolve to an empty page.
func (s *PostService) GetFeed(ctx context.Context, viewerID int64, filter dto.FeedFilter) (*dto.PostListResponse, error) {
	if filter.Tab == dto.FeedTabFriends || filter.Tab == dto.FeedTabFollowing {
		return &dto.PostListResponse{
			Posts:      []dto.PostResponse{},
			Pagination: helpers.NewPaginationInfo(0, filter.Page, filter.PageSize),
		}, nil
	}

	posts, total, err := s.postRepo.ListFeed(ctx, filter, viewerID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		resp := dto.FromPost(post)
		if post.Author != nil {
			author := dto.FromUser(post.Author)
			resp.Author = &author
		}
		if filter.Latitude != nil && filter.Longitude != nil &&
			post.Latitude != nil && post.Longitude != nil {
			d := geo.Distance(*filter.Latitude, *filter.Longitude, *post.Latitude, *post.Longitude)
			resp.DistanceKm = &d
		}
		responses = append(responses, resp)
	}

	return &dto.PostListResponse{
		Posts:      responses,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// ClaimPost registers the caller's interest in helping. The post author is
// notified. Claiming counts as activity for the claimer's streak.
func (s *PostService) ClaimPost(ctx context.Context, postID, userID int64) error {
	claimer, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	notification, err := s.postRepo.Claim(ctx, postID, claimer)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.RecordActivity(ctx, userID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to record streak activity")
	}

	s.notifier.NotifyAsync(notification)
	return nil
}

// UnclaimPost withdraws the caller's claim
func (s *PostService) UnclaimPost(ctx context.Context, postID, userID int64) error {
	return s.postRepo.Unclaim(ctx, postID, userID)
}

// ApproveClaimer selects one claimer as the helper. Approval is first-wins;
// a second approval fails.
func (s *PostService) ApproveClaimer(ctx context.Context, postID, authorID, claimerID int64) error {
	notification, err := s.postRepo.ApproveClaimer(ctx, postID, authorID, claimerID)
	if err != nil {
		return err
	}

	s.notifier.NotifyAsync(notification)
	return nil
}

// MarkComplete is called by the approved claimer when the work is done.
// The author is asked to confirm and rate. Marking a task done counts
// as activity for the claimer's streak.
func (s *PostService) MarkComplete(ctx context.Context, postID, claimerID int64) error {
	notification, err := s.postRepo.MarkCompleteByClaimer(ctx, postID, claimerID)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.RecordActivity(ctx, claimerID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", claimerID).Msg("Failed to record streak activity")
	}

	s.notifier.NotifyAsync(notification)
	return nil
}

// CompleteAndRate is called by the author to confirm completion and rate the
// helper. Each completion step credits its own actor, so confirming counts
// as activity for the author's streak.
func (s *PostService) CompleteAndRate(ctx context.Context, postID, authorID int64, rating int) error {
	notification, err := s.postRepo.CompleteAndRate(ctx, postID, authorID, rating)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.RecordActivity(ctx, authorID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", authorID).Msg("Failed to record streak activity")
	}

	s.notifier.NotifyAsync(notification)
	return nil
}

// LikePost records a like, idempotently
func (s *PostService) LikePost(ctx context.Context, postID, userID int64) error {
	return s.postRepo.Like(ctx, postID, userID)
}

// UnlikePost removes a like
func (s *PostService) UnlikePost(ctx context.Context, postID, userID int64) error {
	return s.postRepo.Unlike(ctx, postID, userID)
}

// ListCategories returns the available post categories
func (s *PostService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}
