package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
)

// CommentService handles comments on posts and community events
type CommentService struct {
	commentRepo repositories.ICommentRepository
	postRepo    repositories.IPostRepository
	eventRepo   repositories.IEventRepository
	userRepo    repositories.IUserRepository
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repositories.ICommentRepository,
	postRepo repositories.IPostRepository,
	eventRepo repositories.IEventRepository,
	userRepo repositories.IUserRepository,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// AddPostComment comments on a post. Commenting counts as activity for the
// author's streak.
func (s *CommentService) AddPostComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	return s.add(ctx, &models.Comment{PostID: &postID, AuthorID: authorID, Text: text})
}

// AddEventComment comments on a community event. Users the organizer
// blocked cannot comment.
func (s *CommentService) AddEventComment(ctx context.Context, eventID, authorID int64, text string) (*models.Comment, error) {
	blocked, err := s.eventRepo.IsBlocked(ctx, eventID, authorID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperrors.ErrUserBlocked
	}
	return s.add(ctx, &models.Comment{EventID: &eventID, AuthorID: authorID, Text: text})
}

func (s *CommentService) add(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if comment.Text == "" {
		return nil, apperrors.ErrValidationFailed
	}

	id, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.RecordActivity(ctx, comment.AuthorID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", comment.AuthorID).Msg("Failed to record streak activity")
	}

	return s.commentRepo.GetByID(ctx, id)
}

// ListPostComments returns a post's comments in chronological order
func (s *CommentService) ListPostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.commentRepo.ListForPost(ctx, postID)
}

// ListEventComments returns an event's comments in chronological order
func (s *CommentService) ListEventComments(ctx context.Context, eventID int64) ([]models.Comment, error) {
	return s.commentRepo.ListForEvent(ctx, eventID)
}

// DeleteComment removes a comment. Allowed for the comment author and for
// the owner of the post or event it was written on.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	allowed := comment.AuthorID == userID
	if !allowed && comment.PostID != nil {
		post, err := s.postRepo.GetByID(ctx, *comment.PostID)
		if err != nil {
			return err
		}
		allowed = post.AuthorID == userID
	}
	if !allowed && comment.EventID != nil {
		event, err := s.eventRepo.GetByID(ctx, *comment.EventID)
		if err != nil {
			return err
		}
		allowed = event.AuthorID == userID
	}
	if !allowed {
		return apperrors.ErrPermissionDenied
	}

	return s.commentRepo.Delete(ctx, commentID)
}
