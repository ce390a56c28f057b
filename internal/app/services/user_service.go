package services

import (
	"context"
	"math"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/badges"
	"github.com/dotoapp/doto-backend/internal/pkg/filestorage"
)

// Points awarded per activity type
const (
	PointsPerPost    = 10
	PointsPerTask    = 50
	PointsPerLike    = 2
	PointsPerComment = 5
)

// UserService handles profile, statistics and device token operations
type UserService struct {
	userRepo      repositories.IUserRepository
	pushTokenRepo repositories.IPushTokenRepository
	storage       filestorage.FileStorage
	logger        zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	pushTokenRepo repositories.IPushTokenRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		pushTokenRepo: pushTokenRepo,
		storage:       storage,
		logger:        logger,
	}
}

// GetProfile returns a user's public profile
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of the request to the caller's
// profile and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Location != nil {
		user.Location = req.Location
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

// UpdateAvatar stores a new avatar image and records its URL
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(fileHeader, "avatars")
	if err != nil {
		return nil, err
	}

	oldAvatar := user.AvatarURL

	if err := s.userRepo.UpdateAvatar(ctx, userID, &url); err != nil {
		return nil, err
	}

	if oldAvatar != nil {
		if err := s.storage.DeleteFile(*oldAvatar); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to delete old avatar")
		}
	}

	return s.userRepo.GetByID(ctx, userID)
}

// GetStats aggregates a user's activity into points, engagement and badges
func (s *UserService) GetStats(ctx context.Context, userID int64) (*dto.UserStatsResponse, error) {
	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	points := stats.PostsCreated*PointsPerPost +
		stats.TasksCompleted*PointsPerTask +
		stats.LikesReceived*PointsPerLike +
		stats.CommentsWritten*PointsPerComment

	engagement := stats.PostsCreated + stats.TasksCompleted + stats.CommentsWritten
	avgRating := math.Round(stats.AverageRating*10) / 10

	earned := badges.Earned(badges.Stats{
		PostsCreated:         stats.PostsCreated,
		TasksCompleted:       stats.TasksCompleted,
		AverageRating:        avgRating,
		TotalRatingsReceived: stats.RatingsReceived,
		FirstClaimCount:      stats.FirstClaims,
		CurrentStreak:        stats.CurrentStreak,
		LongestStreak:        stats.LongestStreak,
		TotalEngagement:      engagement,
	})

	return &dto.UserStatsResponse{
		PostsCreated:         stats.PostsCreated,
		TasksCompleted:       stats.TasksCompleted,
		TotalRatingsReceived: stats.RatingsReceived,
		AverageRating:        avgRating,
		TotalLikesReceived:   stats.LikesReceived,
		CommentsMade:         stats.CommentsWritten,
		FirstClaimCount:      stats.FirstClaims,
		TotalPoints:          points,
		TotalEngagement:      engagement,
		CurrentStreak:        stats.CurrentStreak,
		LongestStreak:        stats.LongestStreak,
		Badges:               earned,
	}, nil
}

// RegisterPushToken registers a device token for the caller
func (s *UserService) RegisterPushToken(ctx context.Context, userID int64, req *dto.RegisterPushTokenRequest) error {
	platform := req.Platform
	if platform == "" {
		platform = "android"
	}
	return s.pushTokenRepo.Register(ctx, userID, req.Token, platform)
}

// RemovePushToken deletes a device token, typically on logout
func (s *UserService) RemovePushToken(ctx context.Context, token string) error {
	return s.pushTokenRepo.DeleteToken(ctx, token)
}
