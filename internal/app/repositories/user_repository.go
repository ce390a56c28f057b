package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/db"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/dberrors"
	"github.com/dotoapp/doto-backend/internal/pkg/logger"
	"github.com/dotoapp/doto-backend/internal/pkg/streak"
)

// UserStats aggregates the activity counters used for points and badges.
type UserStats struct {
	PostsCreated    int
	TasksCompleted  int
	ClaimsMade      int
	FirstClaims     int
	LikesReceived   int
	CommentsWritten int
	AverageRating   float64
	RatingsReceived int
	CurrentStreak   int
	LongestStreak   int
}

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, userID int64, avatarURL *string) error
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	RecordActivity(ctx context.Context, userID int64, now time.Time) (streak.State, error)
	GetStats(ctx context.Context, userID int64) (*UserStats, error)
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, email_lower, password, avatar_url, age, location, push_language, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		user.Name, user.Email, strings.ToLower(user.Email), user.Password,
		user.AvatarURL, user.Age, user.Location, user.PushLanguage, user.IsActive).Scan(&id)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_lower_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

const userColumns = `id, name, email, email_lower, password, avatar_url, age, location, push_language,
		current_streak, longest_streak, last_activity_at, is_active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.EmailLower, &user.Password,
		&user.AvatarURL, &user.Age, &user.Location, &user.PushLanguage,
		&user.CurrentStreak, &user.LongestStreak, &user.LastActivityAt,
		&user.IsActive, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user row: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email_lower = $1`, strings.ToLower(email))
	return scanUser(row)
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email_lower = $1)`,
		strings.ToLower(email)).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return exists, nil
}

// UpdateProfile updates a user's editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, age = $2, location = $3, push_language = $4, updated_at = NOW()
		WHERE id = $5`,
		user.Name, user.Age, user.Location, user.PushLanguage, user.ID)

	if err != nil {
		return fmt.Errorf("error updating user profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateAvatar sets or clears the user's avatar URL
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL *string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET avatar_url = $1, updated_at = NOW()
		WHERE id = $2`,
		avatarURL, userID)

	if err != nil {
		return fmt.Errorf("error updating avatar: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password = $1, updated_at = NOW()
		WHERE id = $2`,
		hashedPassword, userID)

	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET last_login_at = NOW()
		WHERE id = $1`, userID)

	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}

	return nil
}

// RecordActivity advances the user's streak for a qualifying action.
// The row is locked for the duration of the transaction so concurrent
// actions by the same user cannot double-increment the counter.
func (r *UserRepository) RecordActivity(ctx context.Context, userID int64, now time.Time) (streak.State, error) {
	var result streak.State

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var state streak.State
		err := tx.QueryRow(ctx, `
			SELECT last_activity_at, current_streak, longest_streak
			FROM users
			WHERE id = $1
			FOR UPDATE`, userID).Scan(&state.LastActivityAt, &state.CurrentStreak, &state.LongestStreak)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error loading streak state: %w", err)
		}

		result = streak.Apply(state, now)

		_, err = tx.Exec(ctx, `
			UPDATE users
			SET current_streak = $1, longest_streak = $2, last_activity_at = $3, updated_at = NOW()
			WHERE id = $4`,
			result.CurrentStreak, result.LongestStreak, result.LastActivityAt, userID)
		if err != nil {
			return fmt.Errorf("error updating streak state: %w", err)
		}

		return nil
	})
	if err != nil {
		return streak.State{}, err
	}

	logger.Debug().
		Int64("userID", userID).
		Int("currentStreak", result.CurrentStreak).
		Msg("Recorded user activity")

	return result, nil
}

// GetStats aggregates the counters that feed points and badges
func (r *UserRepository) GetStats(ctx context.Context, userID int64) (*UserStats, error) {
	stats := &UserStats{}

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE author_id = $1),
			(SELECT COUNT(*) FROM posts WHERE approved_claimer_id = $1 AND is_completed),
			(SELECT COUNT(*) FROM post_claims WHERE user_id = $1),
			(SELECT COUNT(*) FROM post_claims pc
				WHERE pc.user_id = $1
				AND pc.claimed_at = (SELECT MIN(pc2.claimed_at) FROM post_claims pc2 WHERE pc2.post_id = pc.post_id)),
			(SELECT COUNT(*) FROM post_likes pl JOIN posts p ON p.id = pl.post_id WHERE p.author_id = $1),
			(SELECT COUNT(*) FROM comments WHERE author_id = $1),
			(SELECT COALESCE(AVG(helper_rating), 0) FROM posts WHERE approved_claimer_id = $1 AND helper_rating IS NOT NULL),
			(SELECT COUNT(*) FROM posts WHERE approved_claimer_id = $1 AND helper_rating IS NOT NULL),
			u.current_streak,
			u.longest_streak
		FROM users u
		WHERE u.id = $1`, userID).Scan(
		&stats.PostsCreated, &stats.TasksCompleted, &stats.ClaimsMade,
		&stats.FirstClaims, &stats.LikesReceived, &stats.CommentsWritten,
		&stats.AverageRating, &stats.RatingsReceived,
		&stats.CurrentStreak, &stats.LongestStreak)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error aggregating user stats: %w", err)
	}

	return stats, nil
}
