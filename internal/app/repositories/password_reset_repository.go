package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
)

// IPasswordResetRepository defines the interface for password reset tokens
type IPasswordResetRepository interface {
	CreateToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string) error
	InvalidateUserTokens(ctx context.Context, userID int64) error
}

// PasswordResetRepository handles password reset token persistence
type PasswordResetRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// CreateToken stores a new reset token for a user
func (r *PasswordResetRepository) CreateToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, used)
		VALUES ($1, $2, $3, FALSE)`,
		userID, token, expiresAt)

	if err != nil {
		return fmt.Errorf("error creating password reset token: %w", err)
	}

	return nil
}

// GetByToken loads a reset token, rejecting unknown, used, and expired ones
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	t := &models.PasswordResetToken{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1`, token).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidPasswordResetToken
		}
		return nil, fmt.Errorf("error retrieving password reset token: %w", err)
	}

	if t.Used {
		return nil, apperrors.ErrPasswordResetTokenUsed
	}
	if t.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrInvalidPasswordResetToken
	}

	return t, nil
}

// MarkUsed consumes a reset token so it cannot be replayed
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, token string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE password_reset_tokens
		SET used = TRUE
		WHERE token = $1 AND used = FALSE`, token)

	if err != nil {
		return fmt.Errorf("error marking password reset token used: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidPasswordResetToken
	}

	return nil
}

// InvalidateUserTokens marks every outstanding token for a user as used
func (r *PasswordResetRepository) InvalidateUserTokens(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE password_reset_tokens
		SET used = TRUE
		WHERE user_id = $1 AND used = FALSE`, userID)

	if err != nil {
		return fmt.Errorf("error invalidating password reset tokens: %w", err)
	}

	return nil
}
