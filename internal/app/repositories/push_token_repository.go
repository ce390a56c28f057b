package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IPushTokenRepository defines the interface for device push token persistence
type IPushTokenRepository interface {
	Register(ctx context.Context, userID int64, token, platform string) error
	GetTokensForUser(ctx context.Context, userID int64) ([]string, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteUserTokens(ctx context.Context, userID int64) error
}

// PushTokenRepository handles push token database operations
type PushTokenRepository struct {
	db *pgxpool.Pool
}

// NewPushTokenRepository creates a new PushTokenRepository
func NewPushTokenRepository(db *pgxpool.Pool) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

// Register upserts a device token. A token re-registered by a different user
// moves to the new user, which covers shared devices and reinstalls.
func (r *PushTokenRepository) Register(ctx context.Context, userID int64, token, platform string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO push_tokens (user_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT push_tokens_token_key
		DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform`,
		userID, token, platform)

	if err != nil {
		return fmt.Errorf("error registering push token: %w", err)
	}

	return nil
}

// GetTokensForUser returns all device tokens registered by a user
func (r *PushTokenRepository) GetTokensForUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT token
		FROM push_tokens
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing push tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("error scanning push token row: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating push token rows: %w", err)
	}

	return tokens, nil
}

// DeleteToken removes a single device token
func (r *PushTokenRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM push_tokens
		WHERE token = $1`, token)

	if err != nil {
		return fmt.Errorf("error deleting push token: %w", err)
	}

	return nil
}

// DeleteUserTokens removes all device tokens for a user
func (r *PushTokenRepository) DeleteUserTokens(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM push_tokens
		WHERE user_id = $1`, userID)

	if err != nil {
		return fmt.Errorf("error deleting user push tokens: %w", err)
	}

	return nil
}
