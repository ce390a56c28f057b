package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/dberrors"
)

// ICommentRepository defines the interface for comment database operations
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListForPost(ctx context.Context, postID int64) ([]models.Comment, error)
	ListForEvent(ctx context.Context, eventID int64) ([]models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment on a post or an event
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, event_id, author_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		comment.PostID, comment.EventID, comment.AuthorID, comment.Text).Scan(&id)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			if comment.PostID != nil {
				return 0, apperrors.ErrPostNotFound
			}
			return 0, apperrors.ErrEventNotFound
		}
		return 0, fmt.Errorf("error creating comment: %w", err)
	}

	return id, nil
}

// GetByID retrieves a single comment
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment := &models.Comment{}
	err := r.db.QueryRow(ctx, `
		SELECT id, post_id, event_id, author_id, text, created_at
		FROM comments
		WHERE id = $1`, id).Scan(
		&comment.ID, &comment.PostID, &comment.EventID, &comment.AuthorID,
		&comment.Text, &comment.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}

	return comment, nil
}

func (r *CommentRepository) listByTarget(ctx context.Context, column string, targetID int64) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.post_id, c.event_id, c.author_id, c.text, c.created_at,
			u.id, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.`+column+` = $1
		ORDER BY c.created_at`, targetID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		author := &models.User{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.EventID, &c.AuthorID, &c.Text, &c.CreatedAt,
			&author.ID, &author.Name, &author.AvatarURL); err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		c.Author = author
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// ListForPost returns a post's comments in chronological order, with authors
func (r *CommentRepository) ListForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return r.listByTarget(ctx, "post_id", postID)
}

// ListForEvent returns an event's comments in chronological order, with authors
func (r *CommentRepository) ListForEvent(ctx context.Context, eventID int64) ([]models.Comment, error) {
	return r.listByTarget(ctx, "event_id", eventID)
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM comments
		WHERE id = $1`, id)

	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}
