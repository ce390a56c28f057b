package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/pkg/dberrors"
)

// ICategoryRepository defines the interface for post category lookups
type ICategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, slug, name string) (int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, slug, name
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

// Create inserts a category, ignoring duplicates by slug
func (r *CategoryRepository) Create(ctx context.Context, slug, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (slug, name)
		VALUES ($1, $2)
		RETURNING id`, slug, name).Scan(&id)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("error creating category: %w", err)
	}

	return id, nil
}

// SlugExists checks whether a category slug is already present
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking category slug: %w", err)
	}

	return exists, nil
}
