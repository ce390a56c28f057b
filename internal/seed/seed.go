// Package seed creates default data on startup.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appRepos "github.com/dotoapp/doto-backend/internal/app/repositories"
)

// defaultCategories are the post categories shipped with the app. Creating
// an existing slug is a no-op, so seeding is idempotent.
var defaultCategories = []struct {
	Slug string
	Name string
}{
	{"groceries", "Groceries"},
	{"repairs", "Repairs"},
	{"transport", "Transport"},
	{"childcare", "Childcare"},
	{"errands", "Errands"},
	{"pets", "Pets"},
	{"other", "Other"},
}

// CreateDefaultData creates the default post categories if they don't exist.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default categories...")
	var finalErr error

	for _, category := range defaultCategories {
		if _, err := categoryRepo.Create(ctx, category.Slug, category.Name); err != nil {
			lgr.Error().Err(err).Str("slug", category.Slug).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default categories are in place.")
	}
	return finalErr
}
