package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/geo"
)

// Geocoder resolves a free-text location to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*geo.GeocodeResult, error)
}

// GeocodeService is the background worker that resolves post locations to
// coordinates. It polls for ungeocoded posts and works through them in
// small batches with a delay between lookups, keeping well under the
// Nominatim usage policy of one request per second.
type GeocodeService struct {
	postRepo     repositories.IPostRepository
	geocoder     Geocoder
	batchSize    int
	batchDelay   time.Duration
	pollInterval time.Duration
	logger       zerolog.Logger
}

// NewGeocodeService creates a new GeocodeService
func NewGeocodeService(
	postRepo repositories.IPostRepository,
	geocoder Geocoder,
	batchSize int,
	batchDelay time.Duration,
	logger zerolog.Logger,
) *GeocodeService {
	if batchSize <= 0 {
		batchSize = 5
	}
	if batchDelay <= 0 {
		batchDelay = time.Second
	}
	return &GeocodeService{
		postRepo:     postRepo,
		geocoder:     geocoder,
		batchSize:    batchSize,
		batchDelay:   batchDelay,
		pollInterval: 30 * time.Second,
		logger:       logger,
	}
}

// Run processes batches until the context is cancelled
func (s *GeocodeService) Run(ctx context.Context) {
	s.logger.Info().
		Int("batchSize", s.batchSize).
		Dur("batchDelay", s.batchDelay).
		Msg("Geocoding worker started")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	// Work immediately on startup, then on every tick
	s.ProcessBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Geocoding worker stopped")
			return
		case <-ticker.C:
			s.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch resolves coordinates for one batch of ungeocoded posts.
// Unresolvable locations are marked failed and never retried; transient
// errors leave the post for the next batch.
func (s *GeocodeService) ProcessBatch(ctx context.Context) {
	posts, err := s.postRepo.ListUngeocoded(ctx, s.batchSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list ungeocoded posts")
		return
	}
	if len(posts) == 0 {
		return
	}

	for i, post := range posts {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.batchDelay):
			}
		}

		result, err := s.geocoder.Geocode(ctx, post.Location)
		if err != nil {
			if errors.Is(err, apperrors.ErrLocationNotFound) || errors.Is(err, apperrors.ErrOutsideIsrael) {
				s.logger.Warn().
					Int64("postID", post.ID).
					Str("location", post.Location).
					Err(err).
					Msg("Location cannot be resolved, marking permanently failed")
				if err := s.postRepo.MarkGeocodeFailed(ctx, post.ID); err != nil {
					s.logger.Error().Err(err).Int64("postID", post.ID).Msg("Failed to mark geocode failure")
				}
				continue
			}

			// Transient: leave the post for the next batch
			s.logger.Warn().Err(err).Int64("postID", post.ID).Msg("Geocoding attempt failed, will retry")
			continue
		}

		if err := s.postRepo.SetCoordinates(ctx, post.ID, result.Lat, result.Lon); err != nil {
			s.logger.Error().Err(err).Int64("postID", post.ID).Msg("Failed to store coordinates")
			continue
		}

		s.logger.Debug().
			Int64("postID", post.ID).
			Float64("lat", result.Lat).
			Float64("lon", result.Lon).
			Msg("Post geocoded")
	}
}
