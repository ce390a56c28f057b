package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/geo"
)

type geocoderFunc func(ctx context.Context, location string) (*geo.GeocodeResult, error)

func (f geocoderFunc) Geocode(ctx context.Context, location string) (*geo.GeocodeResult, error) {
	return f(ctx, location)
}

func addUngeocodedPost(t *testing.T, repo *fakePostRepo, location string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: 1, Title: "test", Location: location}
	_, err := repo.Create(context.Background(), post)
	require.NoError(t, err)
	return post
}

func TestProcessBatchStoresCoordinates(t *testing.T) {
	repo := newFakePostRepo()
	post := addUngeocodedPost(t, repo, "Dizengoff 100, Tel Aviv")

	geocoder := geocoderFunc(func(_ context.Context, location string) (*geo.GeocodeResult, error) {
		assert.Equal(t, "Dizengoff 100, Tel Aviv", location)
		return &geo.GeocodeResult{Lat: 32.0809, Lon: 34.7740}, nil
	})

	svc := NewGeocodeService(repo, geocoder, 5, time.Millisecond, zerolog.Nop())
	svc.ProcessBatch(context.Background())

	stored, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Latitude)
	assert.InDelta(t, 32.0809, *stored.Latitude, 0.0001)

	remaining, err := repo.ListUngeocoded(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestProcessBatchMarksUnresolvableLocations(t *testing.T) {
	repo := newFakePostRepo()
	post := addUngeocodedPost(t, repo, "nowhere in particular")

	geocoder := geocoderFunc(func(_ context.Context, _ string) (*geo.GeocodeResult, error) {
		return nil, apperrors.ErrLocationNotFound
	})

	svc := NewGeocodeService(repo, geocoder, 5, time.Millisecond, zerolog.Nop())
	svc.ProcessBatch(context.Background())

	stored, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, stored.GeocodeFailed)
	assert.Nil(t, stored.Latitude)

	// Failed posts are not retried
	remaining, err := repo.ListUngeocoded(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestProcessBatchRetriesTransientErrors(t *testing.T) {
	repo := newFakePostRepo()
	addUngeocodedPost(t, repo, "Herzl 5, Haifa")

	calls := 0
	geocoder := geocoderFunc(func(_ context.Context, _ string) (*geo.GeocodeResult, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return &geo.GeocodeResult{Lat: 32.8, Lon: 34.98}, nil
	})

	svc := NewGeocodeService(repo, geocoder, 5, time.Millisecond, zerolog.Nop())

	svc.ProcessBatch(context.Background())
	remaining, err := repo.ListUngeocoded(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "transient failures leave the post for the next batch")

	svc.ProcessBatch(context.Background())
	remaining, err = repo.ListUngeocoded(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, 2, calls)
}
