package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoapp/doto-backend/internal/app/models/dto"
)

func TestFeedConditionsNearbyTabExcludesApprovedPosts(t *testing.T) {
	conds, args := feedConditions(dto.FeedFilter{Tab: dto.FeedTabNearby}, 7)

	require.Len(t, conds, 1)
	assert.Equal(t, "p.approved_claimer_id IS NULL", conds[0])
	assert.Empty(t, args)
}

func TestFeedConditionsUnknownTabFallsBackToNearby(t *testing.T) {
	conds, _ := feedConditions(dto.FeedFilter{Tab: "bogus"}, 7)

	require.Len(t, conds, 1)
	assert.Equal(t, "p.approved_claimer_id IS NULL", conds[0])
}

func TestFeedConditionsMyPostsTab(t *testing.T) {
	conds, args := feedConditions(dto.FeedFilter{Tab: dto.FeedTabMyPosts}, 7)

	require.Len(t, conds, 1)
	assert.Equal(t, "p.author_id = $1", conds[0])
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestFeedConditionsMyClaimsTab(t *testing.T) {
	conds, args := feedConditions(dto.FeedFilter{Tab: dto.FeedTabMyClaims}, 7)

	require.Len(t, conds, 1)
	assert.Contains(t, conds[0], "post_claims")
	assert.Contains(t, conds[0], "pc.user_id = $1")
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestFeedConditionsCheckboxFiltersAreUnion(t *testing.T) {
	conds, _ := feedConditions(dto.FeedFilter{
		Tab:          dto.FeedTabNearby,
		WithComments: true,
		WithLikes:    true,
		WithClaims:   true,
	}, 7)

	require.Len(t, conds, 2, "tab predicate plus one combined filter group")
	assert.Equal(t, 2, strings.Count(conds[1], " OR "), "three filters joined with OR")
	assert.Contains(t, conds[1], "comments")
	assert.Contains(t, conds[1], "post_likes")
	assert.Contains(t, conds[1], "post_claims")
	assert.NotContains(t, conds[1], " AND EXISTS", "filters must not be intersected")
}

func TestFeedConditionsNearbyMeRadius(t *testing.T) {
	lat, lon := 32.0853, 34.7818
	conds, args := feedConditions(dto.FeedFilter{
		Tab:       dto.FeedTabNearby,
		NearbyMe:  true,
		Latitude:  &lat,
		Longitude: &lon,
	}, 7)

	require.Len(t, conds, 2)
	assert.Contains(t, conds[1], "p.latitude IS NOT NULL")
	assert.Contains(t, conds[1], "6371")
	assert.Equal(t, []interface{}{lat, lon, NearbyRadiusKm}, args)
}

func TestFeedConditionsNearbyMeNeedsCoordinates(t *testing.T) {
	conds, args := feedConditions(dto.FeedFilter{Tab: dto.FeedTabNearby, NearbyMe: true}, 7)

	require.Len(t, conds, 1, "nearbyMe without viewer coordinates is ignored")
	assert.Empty(t, args)
}
