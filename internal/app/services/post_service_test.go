package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
)

func newTestPostService(t *testing.T) (*PostService, *fakePostRepo, *fakeUserRepo) {
	t.Helper()
	postRepo := newFakePostRepo()
	userRepo := newFakeUserRepo()
	categoryRepo := &fakeCategoryRepo{categories: []models.Category{
		{ID: 1, Slug: "groceries", Name: "Groceries"},
		{ID: 2, Slug: "other", Name: "Other"},
	}}
	svc := NewPostService(postRepo, userRepo, categoryRepo, newTestNotifier(), zerolog.Nop())
	return svc, postRepo, userRepo
}

func createTestPost(t *testing.T, svc *PostService, authorID int64) *models.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), authorID, &dto.CreatePostRequest{
		Title:    "Need help carrying boxes",
		Location: "Dizengoff 100, Tel Aviv",
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostDefaults(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	author := userRepo.addUser("dana")

	post, err := svc.CreatePost(context.Background(), author.ID, &dto.CreatePostRequest{
		Title:    "Need a ride to the clinic",
		Location: "Herzl 5, Haifa",
	})
	require.NoError(t, err)

	assert.Equal(t, "other", post.Category, "missing category falls back to other")
	assert.NotNil(t, post.Photos)
	assert.Empty(t, post.Photos)

	// Posting counts as streak activity for the author
	stored, err := userRepo.GetByID(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
}

func TestClaimLifecycle(t *testing.T) {
	svc, postRepo, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	helper := userRepo.addUser("helper")
	other := userRepo.addUser("other")
	post := createTestPost(t, svc, author.ID)

	// Authors cannot claim their own post
	require.ErrorIs(t, svc.ClaimPost(ctx, post.ID, author.ID), apperrors.ErrOwnPostClaim)

	require.NoError(t, svc.ClaimPost(ctx, post.ID, helper.ID))
	require.ErrorIs(t, svc.ClaimPost(ctx, post.ID, helper.ID), apperrors.ErrAlreadyClaimed)
	require.NoError(t, svc.ClaimPost(ctx, post.ID, other.ID))

	// Only the author approves, and approval is first-wins
	require.ErrorIs(t, svc.ApproveClaimer(ctx, post.ID, helper.ID, other.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.ApproveClaimer(ctx, post.ID, author.ID, helper.ID))
	require.ErrorIs(t, svc.ApproveClaimer(ctx, post.ID, author.ID, other.ID), apperrors.ErrAlreadyApproved)

	// The approved claimer cannot back out anymore
	require.ErrorIs(t, svc.UnclaimPost(ctx, post.ID, helper.ID), apperrors.ErrAlreadyApproved)

	// Only the approved claimer can mark the work done
	require.ErrorIs(t, svc.MarkComplete(ctx, post.ID, other.ID), apperrors.ErrClaimerNotApproved)

	// The author cannot confirm before the helper marked completion
	require.ErrorIs(t, svc.CompleteAndRate(ctx, post.ID, author.ID, 5), apperrors.ErrNotYetCompleted)

	require.NoError(t, svc.MarkComplete(ctx, post.ID, helper.ID))

	require.ErrorIs(t, svc.CompleteAndRate(ctx, post.ID, helper.ID, 5), apperrors.ErrPermissionDenied)
	require.ErrorIs(t, svc.CompleteAndRate(ctx, post.ID, author.ID, 9), apperrors.ErrInvalidRating)
	require.NoError(t, svc.CompleteAndRate(ctx, post.ID, author.ID, 5))

	stored, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	assert.True(t, stored.CompletedByClaimer)
	assert.True(t, stored.CompletedByAuthor)
	require.NotNil(t, stored.HelperRating)
	assert.Equal(t, 5, *stored.HelperRating)

	// Completing a task counts as streak activity for the helper
	storedHelper, err := userRepo.GetByID(ctx, helper.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, storedHelper.CurrentStreak, 1)

	// Completed tasks accept no further claims or confirmations
	late := userRepo.addUser("late")
	require.ErrorIs(t, svc.ClaimPost(ctx, post.ID, late.ID), apperrors.ErrAlreadyCompleted)
	require.ErrorIs(t, svc.CompleteAndRate(ctx, post.ID, author.ID, 4), apperrors.ErrAlreadyCompleted)
}

func TestCompletionStepsCreditTheirActors(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	helper := userRepo.addUser("helper")
	post := createTestPost(t, svc, author.ID)

	require.NoError(t, svc.ClaimPost(ctx, post.ID, helper.ID))
	require.NoError(t, svc.ApproveClaimer(ctx, post.ID, author.ID, helper.ID))

	helperBefore := userRepo.activityCount(helper.ID)
	require.NoError(t, svc.MarkComplete(ctx, post.ID, helper.ID))
	assert.Equal(t, helperBefore+1, userRepo.activityCount(helper.ID),
		"marking done counts as activity for the claimer")

	authorBefore := userRepo.activityCount(author.ID)
	helperBefore = userRepo.activityCount(helper.ID)
	require.NoError(t, svc.CompleteAndRate(ctx, post.ID, author.ID, 4))
	assert.Equal(t, authorBefore+1, userRepo.activityCount(author.ID),
		"confirming counts as activity for the author")
	assert.Equal(t, helperBefore, userRepo.activityCount(helper.ID),
		"confirming does not credit the helper a second time")
}

func TestMarkCompleteRequiresApproval(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	helper := userRepo.addUser("helper")
	post := createTestPost(t, svc, author.ID)

	require.NoError(t, svc.ClaimPost(ctx, post.ID, helper.ID))
	require.ErrorIs(t, svc.MarkComplete(ctx, post.ID, helper.ID), apperrors.ErrClaimerNotApproved)
}

func TestUpdatePostClearsCoordinatesOnLocationChange(t *testing.T) {
	svc, postRepo, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	post := createTestPost(t, svc, author.ID)

	lat, lon := 32.0853, 34.7818
	require.NoError(t, postRepo.SetCoordinates(ctx, post.ID, lat, lon))

	newTitle := "Need help carrying heavy boxes"
	updated, err := svc.UpdatePost(ctx, post.ID, author.ID, &dto.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.NotNil(t, updated.Latitude, "coordinates survive edits that keep the location")

	newLocation := "Jaffa 20, Jerusalem"
	updated, err = svc.UpdatePost(ctx, post.ID, author.ID, &dto.UpdatePostRequest{Location: &newLocation})
	require.NoError(t, err)
	assert.Nil(t, updated.Latitude)
	assert.Nil(t, updated.Longitude)

	stranger := userRepo.addUser("stranger")
	_, err = svc.UpdatePost(ctx, post.ID, stranger.ID, &dto.UpdatePostRequest{Title: &newTitle})
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	stranger := userRepo.addUser("stranger")
	post := createTestPost(t, svc, author.ID)

	require.ErrorIs(t, svc.DeletePost(ctx, post.ID, stranger.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.DeletePost(ctx, post.ID, author.ID))
	_, err := svc.GetPost(ctx, post.ID)
	require.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestGetFeedSocialTabsAreEmpty(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	createTestPost(t, svc, author.ID)

	for _, tab := range []dto.FeedTab{dto.FeedTabFriends, dto.FeedTabFollowing} {
		resp, err := svc.GetFeed(ctx, author.ID, dto.FeedFilter{Tab: tab, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, resp.Posts)
		assert.EqualValues(t, 0, resp.Pagination.TotalItems)
	}
}

func TestGetFeedNearbyExcludesApprovedPosts(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	helper := userRepo.addUser("helper")
	open := createTestPost(t, svc, author.ID)
	taken := createTestPost(t, svc, author.ID)

	require.NoError(t, svc.ClaimPost(ctx, taken.ID, helper.ID))
	require.NoError(t, svc.ApproveClaimer(ctx, taken.ID, author.ID, helper.ID))

	resp, err := svc.GetFeed(ctx, helper.ID, dto.FeedFilter{Tab: dto.FeedTabNearby, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1, "a post leaves the feed once a helper is approved")
	assert.Equal(t, open.ID, resp.Posts[0].ID)

	// The approved post still shows up under the claimer's own claims
	resp, err = svc.GetFeed(ctx, helper.ID, dto.FeedFilter{Tab: dto.FeedTabMyClaims, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, taken.ID, resp.Posts[0].ID)
}

func TestGetFeedCheckboxFiltersAreUnion(t *testing.T) {
	svc, _, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	fan := userRepo.addUser("fan")
	helper := userRepo.addUser("helper")
	liked := createTestPost(t, svc, author.ID)
	claimed := createTestPost(t, svc, author.ID)
	plain := createTestPost(t, svc, author.ID)

	require.NoError(t, svc.LikePost(ctx, liked.ID, fan.ID))
	require.NoError(t, svc.ClaimPost(ctx, claimed.ID, helper.ID))

	resp, err := svc.GetFeed(ctx, fan.ID, dto.FeedFilter{
		Tab:        dto.FeedTabNearby,
		WithLikes:  true,
		WithClaims: true,
		Page:       1,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2, "a post passes when any checked filter applies")

	ids := []int64{resp.Posts[0].ID, resp.Posts[1].ID}
	assert.Contains(t, ids, liked.ID)
	assert.Contains(t, ids, claimed.ID)
	assert.NotContains(t, ids, plain.ID)
}

func TestGetFeedNearbyMeRadius(t *testing.T) {
	svc, postRepo, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	near := createTestPost(t, svc, author.ID)
	far := createTestPost(t, svc, author.ID)
	require.NoError(t, postRepo.SetCoordinates(ctx, near.ID, 32.0809, 34.7740))  // Tel Aviv
	require.NoError(t, postRepo.SetCoordinates(ctx, far.ID, 31.7683, 35.2137))   // Jerusalem

	viewerLat, viewerLon := 32.0853, 34.7818
	resp, err := svc.GetFeed(ctx, author.ID, dto.FeedFilter{
		Tab:       dto.FeedTabNearby,
		NearbyMe:  true,
		Latitude:  &viewerLat,
		Longitude: &viewerLon,
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, near.ID, resp.Posts[0].ID)
}

func TestGetFeedComputesDistance(t *testing.T) {
	svc, postRepo, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	post := createTestPost(t, svc, author.ID)
	require.NoError(t, postRepo.SetCoordinates(ctx, post.ID, 31.7683, 35.2137))

	viewerLat, viewerLon := 32.0853, 34.7818
	resp, err := svc.GetFeed(ctx, author.ID, dto.FeedFilter{
		Tab:       dto.FeedTabNearby,
		Latitude:  &viewerLat,
		Longitude: &viewerLon,
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	require.NotNil(t, resp.Posts[0].DistanceKm)
	assert.InDelta(t, 54, *resp.Posts[0].DistanceKm, 10)
}

func TestLikePostIsIdempotent(t *testing.T) {
	svc, postRepo, userRepo := newTestPostService(t)
	ctx := context.Background()

	author := userRepo.addUser("author")
	fan := userRepo.addUser("fan")
	post := createTestPost(t, svc, author.ID)

	require.NoError(t, svc.LikePost(ctx, post.ID, fan.ID))
	require.NoError(t, svc.LikePost(ctx, post.ID, fan.ID))

	stored, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, stored.LikedBy, 1)

	require.NoError(t, svc.UnlikePost(ctx, post.ID, fan.ID))
	stored, err = postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LikedBy)
}
