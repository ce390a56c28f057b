package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/app/repositories"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/geo"
	"github.com/dotoapp/doto-backend/internal/pkg/push"
	"github.com/dotoapp/doto-backend/internal/pkg/streak"
)

// In-memory repository fakes mirroring the SQL repositories' behavior
// closely enough to drive the services through their error paths.

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	stats    map[int64]*repositories.UserStats
	activity map[int64]int
	nextID   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[int64]*models.User),
		stats:    make(map[int64]*repositories.UserStats),
		activity: make(map[int64]int),
		nextID:   1,
	}
}

func (r *fakeUserRepo) addUser(name string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &models.User{
		ID:        r.nextID,
		Name:      name,
		Email:     name + "@example.com",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	r.users[user.ID] = user
	r.nextID++
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	r.nextID++
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == apperrors.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Age = user.Age
	stored.Location = user.Location
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, userID int64, avatarURL *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.AvatarURL = avatarURL
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if stored, ok := r.users[userID]; ok {
		stored.LastLoginAt = &now
	}
	return nil
}

func (r *fakeUserRepo) RecordActivity(_ context.Context, userID int64, now time.Time) (streak.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok {
		return streak.State{}, apperrors.ErrUserNotFound
	}
	r.activity[userID]++
	state := streak.Apply(streak.State{
		LastActivityAt: stored.LastActivityAt,
		CurrentStreak:  stored.CurrentStreak,
		LongestStreak:  stored.LongestStreak,
	}, now)
	stored.LastActivityAt = state.LastActivityAt
	stored.CurrentStreak = state.CurrentStreak
	stored.LongestStreak = state.LongestStreak
	return state, nil
}

func (r *fakeUserRepo) activityCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activity[userID]
}

func (r *fakeUserRepo) GetStats(_ context.Context, userID int64) (*repositories.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if stats, ok := r.stats[userID]; ok {
		copied := *stats
		copied.CurrentStreak = stored.CurrentStreak
		copied.LongestStreak = stored.LongestStreak
		return &copied, nil
	}
	return &repositories.UserStats{
		CurrentStreak: stored.CurrentStreak,
		LongestStreak: stored.LongestStreak,
	}, nil
}

type fakePostRepo struct {
	mu     sync.Mutex
	posts  map[int64]*models.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post), nextID: 1}
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	r.posts[post.ID] = post
	r.nextID++
	return post.ID, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return apperrors.ErrPostNotFound
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) ListFeed(_ context.Context, filter dto.FeedFilter, viewerID int64) ([]*models.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		switch filter.Tab {
		case dto.FeedTabMyPosts:
			if post.AuthorID != viewerID {
				continue
			}
		case dto.FeedTabMyClaims:
			claimed := false
			for _, claim := range post.Claims {
				if claim.UserID == viewerID {
					claimed = true
					break
				}
			}
			if !claimed {
				continue
			}
		default:
			// nearby tab shows posts without an approved claimer
			if post.ApprovedClaimerID != nil {
				continue
			}
		}
		if !matchesFeedCheckboxes(post, filter) {
			continue
		}
		copied := *post
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

// matchesFeedCheckboxes mirrors the union semantics of the SQL feed query:
// a post passes when any checked filter applies, or when none are checked.
func matchesFeedCheckboxes(post *models.Post, filter dto.FeedFilter) bool {
	anyChecked := false
	if filter.WithComments {
		anyChecked = true
		if len(post.Comments) > 0 {
			return true
		}
	}
	if filter.WithLikes {
		anyChecked = true
		if len(post.LikedBy) > 0 {
			return true
		}
	}
	if filter.WithClaims {
		anyChecked = true
		if len(post.Claims) > 0 {
			return true
		}
	}
	if filter.NearbyMe && filter.Latitude != nil && filter.Longitude != nil {
		anyChecked = true
		if post.Latitude != nil && post.Longitude != nil &&
			geo.Distance(*filter.Latitude, *filter.Longitude, *post.Latitude, *post.Longitude) <= repositories.NearbyRadiusKm {
			return true
		}
	}
	return !anyChecked
}

func (r *fakePostRepo) Claim(_ context.Context, postID int64, claimer *models.User) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	if post.AuthorID == claimer.ID {
		return nil, apperrors.ErrOwnPostClaim
	}
	if post.IsCompleted {
		return nil, apperrors.ErrAlreadyCompleted
	}
	for _, claim := range post.Claims {
		if claim.UserID == claimer.ID {
			return nil, apperrors.ErrAlreadyClaimed
		}
	}
	post.Claims = append(post.Claims, models.PostClaim{
		PostID:    postID,
		UserID:    claimer.ID,
		UserName:  claimer.Name,
		ClaimedAt: time.Now(),
	})
	return &models.Notification{
		UserID:  post.AuthorID,
		PostID:  &post.ID,
		Type:    models.NotificationPostClaimed,
		Message: claimer.Name + " wants to help with your request",
	}, nil
}

func (r *fakePostRepo) Unclaim(_ context.Context, postID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	if post.ApprovedClaimerID != nil && *post.ApprovedClaimerID == userID {
		return apperrors.ErrAlreadyApproved
	}
	for i, claim := range post.Claims {
		if claim.UserID == userID {
			post.Claims = append(post.Claims[:i], post.Claims[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrClaimNotFound
}

func (r *fakePostRepo) ApproveClaimer(_ context.Context, postID, authorID, claimerID int64) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	if post.AuthorID != authorID {
		return nil, apperrors.ErrPermissionDenied
	}
	found := false
	for _, claim := range post.Claims {
		if claim.UserID == claimerID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.ErrClaimNotFound
	}
	if post.ApprovedClaimerID != nil {
		return nil, apperrors.ErrAlreadyApproved
	}
	now := time.Now()
	post.ApprovedClaimerID = &claimerID
	post.ApprovedAt = &now
	return &models.Notification{
		UserID:  claimerID,
		PostID:  &post.ID,
		Type:    models.NotificationClaimerApproved,
		Message: "You were chosen to help with this request",
	}, nil
}

func (r *fakePostRepo) MarkCompleteByClaimer(_ context.Context, postID, claimerID int64) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	if post.ApprovedClaimerID == nil || *post.ApprovedClaimerID != claimerID {
		return nil, apperrors.ErrClaimerNotApproved
	}
	if post.IsCompleted {
		return nil, apperrors.ErrAlreadyCompleted
	}
	post.CompletedByClaimer = true
	return &models.Notification{
		UserID:  post.AuthorID,
		PostID:  &post.ID,
		Type:    models.NotificationTaskMarkedComplete,
		Message: "The helper marked the task as done",
	}, nil
}

func (r *fakePostRepo) CompleteAndRate(_ context.Context, postID, authorID int64, rating int) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rating < 1 || rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}
	post, ok := r.posts[postID]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	if post.AuthorID != authorID {
		return nil, apperrors.ErrPermissionDenied
	}
	if post.ApprovedClaimerID == nil {
		return nil, apperrors.ErrClaimerNotApproved
	}
	if !post.CompletedByClaimer {
		return nil, apperrors.ErrNotYetCompleted
	}
	if post.IsCompleted {
		return nil, apperrors.ErrAlreadyCompleted
	}
	now := time.Now()
	post.CompletedByAuthor = true
	post.IsCompleted = true
	post.CompletedAt = &now
	post.HelperRating = &rating
	return &models.Notification{
		UserID:  *post.ApprovedClaimerID,
		PostID:  &post.ID,
		Type:    models.NotificationTaskCompleted,
		Rating:  &rating,
		Message: "The task was completed",
	}, nil
}

func (r *fakePostRepo) Like(_ context.Context, postID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	for _, id := range post.LikedBy {
		if id == userID {
			return nil
		}
	}
	post.LikedBy = append(post.LikedBy, userID)
	return nil
}

func (r *fakePostRepo) Unlike(_ context.Context, postID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	for i, id := range post.LikedBy {
		if id == userID {
			post.LikedBy = append(post.LikedBy[:i], post.LikedBy[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePostRepo) ListUngeocoded(_ context.Context, limit int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Post, 0)
	for _, post := range r.posts {
		if post.Latitude == nil && post.Location != "" && !post.GeocodeFailed {
			copied := *post
			out = append(out, &copied)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakePostRepo) SetCoordinates(_ context.Context, postID int64, latitude, longitude float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	post.Latitude = &latitude
	post.Longitude = &longitude
	return nil
}

func (r *fakePostRepo) MarkGeocodeFailed(_ context.Context, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	post.GeocodeFailed = true
	return nil
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]models.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, slug, name string) (int64, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return 0, nil
		}
	}
	id := int64(len(r.categories) + 1)
	r.categories = append(r.categories, models.Category{ID: id, Slug: slug, Name: name})
	return id, nil
}

func (r *fakeCategoryRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type storedToken struct {
	userID    int64
	expiresAt time.Time
	revoked   bool
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*storedToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*storedToken)}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeTokenRepo) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if stored.revoked {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.expiresAt) {
		return 0, time.Time{}, apperrors.ErrTokenExpired
	}
	return stored.userID, stored.expiresAt, nil
}

func (r *fakeTokenRepo) RevokeToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.revoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.tokens {
		if stored.userID == userID {
			stored.revoked = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpiredTokens(_ context.Context) (int64, error) {
	return 0, nil
}

type fakePasswordResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken
}

func newFakePasswordResetRepo() *fakePasswordResetRepo {
	return &fakePasswordResetRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (r *fakePasswordResetRepo) CreateToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &models.PasswordResetToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (r *fakePasswordResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok || time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrInvalidPasswordResetToken
	}
	if stored.Used {
		return nil, apperrors.ErrPasswordResetTokenUsed
	}
	copied := *stored
	return &copied, nil
}

func (r *fakePasswordResetRepo) MarkUsed(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrInvalidPasswordResetToken
	}
	stored.Used = true
	return nil
}

func (r *fakePasswordResetRepo) InvalidateUserTokens(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, stored := range r.tokens {
		if stored.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

type fakePushTokenRepo struct {
	mu     sync.Mutex
	tokens map[int64][]string
}

func newFakePushTokenRepo() *fakePushTokenRepo {
	return &fakePushTokenRepo{tokens: make(map[int64][]string)}
}

func (r *fakePushTokenRepo) Register(_ context.Context, userID int64, token, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = append(r.tokens[userID], token)
	return nil
}

func (r *fakePushTokenRepo) GetTokensForUser(_ context.Context, userID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[userID], nil
}

func (r *fakePushTokenRepo) DeleteToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, tokens := range r.tokens {
		for i, t := range tokens {
			if t == token {
				r.tokens[userID] = append(tokens[:i], tokens[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakePushTokenRepo) DeleteUserTokens(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

type fakeEmailService struct {
	mu          sync.Mutex
	resetTokens []string
	welcomes    []string
}

func (s *fakeEmailService) SendPasswordResetEmail(_, _, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens = append(s.resetTokens, token)
	return nil
}

func (s *fakeEmailService) SendWelcomeEmail(toEmail, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.welcomes = append(s.welcomes, toEmail)
	return nil
}

// newTestNotifier builds a Notifier that never reaches a real provider:
// no tokens are registered, so pushes are skipped.
func newTestNotifier() *Notifier {
	sender := push.NewSender(push.NewExpoClient("http://unused.invalid"), &push.FCMClient{})
	return NewNotifier(newFakePushTokenRepo(), sender, zerolog.Nop())
}
