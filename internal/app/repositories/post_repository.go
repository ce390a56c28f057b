package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/db"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/dberrors"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
	"github.com/dotoapp/doto-backend/internal/pkg/logger"
)

// NearbyRadiusKm is the distance cutoff for the "nearby me" feed filter
const NearbyRadiusKm = 20.0

// IPostRepository defines the interface for post-related database operations.
// Lifecycle operations that notify another user (claim, approve, complete)
// insert the notification row in the same transaction as the post mutation
// and return it so callers can deliver push after commit.
type IPostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	ListFeed(ctx context.Context, filter dto.FeedFilter, viewerID int64) ([]*models.Post, int64, error)

	Claim(ctx context.Context, postID int64, claimer *models.User) (*models.Notification, error)
	Unclaim(ctx context.Context, postID, userID int64) error
	ApproveClaimer(ctx context.Context, postID, authorID, claimerID int64) (*models.Notification, error)
	MarkCompleteByClaimer(ctx context.Context, postID, claimerID int64) (*models.Notification, error)
	CompleteAndRate(ctx context.Context, postID, authorID int64, rating int) (*models.Notification, error)

	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error

	ListUngeocoded(ctx context.Context, limit int) ([]*models.Post, error)
	SetCoordinates(ctx context.Context, postID int64, latitude, longitude float64) error
	MarkGeocodeFailed(ctx context.Context, postID int64) error
}

// PostRepository handles post database operations
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `p.id, p.author_id, p.title, p.description, p.category, p.location,
		p.latitude, p.longitude, p.geocode_failed, p.photos,
		p.approved_claimer_id, p.approved_at, p.completed_by_claimer, p.completed_by_author,
		p.is_completed, p.completed_at, p.helper_rating, p.created_at, p.updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Description, &post.Category, &post.Location,
		&post.Latitude, &post.Longitude, &post.GeocodeFailed, &post.Photos,
		&post.ApprovedClaimerID, &post.ApprovedAt, &post.CompletedByClaimer, &post.CompletedByAuthor,
		&post.IsCompleted, &post.CompletedAt, &post.HelperRating, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error scanning post row: %w", err)
	}
	return post, nil
}

// Create inserts a new post and returns its id
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO posts (author_id, title, description, category, location, latitude, longitude, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		post.AuthorID, post.Title, post.Description, post.Category, post.Location,
		post.Latitude, post.Longitude, post.Photos).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return id, nil
}

// GetByID retrieves a post with its author, claims, likes and comments
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		WHERE p.id = $1`, id)

	post, err := scanPost(row)
	if err != nil {
		return nil, err
	}

	if err := r.loadRelated(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

// Update rewrites the editable fields of a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title = $1, description = $2, category = $3, location = $4,
			latitude = $5, longitude = $6, geocode_failed = $7, photos = $8, updated_at = NOW()
		WHERE id = $9`,
		post.Title, post.Description, post.Category, post.Location,
		post.Latitude, post.Longitude, post.GeocodeFailed, post.Photos, post.ID)

	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// Delete removes a post. Claims, likes and comments cascade.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM posts
		WHERE id = $1`, id)

	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// feedConditions builds the WHERE predicates for a feed query. The default
// (nearby) tab shows posts without an approved claimer; once the author
// picked a helper the post leaves the public feed. The checkbox filters
// (comments, likes, claims, nearby) are combined with OR: a post matches
// when any checked filter applies to it. With no filters checked the whole
// tab is returned.
func feedConditions(filter dto.FeedFilter, viewerID int64) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch filter.Tab {
	case dto.FeedTabMyPosts:
		conds = append(conds, "p.author_id = "+arg(viewerID))
	case dto.FeedTabMyClaims:
		conds = append(conds, "EXISTS (SELECT 1 FROM post_claims pc WHERE pc.post_id = p.id AND pc.user_id = "+arg(viewerID)+")")
	default:
		conds = append(conds, "p.approved_claimer_id IS NULL")
	}

	// Checkbox filters are a union, not an intersection
	var orConds []string
	if filter.WithComments {
		orConds = append(orConds, "EXISTS (SELECT 1 FROM comments c WHERE c.post_id = p.id)")
	}
	if filter.WithLikes {
		orConds = append(orConds, "EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id)")
	}
	if filter.WithClaims {
		orConds = append(orConds, "EXISTS (SELECT 1 FROM post_claims pc2 WHERE pc2.post_id = p.id)")
	}
	if filter.NearbyMe && filter.Latitude != nil && filter.Longitude != nil {
		lat := arg(*filter.Latitude)
		lon := arg(*filter.Longitude)
		radius := arg(NearbyRadiusKm)
		orConds = append(orConds, `(p.latitude IS NOT NULL AND p.longitude IS NOT NULL AND
			6371 * acos(least(1.0, greatest(-1.0,
				cos(radians(`+lat+`)) * cos(radians(p.latitude)) *
				cos(radians(p.longitude) - radians(`+lon+`)) +
				sin(radians(`+lat+`)) * sin(radians(p.latitude))
			))) <= `+radius+`)`)
	}
	if len(orConds) > 0 {
		conds = append(conds, "("+strings.Join(orConds, " OR ")+")")
	}

	return conds, args
}

// ListFeed returns a page of posts for the requested tab.
func (r *PostRepository) ListFeed(ctx context.Context, filter dto.FeedFilter, viewerID int64) ([]*models.Post, int64, error) {
	conds, args := feedConditions(filter, viewerID)
	where := "WHERE " + strings.Join(conds, " AND ")

	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM posts p
		`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting feed posts: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	pageArgs := append(args, limit, offset)
	limitPos := fmt.Sprintf("$%d", len(args)+1)
	offsetPos := fmt.Sprintf("$%d", len(args)+2)

	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		`+where+`
		ORDER BY p.created_at DESC
		LIMIT `+limitPos+` OFFSET `+offsetPos, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying feed posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating feed posts: %w", err)
	}

	if err := r.loadRelated(ctx, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// loadRelated fills authors, claims, likes and comments for a set of posts
func (r *PostRepository) loadRelated(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Post, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	// Authors
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT u.id, u.name, u.avatar_url, u.location
		FROM users u
		JOIN posts p ON p.author_id = u.id
		WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("error loading post authors: %w", err)
	}
	authors := make(map[int64]*models.User)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Location); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning post author: %w", err)
		}
		authors[u.ID] = u
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating post authors: %w", err)
	}
	for _, p := range posts {
		p.Author = authors[p.AuthorID]
	}

	// Claims
	rows, err = r.db.Query(ctx, `
		SELECT id, post_id, user_id, user_name, user_avatar, claimed_at
		FROM post_claims
		WHERE post_id = ANY($1)
		ORDER BY claimed_at`, ids)
	if err != nil {
		return fmt.Errorf("error loading post claims: %w", err)
	}
	for rows.Next() {
		var c models.PostClaim
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserName, &c.UserAvatar, &c.ClaimedAt); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning post claim: %w", err)
		}
		if p, ok := byID[c.PostID]; ok {
			p.Claims = append(p.Claims, c)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating post claims: %w", err)
	}

	// Likes
	rows, err = r.db.Query(ctx, `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("error loading post likes: %w", err)
	}
	for rows.Next() {
		var postID, userID int64
		if err := rows.Scan(&postID, &userID); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning post like: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.LikedBy = append(p.LikedBy, userID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating post likes: %w", err)
	}

	// Comments
	rows, err = r.db.Query(ctx, `
		SELECT c.id, c.post_id, c.event_id, c.author_id, c.text, c.created_at,
			u.id, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at`, ids)
	if err != nil {
		return fmt.Errorf("error loading post comments: %w", err)
	}
	for rows.Next() {
		var c models.Comment
		author := &models.User{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.EventID, &c.AuthorID, &c.Text, &c.CreatedAt,
			&author.ID, &author.Name, &author.AvatarURL); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning post comment: %w", err)
		}
		c.Author = author
		if c.PostID != nil {
			if p, ok := byID[*c.PostID]; ok {
				p.Comments = append(p.Comments, c)
			}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating post comments: %w", err)
	}

	return nil
}

// Claim records a user's interest in a post. The claim and the author's
// notification commit together.
func (r *PostRepository) Claim(ctx context.Context, postID int64, claimer *models.User) (*models.Notification, error) {
	var notification *models.Notification

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var authorID int64
		var title string
		var isCompleted bool
		err := tx.QueryRow(ctx, `
			SELECT author_id, title, is_completed
			FROM posts
			WHERE id = $1`, postID).Scan(&authorID, &title, &isCompleted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("error loading post for claim: %w", err)
		}

		if authorID == claimer.ID {
			return apperrors.ErrOwnPostClaim
		}
		if isCompleted {
			return apperrors.ErrAlreadyCompleted
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO post_claims (post_id, user_id, user_name, user_avatar)
			VALUES ($1, $2, $3, $4)`,
			postID, claimer.ID, claimer.Name, claimer.AvatarURL)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "post_claims_post_user_key") {
				return apperrors.ErrAlreadyClaimed
			}
			return fmt.Errorf("error inserting claim: %w", err)
		}

		notification, err = insertNotification(ctx, tx, &models.Notification{
			UserID:    authorID,
			PostID:    &postID,
			Type:      models.NotificationPostClaimed,
			Message:   fmt.Sprintf("%s wants to help with your request", claimer.Name),
			PostTitle: &title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("postID", postID).Int64("userID", claimer.ID).Msg("Post claimed")
	return notification, nil
}

// Unclaim withdraws a user's claim. Approved claimers cannot withdraw.
func (r *PostRepository) Unclaim(ctx context.Context, postID, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var approvedClaimerID *int64
		err := tx.QueryRow(ctx, `
			SELECT approved_claimer_id
			FROM posts
			WHERE id = $1`, postID).Scan(&approvedClaimerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("error loading post for unclaim: %w", err)
		}

		if approvedClaimerID != nil && *approvedClaimerID == userID {
			return apperrors.ErrAlreadyApproved
		}

		cmdTag, err := tx.Exec(ctx, `
			DELETE FROM post_claims
			WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("error deleting claim: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrClaimNotFound
		}

		return nil
	})
}

// ApproveClaimer picks one claimer as the helper. The guard on
// approved_claimer_id makes approval first-wins under concurrency.
func (r *PostRepository) ApproveClaimer(ctx context.Context, postID, authorID, claimerID int64) (*models.Notification, error) {
	var notification *models.Notification

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var postAuthorID int64
		var title string
		var approvedClaimerID *int64
		err := tx.QueryRow(ctx, `
			SELECT author_id, title, approved_claimer_id
			FROM posts
			WHERE id = $1`, postID).Scan(&postAuthorID, &title, &approvedClaimerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("error loading post for approval: %w", err)
		}

		if postAuthorID != authorID {
			return apperrors.ErrPermissionDenied
		}

		var claimExists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM post_claims WHERE post_id = $1 AND user_id = $2)`,
			postID, claimerID).Scan(&claimExists)
		if err != nil {
			return fmt.Errorf("error checking claim: %w", err)
		}
		if !claimExists {
			return apperrors.ErrClaimNotFound
		}

		cmdTag, err := tx.Exec(ctx, `
			UPDATE posts
			SET approved_claimer_id = $1, approved_at = NOW(), updated_at = NOW()
			WHERE id = $2 AND approved_claimer_id IS NULL`, claimerID, postID)
		if err != nil {
			return fmt.Errorf("error approving claimer: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyApproved
		}

		notification, err = insertNotification(ctx, tx, &models.Notification{
			UserID:    claimerID,
			PostID:    &postID,
			Type:      models.NotificationClaimerApproved,
			Message:   "You were chosen to help with this request",
			PostTitle: &title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("postID", postID).Int64("claimerID", claimerID).Msg("Claimer approved")
	return notification, nil
}

// MarkCompleteByClaimer is the helper's half of the completion handshake
func (r *PostRepository) MarkCompleteByClaimer(ctx context.Context, postID, claimerID int64) (*models.Notification, error) {
	var notification *models.Notification

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var authorID int64
		var title string
		var approvedClaimerID *int64
		var isCompleted bool
		err := tx.QueryRow(ctx, `
			SELECT author_id, title, approved_claimer_id, is_completed
			FROM posts
			WHERE id = $1`, postID).Scan(&authorID, &title, &approvedClaimerID, &isCompleted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("error loading post for completion: %w", err)
		}

		if approvedClaimerID == nil || *approvedClaimerID != claimerID {
			return apperrors.ErrClaimerNotApproved
		}
		if isCompleted {
			return apperrors.ErrAlreadyCompleted
		}

		_, err = tx.Exec(ctx, `
			UPDATE posts
			SET completed_by_claimer = TRUE, updated_at = NOW()
			WHERE id = $1`, postID)
		if err != nil {
			return fmt.Errorf("error marking post complete: %w", err)
		}

		notification, err = insertNotification(ctx, tx, &models.Notification{
			UserID:    authorID,
			PostID:    &postID,
			Type:      models.NotificationTaskMarkedComplete,
			Message:   "Your helper marked the task as done. Confirm and rate them.",
			PostTitle: &title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return notification, nil
}

// CompleteAndRate is the author's half of the completion handshake: it
// confirms the work and records the helper's rating in one step.
func (r *PostRepository) CompleteAndRate(ctx context.Context, postID, authorID int64, rating int) (*models.Notification, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}

	var notification *models.Notification

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var postAuthorID int64
		var title string
		var approvedClaimerID *int64
		var completedByClaimer, isCompleted bool
		err := tx.QueryRow(ctx, `
			SELECT author_id, title, approved_claimer_id, completed_by_claimer, is_completed
			FROM posts
			WHERE id = $1`, postID).Scan(&postAuthorID, &title, &approvedClaimerID, &completedByClaimer, &isCompleted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("error loading post for rating: %w", err)
		}

		if postAuthorID != authorID {
			return apperrors.ErrPermissionDenied
		}
		if approvedClaimerID == nil {
			return apperrors.ErrClaimerNotApproved
		}
		if !completedByClaimer {
			return apperrors.ErrNotYetCompleted
		}
		if isCompleted {
			return apperrors.ErrAlreadyCompleted
		}

		now := time.Now()
		_, err = tx.Exec(ctx, `
			UPDATE posts
			SET completed_by_author = TRUE, is_completed = TRUE, completed_at = $1,
				helper_rating = $2, updated_at = NOW()
			WHERE id = $3`, now, rating, postID)
		if err != nil {
			return fmt.Errorf("error completing post: %w", err)
		}

		notification, err = insertNotification(ctx, tx, &models.Notification{
			UserID:    *approvedClaimerID,
			PostID:    &postID,
			Type:      models.NotificationTaskCompleted,
			Message:   fmt.Sprintf("The task was completed. You received a %d star rating.", rating),
			PostTitle: &title,
			Rating:    &rating,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("postID", postID).Int("rating", rating).Msg("Post completed and rated")
	return notification, nil
}

// Like records a like, idempotently
func (r *PostRepository) Like(ctx context.Context, postID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, postID, userID)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("error liking post: %w", err)
	}

	return nil
}

// Unlike removes a like, idempotently
func (r *PostRepository) Unlike(ctx context.Context, postID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM post_likes
		WHERE post_id = $1 AND user_id = $2`, postID, userID)

	if err != nil {
		return fmt.Errorf("error unliking post: %w", err)
	}

	return nil
}

// ListUngeocoded returns posts that still need coordinates, oldest first
func (r *PostRepository) ListUngeocoded(ctx context.Context, limit int) ([]*models.Post, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		WHERE p.latitude IS NULL AND p.location <> '' AND NOT p.geocode_failed
		ORDER BY p.created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing ungeocoded posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ungeocoded posts: %w", err)
	}

	return posts, nil
}

// SetCoordinates stores resolved coordinates for a post
func (r *PostRepository) SetCoordinates(ctx context.Context, postID int64, latitude, longitude float64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE posts
		SET latitude = $1, longitude = $2, geocode_failed = FALSE, updated_at = NOW()
		WHERE id = $3`, latitude, longitude, postID)

	if err != nil {
		return fmt.Errorf("error setting post coordinates: %w", err)
	}

	return nil
}

// MarkGeocodeFailed flags a post so the worker stops retrying its location
func (r *PostRepository) MarkGeocodeFailed(ctx context.Context, postID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE posts
		SET geocode_failed = TRUE, updated_at = NOW()
		WHERE id = $1`, postID)

	if err != nil {
		return fmt.Errorf("error marking post geocode failed: %w", err)
	}

	return nil
}

// insertNotification writes a notification row inside an existing transaction
func insertNotification(ctx context.Context, tx pgx.Tx, n *models.Notification) (*models.Notification, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO notifications (user_id, post_id, event_id, type, message, post_title, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, read, created_at`,
		n.UserID, n.PostID, n.EventID, n.Type, n.Message, n.PostTitle, n.Rating).Scan(
		&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting notification: %w", err)
	}
	return n, nil
}
