package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotoapp/doto-backend/internal/app/models"
	"github.com/dotoapp/doto-backend/internal/db"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
	"github.com/dotoapp/doto-backend/internal/pkg/helpers"
	"github.com/dotoapp/doto-backend/internal/pkg/logger"
)

// IEventRepository defines the interface for community event operations.
// Cancel inserts the subscribers' notifications in the same transaction as
// the status change and returns them for push delivery.
type IEventRepository interface {
	Create(ctx context.Context, event *models.CommunityEvent) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.CommunityEvent, error)
	List(ctx context.Context, page, size int) ([]*models.CommunityEvent, int64, error)
	Update(ctx context.Context, event *models.CommunityEvent) error
	Cancel(ctx context.Context, eventID, authorID int64) ([]*models.Notification, error)
	Delete(ctx context.Context, id int64) error

	Subscribe(ctx context.Context, eventID, userID int64) error
	Unsubscribe(ctx context.Context, eventID, userID int64) error
	Block(ctx context.Context, eventID, userID int64) error
	Unblock(ctx context.Context, eventID, userID int64) error
	IsBlocked(ctx context.Context, eventID, userID int64) (bool, error)
	Like(ctx context.Context, eventID, userID int64) error
	Unlike(ctx context.Context, eventID, userID int64) error
}

// EventRepository handles community event database operations
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.id, e.author_id, e.title, e.description, e.location, e.starts_at,
		e.status, e.created_at, e.updated_at`

func scanEvent(row pgx.Row) (*models.CommunityEvent, error) {
	event := &models.CommunityEvent{}
	err := row.Scan(
		&event.ID, &event.AuthorID, &event.Title, &event.Description, &event.Location,
		&event.StartsAt, &event.Status, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error scanning event row: %w", err)
	}
	return event, nil
}

// Create inserts a new community event
func (r *EventRepository) Create(ctx context.Context, event *models.CommunityEvent) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO community_events (author_id, title, description, location, starts_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		event.AuthorID, event.Title, event.Description, event.Location,
		event.StartsAt, models.EventStatusActive).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error creating event: %w", err)
	}

	return id, nil
}

// GetByID retrieves an event with its author and membership lists
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.CommunityEvent, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM community_events e
		WHERE e.id = $1`, id)

	event, err := scanEvent(row)
	if err != nil {
		return nil, err
	}

	if err := r.loadRelated(ctx, []*models.CommunityEvent{event}); err != nil {
		return nil, err
	}

	return event, nil
}

// List returns a page of events, newest first
func (r *EventRepository) List(ctx context.Context, page, size int) ([]*models.CommunityEvent, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM community_events`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	rows, err := r.db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM community_events e
		ORDER BY e.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.CommunityEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}

	if err := r.loadRelated(ctx, events); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// loadRelated fills authors and membership id lists for a set of events
func (r *EventRepository) loadRelated(ctx context.Context, events []*models.CommunityEvent) error {
	if len(events) == 0 {
		return nil
	}

	byID := make(map[int64]*models.CommunityEvent, len(events))
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT u.id, u.name, u.avatar_url
		FROM users u
		JOIN community_events e ON e.author_id = u.id
		WHERE e.id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("error loading event authors: %w", err)
	}
	authors := make(map[int64]*models.User)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning event author: %w", err)
		}
		authors[u.ID] = u
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating event authors: %w", err)
	}
	for _, e := range events {
		e.Author = authors[e.AuthorID]
	}

	type membership struct {
		table string
		fill  func(*models.CommunityEvent, int64)
	}
	memberships := []membership{
		{"event_subscriptions", func(e *models.CommunityEvent, uid int64) { e.Subscribers = append(e.Subscribers, uid) }},
		{"event_blocks", func(e *models.CommunityEvent, uid int64) { e.BlockedUsers = append(e.BlockedUsers, uid) }},
		{"event_likes", func(e *models.CommunityEvent, uid int64) { e.LikedBy = append(e.LikedBy, uid) }},
	}

	for _, m := range memberships {
		rows, err := r.db.Query(ctx, `
			SELECT event_id, user_id
			FROM `+m.table+`
			WHERE event_id = ANY($1)`, ids)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", m.table, err)
		}
		for rows.Next() {
			var eventID, userID int64
			if err := rows.Scan(&eventID, &userID); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning %s row: %w", m.table, err)
			}
			if e, ok := byID[eventID]; ok {
				m.fill(e, userID)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating %s rows: %w", m.table, err)
		}
	}

	return nil
}

// Update rewrites the editable fields of an event
func (r *EventRepository) Update(ctx context.Context, event *models.CommunityEvent) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE community_events
		SET title = $1, description = $2, location = $3, starts_at = $4, updated_at = NOW()
		WHERE id = $5`,
		event.Title, event.Description, event.Location, event.StartsAt, event.ID)

	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// Cancel marks an event cancelled and notifies every subscriber. The status
// change and the notifications commit together.
func (r *EventRepository) Cancel(ctx context.Context, eventID, authorID int64) ([]*models.Notification, error) {
	var notifications []*models.Notification

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var eventAuthorID int64
		var title string
		var status models.EventStatus
		err := tx.QueryRow(ctx, `
			SELECT author_id, title, status
			FROM community_events
			WHERE id = $1`, eventID).Scan(&eventAuthorID, &title, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrEventNotFound
			}
			return fmt.Errorf("error loading event for cancel: %w", err)
		}

		if eventAuthorID != authorID {
			return apperrors.ErrPermissionDenied
		}
		if status == models.EventStatusCancelled {
			return apperrors.ErrEventCancelled
		}

		_, err = tx.Exec(ctx, `
			UPDATE community_events
			SET status = $1, updated_at = NOW()
			WHERE id = $2`, models.EventStatusCancelled, eventID)
		if err != nil {
			return fmt.Errorf("error cancelling event: %w", err)
		}

		rows, err := tx.Query(ctx, `
			SELECT user_id
			FROM event_subscriptions
			WHERE event_id = $1`, eventID)
		if err != nil {
			return fmt.Errorf("error loading event subscribers: %w", err)
		}
		var subscriberIDs []int64
		for rows.Next() {
			var uid int64
			if err := rows.Scan(&uid); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning subscriber row: %w", err)
			}
			subscriberIDs = append(subscriberIDs, uid)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating subscriber rows: %w", err)
		}

		for _, uid := range subscriberIDs {
			n, err := insertNotification(ctx, tx, &models.Notification{
				UserID:  uid,
				EventID: &eventID,
				Type:    models.NotificationEventCancelled,
				Message: fmt.Sprintf("The event %q was cancelled", title),
			})
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("eventID", eventID).Int("subscribers", len(notifications)).Msg("Event cancelled")
	return notifications, nil
}

// Delete removes an event. Memberships and comments cascade.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM community_events
		WHERE id = $1`, id)

	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepository) addMembership(ctx context.Context, table string, eventID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO `+table+` (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, eventID, userID)

	if err != nil {
		return fmt.Errorf("error inserting into %s: %w", table, err)
	}

	return nil
}

func (r *EventRepository) removeMembership(ctx context.Context, table string, eventID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM `+table+`
		WHERE event_id = $1 AND user_id = $2`, eventID, userID)

	if err != nil {
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}

	return nil
}

// Subscribe adds a user to the event's subscriber list, idempotently
func (r *EventRepository) Subscribe(ctx context.Context, eventID, userID int64) error {
	return r.addMembership(ctx, "event_subscriptions", eventID, userID)
}

// Unsubscribe removes a user from the event's subscriber list
func (r *EventRepository) Unsubscribe(ctx context.Context, eventID, userID int64) error {
	return r.removeMembership(ctx, "event_subscriptions", eventID, userID)
}

// Block hides the event from a user and drops their subscription
func (r *EventRepository) Block(ctx context.Context, eventID, userID int64) error {
	if err := r.addMembership(ctx, "event_blocks", eventID, userID); err != nil {
		return err
	}
	return r.removeMembership(ctx, "event_subscriptions", eventID, userID)
}

// Unblock lifts a block
func (r *EventRepository) Unblock(ctx context.Context, eventID, userID int64) error {
	return r.removeMembership(ctx, "event_blocks", eventID, userID)
}

// IsBlocked reports whether a user blocked (or was blocked from) the event
func (r *EventRepository) IsBlocked(ctx context.Context, eventID, userID int64) (bool, error) {
	var blocked bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM event_blocks WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&blocked)

	if err != nil {
		return false, fmt.Errorf("error checking event block: %w", err)
	}

	return blocked, nil
}

// Like records a like on an event, idempotently
func (r *EventRepository) Like(ctx context.Context, eventID, userID int64) error {
	return r.addMembership(ctx, "event_likes", eventID, userID)
}

// Unlike removes a like from an event
func (r *EventRepository) Unlike(ctx context.Context, eventID, userID int64) error {
	return r.removeMembership(ctx, "event_likes", eventID, userID)
}
