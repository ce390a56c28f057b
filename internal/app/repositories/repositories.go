package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
	PasswordResetRepository *PasswordResetRepository
	PushTokenRepository     *PushTokenRepository
	CategoryRepository      *CategoryRepository
	PostRepository          *PostRepository
	CommentRepository       *CommentRepository
	ConversationRepository  *ConversationRepository
	NotificationRepository  *NotificationRepository
	EventRepository         *EventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
		PasswordResetRepository: NewPasswordResetRepository(db),
		PushTokenRepository:     NewPushTokenRepository(db),
		CategoryRepository:      NewCategoryRepository(db),
		PostRepository:          NewPostRepository(db),
		CommentRepository:       NewCommentRepository(db),
		ConversationRepository:  NewConversationRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		EventRepository:         NewEventRepository(db),
	}
}
