package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID             int64      `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	EmailLower     string     `json:"-" db:"email_lower"`
	Password       string     `json:"-" db:"password"` // Hashed, excluded from JSON
	AvatarURL      *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	Age            *int       `json:"age,omitempty" db:"age"`
	Location       *string    `json:"location,omitempty" db:"location"`
	PushLanguage   string     `json:"pushLanguage" db:"push_language"`
	CurrentStreak  int        `json:"currentStreak" db:"current_streak"`
	LongestStreak  int        `json:"longestStreak" db:"longest_streak"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty" db:"last_activity_at"`
	IsActive       bool       `json:"isActive" db:"is_active"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// RefreshToken defines a persisted refresh token
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PasswordResetToken defines a one-time password reset token
type PasswordResetToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PushToken defines a registered device push token
type PushToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
