package models

import "time"

// Post represents a help request posted by a user
type Post struct {
	ID                 int64      `json:"id" db:"id"`
	AuthorID           int64      `json:"authorId" db:"author_id"`
	Title              string     `json:"title" db:"title"`
	Description        string     `json:"description" db:"description"`
	Category           string     `json:"category" db:"category"`
	Location           string     `json:"location" db:"location"`
	Latitude           *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude          *float64   `json:"longitude,omitempty" db:"longitude"`
	GeocodeFailed      bool       `json:"-" db:"geocode_failed"`
	Photos             []string   `json:"photos" db:"photos"`
	ApprovedClaimerID  *int64     `json:"approvedClaimerId,omitempty" db:"approved_claimer_id"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty" db:"approved_at"`
	CompletedByClaimer bool       `json:"completedByClaimer" db:"completed_by_claimer"`
	CompletedByAuthor  bool       `json:"completedByAuthor" db:"completed_by_author"`
	IsCompleted        bool       `json:"isCompleted" db:"is_completed"`
	CompletedAt        *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	HelperRating       *int       `json:"helperRating,omitempty" db:"helper_rating"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Author   *User       `json:"author,omitempty"`
	Claims   []PostClaim `json:"claims,omitempty"`
	LikedBy  []int64     `json:"likedBy,omitempty"`
	Comments []Comment   `json:"comments,omitempty"`
}

// PostClaim represents a user's declared interest in fulfilling a post.
// Name and avatar are snapshots taken at claim time.
type PostClaim struct {
	ID         int64     `json:"id" db:"id"`
	PostID     int64     `json:"postId" db:"post_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	UserName   string    `json:"userName" db:"user_name"`
	UserAvatar *string   `json:"userAvatar,omitempty" db:"user_avatar"`
	ClaimedAt  time.Time `json:"claimedAt" db:"claimed_at"`
}

// Category represents a post category
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Slug string `json:"slug" db:"slug"`
	Name string `json:"name" db:"name"`
}
