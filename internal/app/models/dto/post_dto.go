package dto

import (
	"time"

	"github.com/dotoapp/doto-backend/internal/app/models"
)

// FeedTab selects the base set of posts for the feed
type FeedTab string

const (
	FeedTabNearby    FeedTab = "nearby"
	FeedTabMyPosts   FeedTab = "myPosts"
	FeedTabMyClaims  FeedTab = "myClaims"
	FeedTabFriends   FeedTab = "friends"
	FeedTabFollowing FeedTab = "following"
)

// CreatePostRequest creates a new help request
type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
	Location    string   `json:"location" binding:"required,max=255"`
	Photos      []string `json:"photos" binding:"omitempty,max=10"`
}

// UpdatePostRequest updates an existing post (author only)
type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=5000"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=50"`
	Location    *string `json:"location,omitempty" binding:"omitempty,max=255"`
}

// FeedFilter holds the feed query parameters. The checkbox filters combine
// with OR: a post is kept when it satisfies any active filter.
type FeedFilter struct {
	Tab          FeedTab
	WithComments bool
	WithLikes    bool
	WithClaims   bool
	NearbyMe     bool
	Latitude     *float64
	Longitude    *float64
	Page         int
	PageSize     int
}

// CompletePostRequest confirms completion and rates the helper
type CompletePostRequest struct {
	Rating int `json:"rating" binding:"required,gte=1,lte=5"`
}

// ApproveClaimerRequest selects the claimer allowed to perform the task
type ApproveClaimerRequest struct {
	ClaimerID int64 `json:"claimerId" binding:"required"`
}

// PostClaimResponse is the public view of a claim
type PostClaimResponse struct {
	UserID     int64     `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar *string   `json:"userAvatar,omitempty"`
	ClaimedAt  time.Time `json:"claimedAt"`
}

// PostResponse is the public view of a post
type PostResponse struct {
	ID                 int64               `json:"id"`
	AuthorID           int64               `json:"authorId"`
	Author             *UserResponse       `json:"author,omitempty"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Category           string              `json:"category"`
	Location           string              `json:"location"`
	Latitude           *float64            `json:"latitude,omitempty"`
	Longitude          *float64            `json:"longitude,omitempty"`
	DistanceKm         *float64            `json:"distanceKm,omitempty"`
	Photos             []string            `json:"photos"`
	Claims             []PostClaimResponse `json:"claims"`
	LikedBy            []int64             `json:"likedBy"`
	CommentCount       int                 `json:"commentCount"`
	ApprovedClaimerID  *int64              `json:"approvedClaimerId,omitempty"`
	CompletedByClaimer bool                `json:"completedByClaimer"`
	CompletedByAuthor  bool                `json:"completedByAuthor"`
	IsCompleted        bool                `json:"isCompleted"`
	HelperRating       *int                `json:"helperRating,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// PostListResponse is a paginated list of posts
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// FromPost converts a models.Post to a PostResponse
func FromPost(post *models.Post) PostResponse {
	if post == nil {
		return PostResponse{}
	}

	claims := make([]PostClaimResponse, 0, len(post.Claims))
	for _, c := range post.Claims {
		claims = append(claims, PostClaimResponse{
			UserID:     c.UserID,
			UserName:   c.UserName,
			UserAvatar: c.UserAvatar,
			ClaimedAt:  c.ClaimedAt,
		})
	}

	resp := PostResponse{
		ID:                 post.ID,
		AuthorID:           post.AuthorID,
		Title:              post.Title,
		Description:        post.Description,
		Category:           post.Category,
		Location:           post.Location,
		Latitude:           post.Latitude,
		Longitude:          post.Longitude,
		Photos:             post.Photos,
		Claims:             claims,
		LikedBy:            post.LikedBy,
		CommentCount:       len(post.Comments),
		ApprovedClaimerID:  post.ApprovedClaimerID,
		CompletedByClaimer: post.CompletedByClaimer,
		CompletedByAuthor:  post.CompletedByAuthor,
		IsCompleted:        post.IsCompleted,
		HelperRating:       post.HelperRating,
		CreatedAt:          post.CreatedAt,
	}

	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	if resp.LikedBy == nil {
		resp.LikedBy = []int64{}
	}

	if post.Author != nil {
		author := FromUser(post.Author)
		resp.Author = &author
	}

	return resp
}
