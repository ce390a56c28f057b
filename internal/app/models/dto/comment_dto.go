package dto

import (
	"time"

	"github.com/dotoapp/doto-backend/internal/app/models"
)

// CreateCommentRequest adds a comment to a post or event
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=2000"`
}

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID        int64         `json:"id"`
	PostID    *int64        `json:"postId,omitempty"`
	EventID   *int64        `json:"eventId,omitempty"`
	AuthorID  int64         `json:"authorId"`
	Author    *UserResponse `json:"author,omitempty"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}

// FromComment converts a models.Comment to a CommentResponse
func FromComment(comment *models.Comment) CommentResponse {
	if comment == nil {
		return CommentResponse{}
	}

	resp := CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		EventID:   comment.EventID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}

	if comment.Author != nil {
		author := FromUser(comment.Author)
		resp.Author = &author
	}

	return resp
}
