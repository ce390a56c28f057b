package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotoapp/doto-backend/internal/app/models/dto"
	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Not found
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrPostNotFound,
		apperrors.ErrClaimNotFound,
		apperrors.ErrCommentNotFound,
		apperrors.ErrConversationNotFound,
		apperrors.ErrNotificationNotFound,
		apperrors.ErrEventNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())

	// Forbidden
	case apperrors.Is(err, apperrors.ErrPermissionDenied,
		apperrors.ErrNotAParticipant,
		apperrors.ErrUserBlocked):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, err.Error())

	// Authentication
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case apperrors.Is(err, apperrors.ErrInvalidPasswordResetToken, apperrors.ErrPasswordResetTokenUsed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidToken, err.Error())

	// Conflicts in the task lifecycle
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case apperrors.Is(err, apperrors.ErrAlreadyClaimed,
		apperrors.ErrAlreadyApproved,
		apperrors.ErrAlreadyCompleted,
		apperrors.ErrConflict,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrEventCancelled):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, err.Error())

	// Bad requests
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrInvalidEmail,
		apperrors.ErrInvalidPassword,
		apperrors.ErrInvalidRating,
		apperrors.ErrBadRequest,
		apperrors.ErrOwnPostClaim,
		apperrors.ErrClaimerNotApproved,
		apperrors.ErrNotYetCompleted,
		apperrors.ErrSelfConversation):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
