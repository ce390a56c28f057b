package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Post errors
var (
	ErrPostNotFound       = errors.New("post not found")
	ErrOwnPostClaim       = errors.New("cannot claim your own post")
	ErrAlreadyClaimed     = errors.New("task already claimed by this user")
	ErrClaimNotFound      = errors.New("claim not found")
	ErrAlreadyApproved    = errors.New("a claimer has already been approved")
	ErrClaimerNotApproved = errors.New("claimer has not been approved")
	ErrNotYetCompleted    = errors.New("claimer has not marked the task complete")
	ErrAlreadyCompleted   = errors.New("task is already completed")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
)

// Messaging errors
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotAParticipant      = errors.New("user is not a participant in this conversation")
	ErrSelfConversation     = errors.New("cannot start a conversation with yourself")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Event errors
var (
	ErrEventNotFound  = errors.New("community event not found")
	ErrEventCancelled = errors.New("community event is cancelled")
	ErrUserBlocked    = errors.New("user is blocked from this event")
)

// Geocoding errors
var (
	ErrLocationNotFound = errors.New("location could not be geocoded")
	ErrOutsideIsrael    = errors.New("location is outside the supported region")
)

// Push errors
var (
	ErrPushNotConfigured = errors.New("push provider is not configured")
	ErrNoPushToken       = errors.New("user has no registered push token")
)

// Password reset errors
var (
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrPasswordResetTokenUsed    = errors.New("password reset token has already been used")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is reports whether err matches target or any of the errors in errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
