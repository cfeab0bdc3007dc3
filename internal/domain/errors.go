package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicate is returned when a video is already being tracked
	ErrDuplicate = errors.New("video already tracked")

	// ErrInvalidTarget is returned when a target submission fails validation
	ErrInvalidTarget = errors.New("invalid target")

	// ErrNotTargetable is returned when a target is submitted for a video
	// that does not accept targets
	ErrNotTargetable = errors.New("video is not targetable")

	// ErrNoSamples is returned when an operation needs at least one
	// recorded sample and none exist yet
	ErrNoSamples = errors.New("no samples recorded")

	// ErrPlatformUnavailable is returned when the YouTube API is unavailable
	ErrPlatformUnavailable = errors.New("platform temporarily unavailable")
)

// UserFriendlyError wraps an error with a user-friendly message
type UserFriendlyError struct {
	Err            error
	UserMessage    string
	HTTPStatusCode int
}

// Error implements the error interface
func (e *UserFriendlyError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error
func (e *UserFriendlyError) Unwrap() error {
	return e.Err
}

// NewUserFriendlyError creates a new user-friendly error
func NewUserFriendlyError(err error, userMessage string, statusCode int) *UserFriendlyError {
	return &UserFriendlyError{
		Err:            err,
		UserMessage:    userMessage,
		HTTPStatusCode: statusCode,
	}
}
