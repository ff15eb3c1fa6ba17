package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNoteNotFound is returned when a note does not exist or belongs to another user.
	ErrNoteNotFound = errors.New("note not found")
	// ErrTagNotFound is returned when a tag does not exist or belongs to another user.
	ErrTagNotFound = errors.New("tag not found")
	// ErrDuplicateTag is returned when the user already has a tag with this name.
	ErrDuplicateTag = errors.New("you already have a tag with this name")
	// ErrTagInUse is returned when deleting a tag still referenced by a note.
	ErrTagInUse = errors.New("tag is used by at least one note")
	// ErrNoTags is returned when creating a note before creating any tag.
	ErrNoTags = errors.New("create at least one tag before creating a note")
	// ErrProfileNotConfirmed is returned when an unconfirmed user attempts a gated operation.
	ErrProfileNotConfirmed = errors.New("profile is not confirmed")
	// ErrProfileNotFound is returned when a profile record is missing.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrDeadlineInPast is returned when setting a deadline that has already passed.
	ErrDeadlineInPast = errors.New("deadline must be in the future")
	// ErrInvalidImage is returned when an uploaded avatar cannot be decoded.
	ErrInvalidImage = errors.New("invalid image file")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTE_NOT_FOUND")
	case errors.Is(err, ErrTagNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrDuplicateTag):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_TAG")
	case errors.Is(err, ErrTagInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "TAG_IN_USE")
	case errors.Is(err, ErrNoTags):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_TAGS")
	case errors.Is(err, ErrDeadlineInPast):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DEADLINE_IN_PAST")
	case errors.Is(err, ErrInvalidImage):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_IMAGE")
	case errors.Is(err, ErrProfileNotConfirmed):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PROFILE_NOT_CONFIRMED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
