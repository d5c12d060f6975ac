package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput is returned when a request field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned when a bearer token is missing, malformed or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUploadRejected is returned when an uploaded file fails validation.
	ErrUploadRejected = errors.New("upload rejected")
	// ErrPathOutsideCategory is returned when a file path escapes its upload directory.
	ErrPathOutsideCategory = errors.New("path outside upload directory")
	// ErrUnknownCategory is returned for an upload category that is not configured.
	ErrUnknownCategory = errors.New("unknown upload category")
	// ErrInvalidStatus is returned for a message status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid message status")
	// ErrVersionConflict is returned when a singleton update carries a stale version.
	ErrVersionConflict = errors.New("record was modified by another request")
	// ErrCategoryNotFound is returned when a product references a missing category.
	ErrCategoryNotFound = errors.New("product category not found")
)

// ErrorResponse is the error form of the API envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
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
		Code:    e.StatusCode,
		Message: e.Message,
		Error:   e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors keep their
// full text as the message so callers see which field or file was at fault.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrUploadRejected):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UPLOAD_REJECTED")
	case errors.Is(err, ErrPathOutsideCategory):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PATH")
	case errors.Is(err, ErrUnknownCategory):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_CATEGORY")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrVersionConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "VERSION_CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
