// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dataclean-pro/gateway/internal/client"
	"github.com/dataclean-pro/gateway/internal/history"
	"github.com/dataclean-pro/gateway/internal/sniff"
	"github.com/dataclean-pro/gateway/internal/submit"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// mapDomainError converts errors from the staging/submission/history
// layers into the API error scheme. Unrecognized errors pass through and
// are handled by ErrorHandler.
func mapDomainError(err error) error {
	var (
		parseErr  *sniff.ParseError
		batchErr  *submit.Error
		remoteErr *client.RemoteError
	)

	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return &APIError{
			Status:  http.StatusUnauthorized,
			Code:    "SESSION_EXPIRED",
			Message: err.Error(),
		}
	case errors.Is(err, submit.ErrAuthRequired), errors.Is(err, history.ErrNotAuthenticated), errors.Is(err, client.ErrNoToken):
		return &APIError{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH_REQUIRED",
			Message: err.Error(),
		}
	case errors.Is(err, submit.ErrNothingStaged):
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "NOTHING_STAGED",
			Message: err.Error(),
		}
	case errors.As(err, &parseErr):
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "PARSE_ERROR",
			Message: parseErr.Error(),
		}
	case errors.As(err, &batchErr):
		return &APIError{
			Status:  http.StatusBadGateway,
			Code:    "SUBMISSION_FAILED",
			Message: batchErr.Error(),
		}
	case errors.As(err, &remoteErr):
		return &APIError{
			Status:  http.StatusBadGateway,
			Code:    "REMOTE_ERROR",
			Message: remoteErr.Error(),
		}
	case errors.Is(err, history.ErrFetchFailed), errors.Is(err, history.ErrDeleteFailed):
		return &APIError{
			Status:  http.StatusBadGateway,
			Code:    "REMOTE_ERROR",
			Message: err.Error(),
		}
	}
	return err
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := mapDomainError(err).(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		}
	}

	// Send JSON response
	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}
