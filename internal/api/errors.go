package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/splashpad/lesson-api/internal/api/shared"
	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/redact"
	"github.com/splashpad/lesson-api/internal/service/auth"
	"github.com/splashpad/lesson-api/internal/service/groups"
	"github.com/splashpad/lesson-api/internal/store"
)

// Machine-readable error codes returned in the response body. Clients branch
// on these rather than parsing messages.
const (
	CodeInvalidPostType = "invalid_post_type"
	CodeNotFound        = "not_found"
	CodeInvalidRequest  = "invalid_request"
	CodeEmailExists     = "email_exists"
	CodeUnauthorized    = "unauthorized"
	CodeInternal        = "internal_error"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Updating something that is not a group is rejected as forbidden, not
	// merely missing, so callers cannot probe ids across entity types.
	case errors.Is(err, groups.ErrWrongEntityType):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrEntityNotFound),
		errors.Is(err, store.ErrTermNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidEntityType),
		errors.Is(err, domain.ErrInvalidDimension),
		errors.Is(err, domain.ErrInvalidEntityID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the machine-readable code for an error, or an empty
// string when no specific code applies.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, groups.ErrWrongEntityType):
		return CodeInvalidPostType
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrEntityNotFound),
		errors.Is(err, store.ErrTermNotFound):
		return CodeNotFound
	case errors.Is(err, store.ErrEmailExists):
		return CodeEmailExists
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidEntityType),
		errors.Is(err, domain.ErrInvalidDimension),
		errors.Is(err, domain.ErrInvalidEntityID):
		return CodeInvalidRequest
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, groups.ErrWrongEntityType):
		return "Invalid post type."

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEntityNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrTermNotFound):
		return "Term not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidEntityType),
		errors.Is(err, domain.ErrInvalidDimension),
		errors.Is(err, domain.ErrInvalidEntityID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an internal error to a status code, safe message, and
// machine-readable code, and writes the response. When overrideMessage is
// non-empty it replaces the mapped safe message. Server errors are logged
// with the redacted cause; client errors only surface in debug logs.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMessage string) {
	status := MapErrorToStatusCode(err)
	message := overrideMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	if status >= http.StatusInternalServerError {
		slog.Error("API error response",
			slog.String("trace_id", shared.GetTraceID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method),
			slog.Int("status_code", status),
			slog.String("error", redact.Error(err)))
	}

	shared.RespondWithErrorCode(w, r, status, ErrorCode(err), message)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
