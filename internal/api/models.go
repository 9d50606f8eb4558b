package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UpdateGroupRequest defines the payload for the group update endpoint. All
// members are optional; absent members leave their target untouched. The
// taxonomy lists are full replacements when present.
type UpdateGroupRequest struct {
	Title   *string        `json:"title"`
	Meta    map[string]any `json:"meta"`
	Camps   []any          `json:"lm-camp"`
	Animals []any          `json:"lm-animal"`
}

// UpdateGroupResponse confirms an applied group update. Message names any
// meta keys whose values could not be parsed to their declared type and were
// stored as plain text instead.
type UpdateGroupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateEntityRequest defines the payload for creating a level, skill,
// swimmer, or evaluation.
type CreateEntityRequest struct {
	Title string         `json:"title" validate:"required,min=1"`
	Meta  map[string]any `json:"meta"`
}

// UpdateEntityRequest defines the payload for a partial entity update.
type UpdateEntityRequest struct {
	Title *string        `json:"title"`
	Meta  map[string]any `json:"meta"`
}

// EntityResponse is the read shape of a single entity with its field values.
type EntityResponse struct {
	ID     int64          `json:"id"`
	Title  string         `json:"title"`
	Status string         `json:"status"`
	Meta   map[string]any `json:"meta"`
}

// DeleteEntityResponse confirms a deletion and carries the removed entity's
// last read shape.
type DeleteEntityResponse struct {
	Deleted  bool           `json:"deleted"`
	Previous EntityResponse `json:"previous"`
}

// TermResponse is the read shape of a single taxonomy term.
type TermResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}
