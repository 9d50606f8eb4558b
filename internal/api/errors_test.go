package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashpad/lesson-api/internal/api"
	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/service/auth"
	"github.com/splashpad/lesson-api/internal/service/groups"
	"github.com/splashpad/lesson-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"wrong entity type", groups.ErrWrongEntityType, http.StatusForbidden},
		{"entity not found", store.ErrEntityNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"term not found", store.ErrTermNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid dimension", domain.ErrInvalidDimension, http.StatusBadRequest},
		{"invalid entity id", domain.ErrInvalidEntityID, http.StatusBadRequest},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("fetch group 9: %w", store.ErrEntityNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantStatus, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"wrong entity type", groups.ErrWrongEntityType, api.CodeInvalidPostType},
		{"entity not found", store.ErrEntityNotFound, api.CodeNotFound},
		{"email exists", store.ErrEmailExists, api.CodeEmailExists},
		{"invalid entity id", domain.ErrInvalidEntityID, api.CodeInvalidRequest},
		{"expired token", auth.ErrExpiredToken, api.CodeUnauthorized},
		{"unknown error", errors.New("boom"), api.CodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantCode, api.ErrorCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Invalid post type.", api.GetSafeErrorMessage(groups.ErrWrongEntityType))
	assert.Equal(t, "Item not found", api.GetSafeErrorMessage(store.ErrEntityNotFound))
	assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))

	// Raw error detail must never reach the message.
	leaky := errors.New("pq: connection to postgres://admin:hunter2@db failed")
	assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(leaky))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	type form struct {
		Email string `validate:"required,email"`
	}

	err := validator.New().Struct(form{})
	require.Error(t, err)

	msg := api.SanitizeValidationError(err)
	assert.Equal(t, "Invalid Email: required field", msg)
}
