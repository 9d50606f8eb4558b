package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashpad/lesson-api/internal/api"
	"github.com/splashpad/lesson-api/internal/config"
	"github.com/splashpad/lesson-api/internal/mocks"
	"github.com/splashpad/lesson-api/internal/service/auth"
)

// acceptAllVerifier treats every password as matching, so handler tests do
// not depend on the fake store's hashing.
type acceptAllVerifier struct{}

func (acceptAllVerifier) Compare(hashedPassword, password string) error { return nil }

func newAuthHandler(t *testing.T, users *mocks.FakeUserStore) *api.AuthHandler {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-long-enough-for-hmac",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	return api.NewAuthHandler(users, jwtService, acceptAllVerifier{}, 60*time.Minute)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	t.Parallel()

	users := mocks.NewFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.NotEmpty(t, resp["refresh_token"])
	assert.NotEmpty(t, resp["user_id"])
}

func TestRegister_ShortPassword(t *testing.T) {
	t.Parallel()

	handler := newAuthHandler(t, mocks.NewFakeUserStore())

	rec := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "admin@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := mocks.NewFakeUserStore()
	handler := newAuthHandler(t, users)

	body := map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	}
	rec := postJSON(t, handler.Register, "/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Register, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "email_exists", resp["code"])
}

func TestLogin(t *testing.T) {
	t.Parallel()

	users := mocks.NewFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Login, "/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	handler := newAuthHandler(t, mocks.NewFakeUserStore())

	rec := postJSON(t, handler.Login, "/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	users := mocks.NewFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	rec = postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]any{
		"refresh_token": registered["refresh_token"],
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["refresh_token"])
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	users := mocks.NewFakeUserStore()
	handler := newAuthHandler(t, users)

	rec := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	// Access tokens do not work as refresh tokens.
	rec = postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]any{
		"refresh_token": registered["token"],
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
