package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashpad/lesson-api/internal/api"
	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/mocks"
)

func newTermRouter(taxonomy *mocks.FakeTaxonomyStore) *chi.Mux {
	handler := api.NewTermHandler(taxonomy, slog.Default())
	router := chi.NewRouter()
	router.Get("/terms/{dimension}", handler.ListTerms)
	return router
}

func TestListTerms(t *testing.T) {
	t.Parallel()

	taxonomy := mocks.NewFakeTaxonomyStore()
	dolphin := taxonomy.SeedTerm(domain.DimensionAnimal, "Dolphin")
	otter := taxonomy.SeedTerm(domain.DimensionAnimal, "Otter")
	taxonomy.SeedTerm(domain.DimensionCamp, "June Camp")
	router := newTermRouter(taxonomy)

	req := httptest.NewRequest(http.MethodGet, "/terms/animal", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2, "terms of other dimensions must not leak in")
	assert.Equal(t, float64(dolphin), resp[0]["id"])
	assert.Equal(t, "Dolphin", resp[0]["name"])
	assert.Equal(t, float64(otter), resp[1]["id"])
}

func TestListTerms_EmptyIsArray(t *testing.T) {
	t.Parallel()

	router := newTermRouter(mocks.NewFakeTaxonomyStore())

	req := httptest.NewRequest(http.MethodGet, "/terms/year", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListTerms_UnknownDimension(t *testing.T) {
	t.Parallel()

	router := newTermRouter(mocks.NewFakeTaxonomyStore())

	req := httptest.NewRequest(http.MethodGet, "/terms/flavor", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
