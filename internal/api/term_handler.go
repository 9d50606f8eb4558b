package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splashpad/lesson-api/internal/api/shared"
	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/store"
)

// TermHandler handles the taxonomy term endpoints.
type TermHandler struct {
	taxonomy store.TaxonomyStore
	logger   *slog.Logger
}

// NewTermHandler creates a new TermHandler with the given dependencies.
func NewTermHandler(taxonomy store.TaxonomyStore, logger *slog.Logger) *TermHandler {
	if taxonomy == nil {
		panic("taxonomy store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TermHandler{
		taxonomy: taxonomy,
		logger:   logger.With(slog.String("component", "term_handler")),
	}
}

// ListTerms handles GET /terms/{dimension}. Terms come back in sort order so
// the UI can render pickers without client-side sorting.
func (h *TermHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	dimension := chi.URLParam(r, "dimension")
	if !domain.IsValidDimension(dimension) {
		HandleAPIError(w, r, domain.ErrInvalidDimension, "")
		return
	}

	terms, err := h.taxonomy.ListTerms(r.Context(), dimension)
	if err != nil {
		log.Error("failed to list terms",
			slog.String("dimension", dimension),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to list terms")
		return
	}

	responses := make([]TermResponse, 0, len(terms))
	for _, term := range terms {
		responses = append(responses, TermResponse{
			ID:        term.ID,
			Name:      term.Name,
			SortOrder: term.SortOrder,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
