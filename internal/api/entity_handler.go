package api

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/splashpad/lesson-api/internal/api/shared"
	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/platform/metrics"
	"github.com/splashpad/lesson-api/internal/sanitize"
	"github.com/splashpad/lesson-api/internal/schema"
	"github.com/splashpad/lesson-api/internal/store"
)

// resourceTypes maps URL resource segments to their entity types. Groups are
// deliberately absent: they go through the aggregated group endpoints.
var resourceTypes = map[string]domain.EntityType{
	"levels":      domain.EntityTypeLevel,
	"skills":      domain.EntityTypeSkill,
	"swimmers":    domain.EntityTypeSwimmer,
	"evaluations": domain.EntityTypeEvaluation,
}

// EntityHandler handles the generic CRUD endpoints shared by levels, skills,
// swimmers, and evaluations.
type EntityHandler struct {
	content   store.ContentStore
	registry  *schema.Registry
	metrics   *metrics.Manager
	validator *validator.Validate
	logger    *slog.Logger
}

// NewEntityHandler creates a new EntityHandler with the given dependencies.
// The metrics manager may be nil, in which case nothing is recorded.
func NewEntityHandler(
	content store.ContentStore,
	registry *schema.Registry,
	manager *metrics.Manager,
	logger *slog.Logger,
) *EntityHandler {
	if content == nil {
		panic("content store cannot be nil")
	}
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityHandler{
		content:   content,
		registry:  registry,
		metrics:   manager,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "entity_handler")),
	}
}

// resolveType maps the {resource} path segment to an entity type, writing a
// not-found response when the segment names no registered resource.
func (h *EntityHandler) resolveType(w http.ResponseWriter, r *http.Request) (domain.EntityType, bool) {
	resource := chi.URLParam(r, "resource")
	entityType, ok := resourceTypes[resource]
	if !ok {
		shared.RespondWithErrorCode(w, r, http.StatusNotFound, CodeNotFound, "Unknown resource")
		return "", false
	}
	return entityType, true
}

// List handles GET /{resource}. It returns every publish-status entity of the
// resource's type with its field values, in creation order.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	entityType, ok := h.resolveType(w, r)
	if !ok {
		return
	}

	entities, err := h.content.ListEntities(r.Context(), entityType)
	if err != nil {
		log.Error("failed to list entities",
			slog.String("entity_type", string(entityType)),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to list items")
		return
	}

	responses := make([]EntityResponse, 0, len(entities))
	for _, entity := range entities {
		fields, err := h.content.GetFields(r.Context(), entity.ID)
		if err != nil {
			log.Error("failed to get entity fields",
				slog.Int64("entity_id", entity.ID),
				slog.String("error", err.Error()))
			HandleAPIError(w, r, err, "Failed to list items")
			return
		}
		responses = append(responses, entityResponse(entity, fields))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /{resource}/{id}.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityType, ok := h.resolveType(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entity, err := h.content.GetEntity(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	// An id of another type is indistinguishable from a missing one.
	if entity.Type != entityType {
		HandleAPIError(w, r, store.ErrEntityNotFound, "")
		return
	}

	fields, err := h.content.GetFields(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entityResponse(entity, fields))
}

// Create handles POST /{resource}.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	entityType, ok := h.resolveType(w, r)
	if !ok {
		return
	}

	var req CreateEntityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if missing := h.missingRequiredFields(entityType, req.Meta); len(missing) > 0 {
		shared.RespondWithErrorCode(w, r, http.StatusBadRequest, CodeInvalidRequest,
			"Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	fields := h.coerceFields(entityType, req.Meta)

	entity, err := h.content.CreateEntity(r.Context(), entityType, sanitize.Text(req.Title), fields)
	if err != nil {
		log.Error("failed to create entity",
			slog.String("entity_type", string(entityType)),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to create item")
		return
	}

	h.metrics.RecordEntityWrite(string(entityType), "create")
	log.Debug("entity created",
		slog.String("entity_type", string(entityType)),
		slog.Int64("entity_id", entity.ID))

	shared.RespondWithJSON(w, r, http.StatusCreated, entityResponse(entity, fields))
}

// Update handles POST /{resource}/{id}. Partial updates: absent members leave
// their targets untouched.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	entityType, ok := h.resolveType(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateEntityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	entity, err := h.content.GetEntity(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if entity.Type != entityType {
		HandleAPIError(w, r, store.ErrEntityNotFound, "")
		return
	}

	if req.Title != nil {
		if err := h.content.UpdateTitle(r.Context(), id, sanitize.Text(*req.Title)); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
	}

	for _, key := range sortedKeys(req.Meta) {
		fs := h.fieldSpec(entityType, key, req.Meta[key])
		stored, _ := schema.Coerce(fs, req.Meta[key])
		if err := h.content.SetField(r.Context(), id, key, stored); err != nil {
			log.Error("failed to set entity field",
				slog.Int64("entity_id", id),
				slog.String("key", key),
				slog.String("error", err.Error()))
			HandleAPIError(w, r, err, "Failed to update item")
			return
		}
	}

	entity, err = h.content.GetEntity(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	fields, err := h.content.GetFields(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.metrics.RecordEntityWrite(string(entityType), "update")
	shared.RespondWithJSON(w, r, http.StatusOK, entityResponse(entity, fields))
}

// Delete handles DELETE /{resource}/{id}. References held by other entities
// are left dangling; readers resolve them as absent.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	entityType, ok := h.resolveType(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entity, err := h.content.GetEntity(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if entity.Type != entityType {
		HandleAPIError(w, r, store.ErrEntityNotFound, "")
		return
	}

	fields, err := h.content.GetFields(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.content.DeleteEntity(r.Context(), id); err != nil {
		log.Error("failed to delete entity",
			slog.Int64("entity_id", id),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to delete item")
		return
	}

	h.metrics.RecordEntityWrite(string(entityType), "delete")
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteEntityResponse{
		Deleted:  true,
		Previous: entityResponse(entity, fields),
	})
}

// missingRequiredFields returns the declared required keys absent from the
// submitted meta, in declaration order.
func (h *EntityHandler) missingRequiredFields(entityType domain.EntityType, meta map[string]any) []string {
	var missing []string
	for _, fs := range h.registry.Fields(entityType) {
		if !fs.Required {
			continue
		}
		if _, ok := meta[fs.Key]; !ok {
			missing = append(missing, fs.Key)
		}
	}
	return missing
}

// coerceFields applies the declared field specs of the entity type to a raw
// meta map, returning the storage forms.
func (h *EntityHandler) coerceFields(entityType domain.EntityType, meta map[string]any) map[string]any {
	fields := make(map[string]any, len(meta))
	for _, key := range sortedKeys(meta) {
		fs := h.fieldSpec(entityType, key, meta[key])
		stored, _ := schema.Coerce(fs, meta[key])
		fields[key] = stored
	}
	return fields
}

// fieldSpec resolves the declared spec for a meta key. Unknown keys are
// accepted as freeform values, typed by the shape of what was sent.
func (h *EntityHandler) fieldSpec(entityType domain.EntityType, key string, v any) schema.FieldSpec {
	if fs, ok := h.registry.Field(entityType, key); ok {
		return fs
	}
	if _, isList := v.([]any); isList {
		return schema.FieldSpec{Key: key, Type: schema.FieldStringSet}
	}
	return schema.FieldSpec{Key: key, Type: schema.FieldString}
}

// entityResponse builds the read shape of one entity.
func entityResponse(entity *domain.Entity, fields map[string]any) EntityResponse {
	if fields == nil {
		fields = map[string]any{}
	}
	return EntityResponse{
		ID:     entity.ID,
		Title:  entity.Title,
		Status: string(entity.Status),
		Meta:   fields,
	}
}

// sortedKeys returns the map's keys in sorted order for deterministic writes.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
