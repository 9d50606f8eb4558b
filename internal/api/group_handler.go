package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/splashpad/lesson-api/internal/api/shared"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/platform/metrics"
	"github.com/splashpad/lesson-api/internal/service/groups"
)

// GroupHandler handles the aggregated group endpoints.
type GroupHandler struct {
	groupService groups.GroupService
	metrics      *metrics.Manager
	logger       *slog.Logger
}

// NewGroupHandler creates a new GroupHandler with the given dependencies.
// The metrics manager may be nil, in which case nothing is recorded.
func NewGroupHandler(groupService groups.GroupService, manager *metrics.Manager, logger *slog.Logger) *GroupHandler {
	if groupService == nil {
		panic("groupService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupHandler{
		groupService: groupService,
		metrics:      manager,
		logger:       logger.With(slog.String("component", "group_handler")),
	}
}

// ListGroups handles GET /groups. It returns every group with its resolved
// level, field values, and taxonomy term sets in one payload; the response is
// an empty array, never null, when no groups exist.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	views, err := h.groupService.FetchGroupsDetailed(r.Context())
	if err != nil {
		log.Error("failed to fetch groups", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "Failed to fetch groups")
		return
	}
	h.metrics.RecordGroupFetch()

	if views == nil {
		views = []groups.GroupView{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, views)
}

// UpdateGroup handles POST /groups/{id}. Partial updates only: absent request
// members leave their targets untouched, present taxonomy lists fully replace
// that dimension's terms.
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateGroupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	report, err := h.groupService.ApplyGroupUpdate(r.Context(), id, groups.Patch{
		Title:   req.Title,
		Meta:    req.Meta,
		Camps:   req.Camps,
		Animals: req.Animals,
	})
	if err != nil {
		h.metrics.RecordGroupUpdate(true)
		HandleAPIError(w, r, err, "")
		return
	}
	h.metrics.RecordGroupUpdate(false)

	log.Debug("group updated",
		slog.Int64("group_id", id),
		slog.Int("fallbacks", len(report.Fallbacks)))

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateGroupResponse{
		Success: true,
		Message: updateMessage(report),
	})
}

// updateMessage summarizes an update for the client, naming the keys whose
// values were stored as plain text because they could not be parsed to their
// declared type.
func updateMessage(report *groups.UpdateReport) string {
	if len(report.Fallbacks) == 0 {
		return "Group updated."
	}
	return fmt.Sprintf("Group updated. Stored as plain text: %s.",
		strings.Join(report.Fallbacks, ", "))
}
