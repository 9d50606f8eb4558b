package groups

import (
	"context"
	"errors"
	"fmt"
)

// LevelRef is a resolved reference to a level entity, carried inside a group
// view so the UI can render the level without a second request.
type LevelRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// GroupMeta is the denormalized field block of a group view. Absent stored
// values surface as their zero shapes (empty slices, empty strings, false, 0)
// rather than being omitted, so the client always sees the full shape.
type GroupMeta struct {
	// Level is the resolved level reference, or null when the group has no
	// level or the referenced level no longer exists.
	Level        *LevelRef `json:"level"`
	Days         []string  `json:"days"`
	GroupTime    string    `json:"group_time"`
	Instructor   []string  `json:"instructor"`
	Swimmers     []int64   `json:"swimmers"`
	LessonType   string    `json:"lesson_type"`
	DatesOffered []string  `json:"dates_offered"`
	Archived     bool      `json:"archived"`
	Year         int64     `json:"year"`
}

// GroupView is the aggregated read shape for one group: identity, denormalized
// meta, and the term id sets of each taxonomy dimension the UI filters on.
type GroupView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Meta      GroupMeta `json:"meta"`
	Camps     []int64   `json:"lm-camp"`
	Animals   []int64   `json:"lm-animal"`
	Locations []int64   `json:"lm-location"`
}

// Patch is a partial group update. Nil members mean "leave untouched"; a
// present but empty Camps or Animals slice clears that dimension entirely,
// since taxonomy writes are full replacements.
type Patch struct {
	Title   *string        `json:"title"`
	Meta    map[string]any `json:"meta"`
	Camps   []any          `json:"lm-camp"`
	Animals []any          `json:"lm-animal"`
}

// UpdateReport describes what an applied update actually did. Fallbacks lists
// the meta keys whose values could not be parsed to their declared type and
// were stored as sanitized text instead.
type UpdateReport struct {
	TitleUpdated bool
	MetaUpdated  []string
	Fallbacks    []string
}

// GroupService aggregates group entities with their resolved level, typed
// field values, and taxonomy term sets, and applies partial updates to them.
type GroupService interface {
	// FetchGroupsDetailed returns the full aggregated view of every publish
	// status group, in creation (id) order.
	//
	// Returns:
	//   - ([]GroupView, nil): The aggregated views; empty slice when no
	//     groups exist
	//   - (nil, error): A wrapped store error
	//
	// Reads are not transactional: each group is assembled from independent
	// lookups, and a concurrent write may be partially visible across groups.
	FetchGroupsDetailed(ctx context.Context) ([]GroupView, error)

	// ApplyGroupUpdate applies a partial update to one group inside a single
	// transaction. The title is sanitized before storage, meta values are
	// coerced to their declared types (falling back to sanitized text when
	// unparsable), and each present taxonomy list fully replaces that
	// dimension's term set.
	//
	// Returns:
	//   - (*UpdateReport, nil): What was written, including coercion fallbacks
	//   - (nil, ErrWrongEntityType): If the id does not name an existing
	//     group; nothing is written
	//   - (nil, error): Any other error, with the transaction rolled back
	ApplyGroupUpdate(ctx context.Context, id int64, patch Patch) (*UpdateReport, error)
}

// ErrWrongEntityType indicates the update target is not a group, either
// because no entity has that id or because the entity is of another type.
var ErrWrongEntityType = errors.New("target is not a group")

// ServiceError wraps errors from the group service with the failing operation,
// so consumers can differentiate with errors.As instead of string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewFetchGroupsError returns a new ServiceError for the fetch_groups operation.
func NewFetchGroupsError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "fetch_groups",
		Message:   message,
		Err:       err,
	}
}

// NewApplyUpdateError returns a new ServiceError for the apply_update operation.
func NewApplyUpdateError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "apply_update",
		Message:   message,
		Err:       err,
	}
}
