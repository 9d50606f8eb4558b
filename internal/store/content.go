package store

import (
	"context"

	"github.com/splashpad/lesson-api/internal/domain"
)

// ContentStore is the generic document store that owns durable persistence of
// entities and their typed fields. Entity IDs are store-assigned opaque
// integers; field values are stored as JSON and round-trip through the same
// decoded shapes the REST layer works with.
type ContentStore interface {
	// CreateEntity persists a new entity of the given type with the given
	// title and field values, and returns it with its assigned ID.
	CreateEntity(ctx context.Context, entityType domain.EntityType, title string, fields map[string]any) (*domain.Entity, error)

	// GetEntity retrieves an entity by ID.
	// Returns ErrEntityNotFound if no entity with that ID exists.
	GetEntity(ctx context.Context, id int64) (*domain.Entity, error)

	// ListEntities returns all publish-status entities of the given type in
	// creation (ID) order.
	ListEntities(ctx context.Context, entityType domain.EntityType) ([]*domain.Entity, error)

	// UpdateTitle replaces the entity's title.
	// Returns ErrEntityNotFound if no entity with that ID exists.
	UpdateTitle(ctx context.Context, id int64, title string) error

	// SetField writes a single field value, replacing any existing value for
	// that key. Missing entities are not detected here; the caller verifies
	// the target first.
	SetField(ctx context.Context, id int64, key string, value any) error

	// GetFields returns all stored field values for the entity. Entities with
	// no stored fields yield an empty map, not an error.
	GetFields(ctx context.Context, id int64) (map[string]any, error)

	// DeleteEntity removes the entity and its fields. References held by other
	// entities are left dangling deliberately; readers resolve them as absent.
	DeleteEntity(ctx context.Context, id int64) error
}
