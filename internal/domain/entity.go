package domain

import (
	"errors"
	"time"
)

// EntityType identifies one of the registered content entity types.
type EntityType string

// Registered entity types.
const (
	EntityTypeLevel      EntityType = "level"
	EntityTypeSkill      EntityType = "skill"
	EntityTypeSwimmer    EntityType = "swimmer"
	EntityTypeGroup      EntityType = "group"
	EntityTypeEvaluation EntityType = "evaluation"
)

// EntityStatus represents the publication state of an entity.
type EntityStatus string

// Possible entity status values.
const (
	EntityStatusPublish EntityStatus = "publish"
	EntityStatusDraft   EntityStatus = "draft"
	EntityStatusTrash   EntityStatus = "trash"
)

// Common validation errors for entities.
var (
	ErrInvalidEntityType   = errors.New("invalid entity type")
	ErrInvalidEntityStatus = errors.New("invalid entity status")
	ErrInvalidEntityID     = errors.New("entity ID must be positive")
)

// Entity is a generic record in the content store: an opaque integer ID, a
// type, a display title, and a publication status. Typed field values live in
// the store's field table and are fetched separately, mirroring the store's
// get/set field contract.
type Entity struct {
	ID        int64        `json:"id"`
	Type      EntityType   `json:"type"`
	Title     string       `json:"title"`
	Status    EntityStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Validate checks that the entity carries a registered type and status.
// The ID is store-assigned and may be zero before creation.
func (e *Entity) Validate() error {
	if !IsValidEntityType(e.Type) {
		return ErrInvalidEntityType
	}
	if !isValidEntityStatus(e.Status) {
		return ErrInvalidEntityStatus
	}
	return nil
}

// IsValidEntityType reports whether t is one of the registered entity types.
func IsValidEntityType(t EntityType) bool {
	switch t {
	case EntityTypeLevel, EntityTypeSkill, EntityTypeSwimmer,
		EntityTypeGroup, EntityTypeEvaluation:
		return true
	default:
		return false
	}
}

func isValidEntityStatus(s EntityStatus) bool {
	switch s {
	case EntityStatusPublish, EntityStatusDraft, EntityStatusTrash:
		return true
	default:
		return false
	}
}
