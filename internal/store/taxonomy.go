package store

import (
	"context"

	"github.com/splashpad/lesson-api/internal/domain"
)

// TaxonomyStore manages taxonomy terms and their many-to-many associations
// with entities.
type TaxonomyStore interface {
	// ListTerms returns all terms of the given dimension ordered by sort
	// order, then name.
	ListTerms(ctx context.Context, dimension string) ([]domain.Term, error)

	// GetAssociations returns the IDs of the terms of the given dimension
	// associated with the entity. Missing or empty associations yield an
	// empty slice, never an error.
	GetAssociations(ctx context.Context, entityID int64, dimension string) ([]int64, error)

	// ReplaceAssociations overwrites the entity's term set for the given
	// dimension with exactly the given term IDs. This is a full replacement:
	// omitted existing terms are removed.
	ReplaceAssociations(ctx context.Context, entityID int64, dimension string, termIDs []int64) error
}
