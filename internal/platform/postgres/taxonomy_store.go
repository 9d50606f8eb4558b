package postgres

import (
	"context"
	"log/slog"

	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/store"
)

// PostgresTaxonomyStore implements the store.TaxonomyStore interface using a
// PostgreSQL database as the storage backend.
type PostgresTaxonomyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaxonomyStore creates a new PostgreSQL implementation of the
// TaxonomyStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaxonomyStore(db store.DBTX, logger *slog.Logger) *PostgresTaxonomyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaxonomyStore{
		db:     db,
		logger: logger.With(slog.String("component", "taxonomy_store")),
	}
}

// Ensure PostgresTaxonomyStore implements store.TaxonomyStore interface
var _ store.TaxonomyStore = (*PostgresTaxonomyStore)(nil)

// ListTerms implements store.TaxonomyStore.ListTerms.
func (s *PostgresTaxonomyStore) ListTerms(ctx context.Context, dimension string) ([]domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, dimension, name, sort_order
		FROM terms
		WHERE dimension = $1
		ORDER BY sort_order, name
	`

	rows, err := s.db.QueryContext(ctx, query, dimension)
	if err != nil {
		log.Error("failed to list terms",
			slog.String("error", err.Error()),
			slog.String("dimension", dimension))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	terms := []domain.Term{}
	for rows.Next() {
		var term domain.Term
		if err := rows.Scan(&term.ID, &term.Dimension, &term.Name, &term.SortOrder); err != nil {
			log.Error("failed to scan term row", slog.String("error", err.Error()))
			return nil, err
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return terms, nil
}

// GetAssociations implements store.TaxonomyStore.GetAssociations.
// Entities with no associated terms yield an empty slice.
func (s *PostgresTaxonomyStore) GetAssociations(
	ctx context.Context,
	entityID int64,
	dimension string,
) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id
		FROM terms t
		JOIN term_associations ta ON ta.term_id = t.id
		WHERE ta.entity_id = $1 AND t.dimension = $2
		ORDER BY t.id
	`

	rows, err := s.db.QueryContext(ctx, query, entityID, dimension)
	if err != nil {
		log.Error("failed to query term associations",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", entityID),
			slog.String("dimension", dimension))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan association row", slog.String("error", err.Error()))
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return ids, nil
}

// ReplaceAssociations implements store.TaxonomyStore.ReplaceAssociations.
// The entity's term set for the dimension is overwritten with exactly the
// given IDs; term IDs that do not exist in the dimension are skipped.
func (s *PostgresTaxonomyStore) ReplaceAssociations(
	ctx context.Context,
	entityID int64,
	dimension string,
	termIDs []int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deleteQuery := `
		DELETE FROM term_associations
		WHERE entity_id = $1
		  AND term_id IN (SELECT id FROM terms WHERE dimension = $2)
	`
	if _, err := s.db.ExecContext(ctx, deleteQuery, entityID, dimension); err != nil {
		log.Error("failed to clear term associations",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", entityID),
			slog.String("dimension", dimension))
		return err
	}

	insertQuery := `
		INSERT INTO term_associations (entity_id, term_id)
		SELECT $1, id FROM terms WHERE id = $2 AND dimension = $3
		ON CONFLICT DO NOTHING
	`
	for _, termID := range termIDs {
		if _, err := s.db.ExecContext(ctx, insertQuery, entityID, termID, dimension); err != nil {
			log.Error("failed to insert term association",
				slog.String("error", err.Error()),
				slog.Int64("entity_id", entityID),
				slog.Int64("term_id", termID),
				slog.String("dimension", dimension))
			return err
		}
	}

	log.Debug("term associations replaced",
		slog.Int64("entity_id", entityID),
		slog.String("dimension", dimension),
		slog.Int("count", len(termIDs)))
	return nil
}
