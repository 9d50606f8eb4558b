package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/store"
)

// PostgresContentStore implements the store.ContentStore interface using a
// PostgreSQL database as the storage backend. Entities live in the entities
// table; their typed field values live in entity_fields as JSONB, one row per
// (entity, key).
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a new PostgreSQL implementation of the
// ContentStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure PostgresContentStore implements store.ContentStore interface
var _ store.ContentStore = (*PostgresContentStore)(nil)

// CreateEntity implements store.ContentStore.CreateEntity.
// It inserts the entity row, then one field row per provided field.
func (s *PostgresContentStore) CreateEntity(
	ctx context.Context,
	entityType domain.EntityType,
	title string,
	fields map[string]any,
) (*domain.Entity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entity := &domain.Entity{
		Type:      entityType,
		Title:     title,
		Status:    domain.EntityStatusPublish,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := entity.Validate(); err != nil {
		log.Warn("entity validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entity_type", string(entityType)))
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO entities (entity_type, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		entity.Type,
		entity.Title,
		entity.Status,
		entity.CreatedAt,
		entity.UpdatedAt,
	).Scan(&entity.ID)
	if err != nil {
		log.Error("failed to create entity",
			slog.String("error", err.Error()),
			slog.String("entity_type", string(entityType)))
		return nil, err
	}

	for key, value := range fields {
		if err := s.SetField(ctx, entity.ID, key, value); err != nil {
			return nil, err
		}
	}

	log.Info("entity created",
		slog.Int64("entity_id", entity.ID),
		slog.String("entity_type", string(entityType)))
	return entity, nil
}

// GetEntity implements store.ContentStore.GetEntity.
// Returns store.ErrEntityNotFound if the entity does not exist.
func (s *PostgresContentStore) GetEntity(ctx context.Context, id int64) (*domain.Entity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, entity_type, title, status, created_at, updated_at
		FROM entities
		WHERE id = $1
	`

	var entity domain.Entity
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&entity.ID,
		&entity.Type,
		&entity.Title,
		&entity.Status,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("entity not found", slog.Int64("entity_id", id))
			return nil, store.ErrEntityNotFound
		}
		log.Error("failed to get entity",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id))
		return nil, err
	}

	return &entity, nil
}

// ListEntities implements store.ContentStore.ListEntities.
// Only publish-status entities are returned, in ID (creation) order.
func (s *PostgresContentStore) ListEntities(
	ctx context.Context,
	entityType domain.EntityType,
) ([]*domain.Entity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, entity_type, title, status, created_at, updated_at
		FROM entities
		WHERE entity_type = $1 AND status = $2
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, entityType, domain.EntityStatusPublish)
	if err != nil {
		log.Error("failed to list entities",
			slog.String("error", err.Error()),
			slog.String("entity_type", string(entityType)))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entities := []*domain.Entity{}
	for rows.Next() {
		var entity domain.Entity
		err := rows.Scan(
			&entity.ID,
			&entity.Type,
			&entity.Title,
			&entity.Status,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan entity row", slog.String("error", err.Error()))
			return nil, err
		}
		entities = append(entities, &entity)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return entities, nil
}

// UpdateTitle implements store.ContentStore.UpdateTitle.
// Returns store.ErrEntityNotFound if the entity does not exist.
func (s *PostgresContentStore) UpdateTitle(ctx context.Context, id int64, title string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE entities
		SET title = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, title, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update entity title",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("entity not found for title update", slog.Int64("entity_id", id))
		return store.ErrEntityNotFound
	}

	return nil
}

// SetField implements store.ContentStore.SetField.
// The value is stored as JSONB; writing replaces any existing value for the key.
func (s *PostgresContentStore) SetField(ctx context.Context, id int64, key string, value any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn("failed to encode field value",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id),
			slog.String("key", key))
		return fmt.Errorf("%w: field %s: %v", store.ErrInvalidEntity, key, err)
	}

	query := `
		INSERT INTO entity_fields (entity_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity_id, key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := s.db.ExecContext(ctx, query, id, key, encoded); err != nil {
		if isForeignKeyViolation(err) {
			log.Debug("field write against missing entity", slog.Int64("entity_id", id))
			return store.ErrEntityNotFound
		}
		log.Error("failed to set entity field",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id),
			slog.String("key", key))
		return err
	}

	return nil
}

// GetFields implements store.ContentStore.GetFields.
// Entities with no stored fields yield an empty map.
func (s *PostgresContentStore) GetFields(ctx context.Context, id int64) (map[string]any, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT key, value
		FROM entity_fields
		WHERE entity_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		log.Error("failed to query entity fields",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	fields := map[string]any{}
	for rows.Next() {
		var (
			key     string
			encoded []byte
		)
		if err := rows.Scan(&key, &encoded); err != nil {
			log.Error("failed to scan field row", slog.String("error", err.Error()))
			return nil, err
		}

		var value any
		if err := json.Unmarshal(encoded, &value); err != nil {
			log.Error("failed to decode field value",
				slog.String("error", err.Error()),
				slog.Int64("entity_id", id),
				slog.String("key", key))
			return nil, err
		}
		fields[key] = value
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return fields, nil
}

// DeleteEntity implements store.ContentStore.DeleteEntity.
// Field rows and term associations cascade at the database level; references
// held by other entities are left dangling.
// Returns store.ErrEntityNotFound if the entity does not exist.
func (s *PostgresContentStore) DeleteEntity(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete entity",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("entity_id", id))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("entity not found for delete", slog.Int64("entity_id", id))
		return store.ErrEntityNotFound
	}

	log.Info("entity deleted", slog.Int64("entity_id", id))
	return nil
}
