package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/platform/logger"
	"github.com/splashpad/lesson-api/internal/sanitize"
	"github.com/splashpad/lesson-api/internal/schema"
	"github.com/splashpad/lesson-api/internal/store"
)

// Verify interface compliance at compile time
var _ GroupService = (*groupServiceImpl)(nil)

// groupServiceImpl implements the GroupService interface.
type groupServiceImpl struct {
	content  store.ContentStore
	taxonomy store.TaxonomyStore
	txRunner store.TxRunner
	registry *schema.Registry
	logger   *slog.Logger
}

// NewGroupService creates a new GroupService implementation.
func NewGroupService(
	content store.ContentStore,
	taxonomy store.TaxonomyStore,
	txRunner store.TxRunner,
	registry *schema.Registry,
	logger *slog.Logger,
) GroupService {
	if content == nil {
		panic("content store cannot be nil")
	}
	if taxonomy == nil {
		panic("taxonomy store cannot be nil")
	}
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &groupServiceImpl{
		content:  content,
		taxonomy: taxonomy,
		txRunner: txRunner,
		registry: registry,
		logger:   logger.With(slog.String("component", "group_service")),
	}
}

// FetchGroupsDetailed implements GroupService.FetchGroupsDetailed.
func (s *groupServiceImpl) FetchGroupsDetailed(ctx context.Context) ([]GroupView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entities, err := s.content.ListEntities(ctx, domain.EntityTypeGroup)
	if err != nil {
		log.Error("failed to list groups", slog.String("error", err.Error()))
		return nil, NewFetchGroupsError("failed to list groups", err)
	}

	views := make([]GroupView, 0, len(entities))
	for _, entity := range entities {
		view, err := s.assembleView(ctx, entity)
		if err != nil {
			log.Error("failed to assemble group view",
				slog.Int64("group_id", entity.ID),
				slog.String("error", err.Error()))
			return nil, NewFetchGroupsError(
				fmt.Sprintf("failed to assemble group %d", entity.ID), err)
		}
		views = append(views, view)
	}

	log.Debug("fetched detailed groups", slog.Int("count", len(views)))
	return views, nil
}

// assembleView builds the aggregated view of a single group from its stored
// fields and taxonomy associations.
func (s *groupServiceImpl) assembleView(ctx context.Context, entity *domain.Entity) (GroupView, error) {
	fields, err := s.content.GetFields(ctx, entity.ID)
	if err != nil {
		return GroupView{}, fmt.Errorf("get fields: %w", err)
	}

	level, err := s.resolveLevel(ctx, fields["level"])
	if err != nil {
		return GroupView{}, fmt.Errorf("resolve level: %w", err)
	}

	year, _ := schema.AsInt64(fields["year"])

	view := GroupView{
		ID:    entity.ID,
		Title: entity.Title,
		Meta: GroupMeta{
			Level:        level,
			Days:         orderDays(asStringSlice(fields["days"])),
			GroupTime:    asString(fields["group_time"]),
			Instructor:   asStringSlice(fields["instructor"]),
			Swimmers:     asInt64Slice(fields["swimmers"]),
			LessonType:   asString(fields["lesson_type"]),
			DatesOffered: asStringSlice(fields["dates_offered"]),
			Archived:     schema.AsBool(fields["archived"]),
			Year:         year,
		},
	}

	for _, dim := range []struct {
		name   string
		target *[]int64
	}{
		{domain.DimensionCamp, &view.Camps},
		{domain.DimensionAnimal, &view.Animals},
		{domain.DimensionLocation, &view.Locations},
	} {
		ids, err := s.taxonomy.GetAssociations(ctx, entity.ID, dim.name)
		if err != nil {
			return GroupView{}, fmt.Errorf("get %s associations: %w", dim.name, err)
		}
		if ids == nil {
			ids = []int64{}
		}
		*dim.target = ids
	}

	return view, nil
}

// resolveLevel turns a stored level reference into a LevelRef. A missing or
// dangling reference, or one pointing at a non-level entity, resolves to nil
// rather than an error so one bad reference cannot break the whole listing.
func (s *groupServiceImpl) resolveLevel(ctx context.Context, raw any) (*LevelRef, error) {
	id, ok := schema.AsInt64(raw)
	if !ok || id <= 0 {
		return nil, nil
	}

	target, err := s.content.GetEntity(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	if target.Type != domain.EntityTypeLevel {
		return nil, nil
	}
	return &LevelRef{ID: target.ID, Title: target.Title}, nil
}

// ApplyGroupUpdate implements GroupService.ApplyGroupUpdate.
func (s *groupServiceImpl) ApplyGroupUpdate(ctx context.Context, id int64, patch Patch) (*UpdateReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	report := &UpdateReport{}
	err := s.txRunner.InTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		entity, err := st.Content.GetEntity(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrWrongEntityType
			}
			return fmt.Errorf("get entity: %w", err)
		}
		if entity.Type != domain.EntityTypeGroup {
			return ErrWrongEntityType
		}

		if patch.Title != nil {
			if err := st.Content.UpdateTitle(ctx, id, sanitize.Text(*patch.Title)); err != nil {
				return fmt.Errorf("update title: %w", err)
			}
			report.TitleUpdated = true
		}

		// Sorted keys keep the report and fallback messages deterministic.
		keys := make([]string, 0, len(patch.Meta))
		for key := range patch.Meta {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			fs := s.fieldSpec(key, patch.Meta[key])
			stored, fellBack := schema.Coerce(fs, patch.Meta[key])
			if err := st.Content.SetField(ctx, id, key, stored); err != nil {
				return fmt.Errorf("set field %q: %w", key, err)
			}
			report.MetaUpdated = append(report.MetaUpdated, key)
			if fellBack {
				report.Fallbacks = append(report.Fallbacks, key)
			}
		}

		if patch.Camps != nil {
			ids := schema.CoerceIDList(patch.Camps)
			if err := st.Taxonomy.ReplaceAssociations(ctx, id, domain.DimensionCamp, ids); err != nil {
				return fmt.Errorf("replace camp terms: %w", err)
			}
		}
		if patch.Animals != nil {
			ids := schema.CoerceIDList(patch.Animals)
			if err := st.Taxonomy.ReplaceAssociations(ctx, id, domain.DimensionAnimal, ids); err != nil {
				return fmt.Errorf("replace animal terms: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWrongEntityType) {
			log.Debug("rejected update for non-group target", slog.Int64("target_id", id))
			return nil, ErrWrongEntityType
		}
		log.Error("failed to apply group update",
			slog.Int64("group_id", id),
			slog.String("error", err.Error()))
		return nil, NewApplyUpdateError(fmt.Sprintf("failed to update group %d", id), err)
	}

	log.Debug("applied group update",
		slog.Int64("group_id", id),
		slog.Bool("title_updated", report.TitleUpdated),
		slog.Int("meta_updated", len(report.MetaUpdated)),
		slog.Int("fallbacks", len(report.Fallbacks)))
	return report, nil
}

// fieldSpec resolves the declared spec for a meta key. Unknown keys are
// accepted as freeform values, typed by the shape of what was sent.
func (s *groupServiceImpl) fieldSpec(key string, v any) schema.FieldSpec {
	if fs, ok := s.registry.Field(domain.EntityTypeGroup, key); ok {
		return fs
	}
	if _, isList := v.([]any); isList {
		return schema.FieldSpec{Key: key, Type: schema.FieldStringSet}
	}
	return schema.FieldSpec{Key: key, Type: schema.FieldString}
}

// orderDays renders day names in calendar order regardless of the order the
// UI submitted them in. Entries that are not weekday names keep their stored
// order at the end.
func orderDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, name := range domain.Weekdays {
		for _, day := range days {
			if day == name {
				out = append(out, day)
			}
		}
	}
	for _, day := range days {
		if !domain.IsWeekday(day) {
			out = append(out, day)
		}
	}
	return out
}

// asString reads a stored scalar as text, formatting stray numbers instead of
// dropping them.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprint(s)
	}
}

// asStringSlice reads a stored list as text elements. Non-list values yield an
// empty slice so views always carry the full shape.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, asString(item))
	}
	return out
}

// asInt64Slice reads a stored list as integer ids, dropping unparsable
// elements.
func asInt64Slice(v any) []int64 {
	items, ok := v.([]any)
	if !ok {
		return []int64{}
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if n, ok := schema.AsInt64(item); ok {
			out = append(out, n)
		}
	}
	return out
}
