package groups_test

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/mocks"
	"github.com/splashpad/lesson-api/internal/schema"
	"github.com/splashpad/lesson-api/internal/service/groups"
)

// testEnv bundles a group service with direct handles on its fakes so tests
// can seed and inspect state.
type testEnv struct {
	content  *mocks.FakeContentStore
	taxonomy *mocks.FakeTaxonomyStore
	service  groups.GroupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	content := mocks.NewFakeContentStore()
	taxonomy := mocks.NewFakeTaxonomyStore()
	txRunner := &mocks.FakeTxRunner{Content: content, Taxonomy: taxonomy}

	return &testEnv{
		content:  content,
		taxonomy: taxonomy,
		service: groups.NewGroupService(
			content, taxonomy, txRunner, schema.Default(), slog.Default()),
	}
}

func TestFetchGroupsDetailed_Empty(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotNil(t, views, "empty listing should be a slice, not nil")
}

func TestFetchGroupsDetailed_DefaultsForBareGroup(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Minnows", nil)

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	view := views[0]

	assert.Equal(t, id, view.ID)
	assert.Equal(t, "Minnows", view.Title)
	assert.Nil(t, view.Meta.Level)
	assert.Equal(t, []string{}, view.Meta.Days)
	assert.Equal(t, "", view.Meta.GroupTime)
	assert.Equal(t, []string{}, view.Meta.Instructor)
	assert.Equal(t, []int64{}, view.Meta.Swimmers)
	assert.Equal(t, "", view.Meta.LessonType)
	assert.Equal(t, []string{}, view.Meta.DatesOffered)
	assert.False(t, view.Meta.Archived)
	assert.Equal(t, int64(0), view.Meta.Year)
	assert.Equal(t, []int64{}, view.Camps)
	assert.Equal(t, []int64{}, view.Animals)
	assert.Equal(t, []int64{}, view.Locations)
}

func TestFetchGroupsDetailed_ResolvesLevel(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	levelID := env.content.Seed(domain.EntityTypeLevel, "Level 3", nil)
	env.content.Seed(domain.EntityTypeGroup, "Sharks", map[string]any{
		// Stored references round-trip through JSON, so they read back as floats.
		"level": float64(levelID),
	})

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Meta.Level)
	assert.Equal(t, levelID, views[0].Meta.Level.ID)
	assert.Equal(t, "Level 3", views[0].Meta.Level.Title)
}

func TestFetchGroupsDetailed_DanglingLevelResolvesNull(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.content.Seed(domain.EntityTypeGroup, "Orphans", map[string]any{
		"level": int64(9999),
	})

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Meta.Level, "dangling reference should resolve to null")
}

func TestFetchGroupsDetailed_NonLevelReferenceResolvesNull(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	swimmerID := env.content.Seed(domain.EntityTypeSwimmer, "Alex", nil)
	env.content.Seed(domain.EntityTypeGroup, "Mixed", map[string]any{
		"level": swimmerID,
	})

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Meta.Level)
}

func TestFetchGroupsDetailed_CreationOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	first := env.content.Seed(domain.EntityTypeGroup, "First", nil)
	env.content.Seed(domain.EntityTypeLevel, "Level 1", nil)
	second := env.content.Seed(domain.EntityTypeGroup, "Second", nil)

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, first, views[0].ID)
	assert.Equal(t, second, views[1].ID)
}

func TestApplyGroupUpdate_WrongEntityType(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	levelID := env.content.Seed(domain.EntityTypeLevel, "Level 1", nil)
	title := "Hijacked"

	report, err := env.service.ApplyGroupUpdate(context.Background(), levelID, groups.Patch{
		Title: &title,
		Meta:  map[string]any{"year": float64(2025)},
	})

	assert.ErrorIs(t, err, groups.ErrWrongEntityType)
	assert.Nil(t, report)

	// Nothing may have been written.
	entity, getErr := env.content.GetEntity(context.Background(), levelID)
	require.NoError(t, getErr)
	assert.Equal(t, "Level 1", entity.Title)
	assert.Nil(t, env.content.Field(levelID, "year"))
}

func TestApplyGroupUpdate_FieldWriteFailureRollsBack(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	campID := env.taxonomy.SeedTerm(domain.DimensionCamp, "June")
	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", map[string]any{
		"group_time": "9:00 AM",
	})
	title := "Dolphins"

	// Keys apply in sorted order, so archived and group_time land before the
	// injected year failure. All of them must be gone afterwards.
	env.content.FailSetField = map[string]error{"year": errors.New("write refused")}

	report, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Title: &title,
		Meta: map[string]any{
			"archived":   true,
			"group_time": "10:00 AM",
			"year":       float64(2026),
		},
		Camps: []any{float64(campID)},
	})

	require.Error(t, err)
	assert.Nil(t, report)
	assert.NotErrorIs(t, err, groups.ErrWrongEntityType)

	var svcErr *groups.ServiceError
	require.ErrorAs(t, err, &svcErr)

	entity, getErr := env.content.GetEntity(context.Background(), id)
	require.NoError(t, getErr)
	assert.Equal(t, "Sharks", entity.Title)
	assert.Equal(t, "9:00 AM", env.content.Field(id, "group_time"))
	assert.Nil(t, env.content.Field(id, "archived"))
	assert.Nil(t, env.content.Field(id, "year"))

	camps, getErr := env.taxonomy.GetAssociations(context.Background(), id, domain.DimensionCamp)
	require.NoError(t, getErr)
	assert.Empty(t, camps)
}

func TestApplyGroupUpdate_MissingTarget(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.service.ApplyGroupUpdate(context.Background(), 424242, groups.Patch{})

	assert.ErrorIs(t, err, groups.ErrWrongEntityType)
}

func TestApplyGroupUpdate_SanitizesTitle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Old", nil)
	title := "  <strong>Sharks</strong>\tSummer  "

	report, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{Title: &title})

	require.NoError(t, err)
	assert.True(t, report.TitleUpdated)

	entity, err := env.content.GetEntity(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Sharks Summer", entity.Title)
}

func TestApplyGroupUpdate_CoercesDeclaredTypes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)

	report, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Meta: map[string]any{
			"year":       "2025",
			"level":      "12",
			"archived":   "1",
			"days":       []any{"Monday", "Wednesday"},
			"group_time": "4:00 PM",
		},
	})

	require.NoError(t, err)
	assert.Empty(t, report.Fallbacks)
	assert.Equal(t, []string{"archived", "days", "group_time", "level", "year"}, report.MetaUpdated)

	assert.Equal(t, int64(2025), env.content.Field(id, "year"))
	assert.Equal(t, int64(12), env.content.Field(id, "level"))
	assert.Equal(t, true, env.content.Field(id, "archived"))
	assert.Equal(t, []any{"Monday", "Wednesday"}, env.content.Field(id, "days"))
	assert.Equal(t, "4:00 PM", env.content.Field(id, "group_time"))
}

func TestApplyGroupUpdate_FallbackOnUnparsableInteger(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)

	report, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Meta: map[string]any{"year": "sometime in summer"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"year"}, report.Fallbacks)
	assert.Equal(t, "sometime in summer", env.content.Field(id, "year"))

	// The unparsable value reads back as the integer zero value.
	views, err := env.service.FetchGroupsDetailed(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(0), views[0].Meta.Year)
}

func TestApplyGroupUpdate_UnknownKeySanitizedFreeform(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)

	report, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Meta: map[string]any{
			"pool_lane": "<i>lane</i> 4",
			"buddies":   []any{"<b>Sam</b>", float64(7)},
		},
	})

	require.NoError(t, err)
	assert.Empty(t, report.Fallbacks)
	assert.Equal(t, "lane 4", env.content.Field(id, "pool_lane"))
	assert.Equal(t, []any{"Sam", int64(7)}, env.content.Field(id, "buddies"))
}

func TestApplyGroupUpdate_ReplacesTaxonomyDestructively(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)
	campA := env.taxonomy.SeedTerm(domain.DimensionCamp, "June Camp")
	campB := env.taxonomy.SeedTerm(domain.DimensionCamp, "July Camp")
	campC := env.taxonomy.SeedTerm(domain.DimensionCamp, "August Camp")
	env.taxonomy.Associate(id, campA)
	env.taxonomy.Associate(id, campB)

	_, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Camps: []any{float64(campC)},
	})

	require.NoError(t, err)
	got, err := env.taxonomy.GetAssociations(context.Background(), id, domain.DimensionCamp)
	require.NoError(t, err)
	assert.Equal(t, []int64{campC}, got, "present taxonomy list must fully replace the old set")
}

func TestApplyGroupUpdate_EmptyTaxonomyListClears(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)
	camp := env.taxonomy.SeedTerm(domain.DimensionCamp, "June Camp")
	env.taxonomy.Associate(id, camp)

	_, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Camps: []any{},
	})

	require.NoError(t, err)
	got, err := env.taxonomy.GetAssociations(context.Background(), id, domain.DimensionCamp)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyGroupUpdate_AbsentTaxonomyListUntouched(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)
	camp := env.taxonomy.SeedTerm(domain.DimensionCamp, "June Camp")
	env.taxonomy.Associate(id, camp)

	_, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Meta: map[string]any{"year": float64(2026)},
	})

	require.NoError(t, err)
	got, err := env.taxonomy.GetAssociations(context.Background(), id, domain.DimensionCamp)
	require.NoError(t, err)
	assert.Equal(t, []int64{camp}, got)
}

func TestApplyGroupUpdate_CoercesTaxonomyIDStrings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)
	dolphin := env.taxonomy.SeedTerm(domain.DimensionAnimal, "Dolphin")
	otter := env.taxonomy.SeedTerm(domain.DimensionAnimal, "Otter")

	_, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Animals: []any{
			strconv.FormatInt(dolphin, 10),
			strconv.FormatInt(otter, 10),
			"not-a-term",
		},
	})

	require.NoError(t, err)
	got, err := env.taxonomy.GetAssociations(context.Background(), id, domain.DimensionAnimal)
	require.NoError(t, err)
	assert.Equal(t, []int64{dolphin, otter}, got)
}

func TestApplyGroupUpdate_Idempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)
	camp := env.taxonomy.SeedTerm(domain.DimensionCamp, "June Camp")
	title := "Sharks 2026"
	patch := groups.Patch{
		Title: &title,
		Meta: map[string]any{
			"year": "2026",
			"days": []any{"Tuesday", "Thursday"},
		},
		Camps: []any{float64(camp)},
	}

	first, err := env.service.ApplyGroupUpdate(context.Background(), id, patch)
	require.NoError(t, err)
	second, err := env.service.ApplyGroupUpdate(context.Background(), id, patch)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	views, err := env.service.FetchGroupsDetailed(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Sharks 2026", views[0].Title)
	assert.Equal(t, int64(2026), views[0].Meta.Year)
	assert.Equal(t, []string{"Tuesday", "Thursday"}, views[0].Meta.Days)
	assert.Equal(t, []int64{camp}, views[0].Camps)
}

func TestApplyGroupUpdate_RoundTripThroughView(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	levelID := env.content.Seed(domain.EntityTypeLevel, "Level 2", nil)
	id := env.content.Seed(domain.EntityTypeGroup, "Sharks", nil)

	_, err := env.service.ApplyGroupUpdate(context.Background(), id, groups.Patch{
		Meta: map[string]any{
			"level":         float64(levelID),
			"swimmers":      []any{float64(10), "11"},
			"instructor":    []any{"coach-a", "coach-b"},
			"dates_offered": []any{"2026-06-01", "2026-06-08"},
			"lesson_type":   "group",
			"archived":      true,
		},
	})
	require.NoError(t, err)

	// Only the group is listed; the seeded level is a different entity type.
	views, err := env.service.FetchGroupsDetailed(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := &views[0]
	require.Equal(t, id, view.ID)

	require.NotNil(t, view.Meta.Level)
	assert.Equal(t, "Level 2", view.Meta.Level.Title)
	assert.Equal(t, []int64{10, 11}, view.Meta.Swimmers)
	assert.Equal(t, []string{"coach-a", "coach-b"}, view.Meta.Instructor)
	assert.Equal(t, []string{"2026-06-01", "2026-06-08"}, view.Meta.DatesOffered)
	assert.Equal(t, "group", view.Meta.LessonType)
	assert.True(t, view.Meta.Archived)
}

func TestFetchGroupsDetailed_DaysInCalendarOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.content.Seed(domain.EntityTypeGroup, "Sharks", map[string]any{
		"days": []any{"Friday", "Monday", "Holiday"},
	})

	views, err := env.service.FetchGroupsDetailed(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, []string{"Monday", "Friday", "Holiday"}, views[0].Meta.Days)
}

func TestNewGroupService_NilDependenciesPanic(t *testing.T) {
	t.Parallel()

	content := mocks.NewFakeContentStore()
	taxonomy := mocks.NewFakeTaxonomyStore()
	txRunner := &mocks.FakeTxRunner{Content: content, Taxonomy: taxonomy}

	assert.Panics(t, func() {
		groups.NewGroupService(nil, taxonomy, txRunner, schema.Default(), nil)
	})
	assert.Panics(t, func() {
		groups.NewGroupService(content, nil, txRunner, schema.Default(), nil)
	})
	assert.Panics(t, func() {
		groups.NewGroupService(content, taxonomy, nil, schema.Default(), nil)
	})
	assert.Panics(t, func() {
		groups.NewGroupService(content, taxonomy, txRunner, nil, nil)
	})
}
