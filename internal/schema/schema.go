// Package schema declares the entity field sets and taxonomy dimensions of the
// lesson-management content model. The registry is plain data built once at
// startup and passed by reference; there is no runtime registration.
package schema

import "github.com/splashpad/lesson-api/internal/domain"

// FieldType is the semantic type of an entity field, used by the REST gateway
// for input coercion.
type FieldType string

// Field types.
const (
	FieldString    FieldType = "string"     // freeform sanitized text
	FieldInteger   FieldType = "integer"    // scalar integer
	FieldBoolean   FieldType = "boolean"    // defaults to false when absent
	FieldRef       FieldType = "ref"        // single reference to another entity
	FieldRefSet    FieldType = "refset"     // set of entity references
	FieldStringSet FieldType = "stringset"  // set of strings (e.g. weekday names)
	FieldStringSeq FieldType = "stringseq"  // ordered sequence of strings
)

// FieldSpec describes one declared field of an entity type.
type FieldSpec struct {
	Key      string
	Type     FieldType
	Required bool
	// Elevated marks fields whose writes require the edit-content capability.
	// The gateway checks this uniformly instead of invoking per-field callbacks.
	Elevated bool
}

// DimensionSpec declares a taxonomy dimension and the entity types it attaches to.
type DimensionSpec struct {
	Name        string
	EntityTypes []domain.EntityType
}

// Registry holds the declared field sets and taxonomy dimensions. It is
// immutable after construction.
type Registry struct {
	fields     map[domain.EntityType][]FieldSpec
	dimensions []DimensionSpec
}

// Default builds the registry for the lesson-management content model.
func Default() *Registry {
	return &Registry{
		fields: map[domain.EntityType][]FieldSpec{
			domain.EntityTypeLevel: {
				{Key: "sort_order", Type: FieldInteger, Required: true},
			},
			domain.EntityTypeSkill: {
				{Key: "sort_order", Type: FieldInteger, Required: true},
				{Key: "level_associated", Type: FieldRef},
			},
			domain.EntityTypeSwimmer: {
				{Key: "parent_name", Type: FieldString},
				{Key: "parent_email", Type: FieldString, Required: true},
				{Key: "date_of_birth", Type: FieldString, Required: true},
				{Key: "notes", Type: FieldString},
				{Key: "current_level", Type: FieldRef},
				{Key: "levels_mastered", Type: FieldRefSet},
				{Key: "skills_mastered", Type: FieldRefSet},
				{Key: "evaluations", Type: FieldRefSet},
				{Key: "group", Type: FieldRefSet},
			},
			domain.EntityTypeGroup: {
				{Key: "level", Type: FieldRef, Elevated: true},
				{Key: "instructor", Type: FieldRefSet, Elevated: true},
				{Key: "swimmers", Type: FieldRefSet, Elevated: true},
				{Key: "days", Type: FieldStringSet, Elevated: true},
				{Key: "group_time", Type: FieldString, Elevated: true},
				{Key: "lesson_type", Type: FieldString, Elevated: true},
				{Key: "dates_offered", Type: FieldStringSeq, Elevated: true},
				{Key: "media", Type: FieldRef},
				{Key: "archived", Type: FieldBoolean, Elevated: true},
				{Key: "year", Type: FieldInteger, Elevated: true},
			},
			domain.EntityTypeEvaluation: {
				{Key: "swimmer", Type: FieldRef},
				{Key: "level_evaluated", Type: FieldRef},
				{Key: "details", Type: FieldString},
				{Key: "emailed", Type: FieldBoolean},
			},
		},
		dimensions: []DimensionSpec{
			{Name: domain.DimensionCamp, EntityTypes: []domain.EntityType{domain.EntityTypeGroup, domain.EntityTypeSwimmer}},
			{Name: domain.DimensionLocation, EntityTypes: []domain.EntityType{domain.EntityTypeGroup}},
			{Name: domain.DimensionYear, EntityTypes: []domain.EntityType{domain.EntityTypeGroup}},
			{Name: domain.DimensionAnimal, EntityTypes: []domain.EntityType{domain.EntityTypeGroup}},
		},
	}
}

// Fields returns the ordered field specs declared for the given entity type.
// The returned slice is a copy; callers cannot mutate the registry.
func (r *Registry) Fields(t domain.EntityType) []FieldSpec {
	specs, ok := r.fields[t]
	if !ok {
		return nil
	}
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// Field looks up a single field spec by key for the given entity type.
func (r *Registry) Field(t domain.EntityType, key string) (FieldSpec, bool) {
	for _, fs := range r.fields[t] {
		if fs.Key == key {
			return fs, true
		}
	}
	return FieldSpec{}, false
}

// Dimensions returns the taxonomy dimensions declared for the given entity
// type, in registration order.
func (r *Registry) Dimensions(t domain.EntityType) []DimensionSpec {
	var out []DimensionSpec
	for _, d := range r.dimensions {
		for _, et := range d.EntityTypes {
			if et == t {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
