// Package mocks provides in-memory fakes of the store interfaces for tests.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/splashpad/lesson-api/internal/domain"
	"github.com/splashpad/lesson-api/internal/store"
)

// FakeContentStore is an in-memory store.ContentStore.
type FakeContentStore struct {
	mu       sync.Mutex
	nextID   int64
	entities map[int64]*domain.Entity
	fields   map[int64]map[string]any

	// FailSetField, when set, makes SetField on that key return the error.
	FailSetField map[string]error
}

// NewFakeContentStore creates an empty in-memory content store.
func NewFakeContentStore() *FakeContentStore {
	return &FakeContentStore{
		nextID:   1,
		entities: map[int64]*domain.Entity{},
		fields:   map[int64]map[string]any{},
	}
}

var _ store.ContentStore = (*FakeContentStore)(nil)

// Seed inserts an entity with the given fields and returns its ID.
func (f *FakeContentStore) Seed(t domain.EntityType, title string, fields map[string]any) int64 {
	entity, _ := f.CreateEntity(context.Background(), t, title, fields)
	return entity.ID
}

func (f *FakeContentStore) CreateEntity(
	_ context.Context,
	entityType domain.EntityType,
	title string,
	fields map[string]any,
) (*domain.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entity := &domain.Entity{
		ID:        f.nextID,
		Type:      entityType,
		Title:     title,
		Status:    domain.EntityStatusPublish,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.nextID++
	f.entities[entity.ID] = entity

	f.fields[entity.ID] = map[string]any{}
	for k, v := range fields {
		f.fields[entity.ID][k] = v
	}
	return entity, nil
}

func (f *FakeContentStore) GetEntity(_ context.Context, id int64) (*domain.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entity, ok := f.entities[id]
	if !ok {
		return nil, store.ErrEntityNotFound
	}
	cp := *entity
	return &cp, nil
}

func (f *FakeContentStore) ListEntities(_ context.Context, entityType domain.EntityType) ([]*domain.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, 0, len(f.entities))
	for id, e := range f.entities {
		if e.Type == entityType && e.Status == domain.EntityStatusPublish {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*domain.Entity, 0, len(ids))
	for _, id := range ids {
		cp := *f.entities[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *FakeContentStore) UpdateTitle(_ context.Context, id int64, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entity, ok := f.entities[id]
	if !ok {
		return store.ErrEntityNotFound
	}
	entity.Title = title
	entity.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *FakeContentStore) SetField(_ context.Context, id int64, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.FailSetField[key]; ok {
		return err
	}
	if _, ok := f.entities[id]; !ok {
		return store.ErrEntityNotFound
	}
	f.fields[id][key] = value
	return nil
}

func (f *FakeContentStore) GetFields(_ context.Context, id int64) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := map[string]any{}
	for k, v := range f.fields[id] {
		out[k] = v
	}
	return out, nil
}

func (f *FakeContentStore) DeleteEntity(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entities[id]; !ok {
		return store.ErrEntityNotFound
	}
	delete(f.entities, id)
	delete(f.fields, id)
	return nil
}

// Field returns a stored field value directly, for assertions.
func (f *FakeContentStore) Field(id int64, key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[id][key]
}

type contentSnapshot struct {
	nextID   int64
	entities map[int64]domain.Entity
	fields   map[int64]map[string]any
}

func (f *FakeContentStore) snapshot() contentSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := contentSnapshot{
		nextID:   f.nextID,
		entities: make(map[int64]domain.Entity, len(f.entities)),
		fields:   make(map[int64]map[string]any, len(f.fields)),
	}
	for id, e := range f.entities {
		snap.entities[id] = *e
	}
	for id, fields := range f.fields {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		snap.fields[id] = cp
	}
	return snap
}

func (f *FakeContentStore) restore(snap contentSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID = snap.nextID
	f.entities = make(map[int64]*domain.Entity, len(snap.entities))
	for id, e := range snap.entities {
		cp := e
		f.entities[id] = &cp
	}
	f.fields = make(map[int64]map[string]any, len(snap.fields))
	for id, fields := range snap.fields {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		f.fields[id] = cp
	}
}

// FakeTaxonomyStore is an in-memory store.TaxonomyStore.
type FakeTaxonomyStore struct {
	mu           sync.Mutex
	nextID       int64
	terms        map[int64]domain.Term
	associations map[int64]map[int64]bool // entityID -> termID set
}

// NewFakeTaxonomyStore creates an empty in-memory taxonomy store.
func NewFakeTaxonomyStore() *FakeTaxonomyStore {
	return &FakeTaxonomyStore{
		nextID:       1,
		terms:        map[int64]domain.Term{},
		associations: map[int64]map[int64]bool{},
	}
}

var _ store.TaxonomyStore = (*FakeTaxonomyStore)(nil)

// SeedTerm inserts a term and returns its ID.
func (f *FakeTaxonomyStore) SeedTerm(dimension, name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.terms[id] = domain.Term{ID: id, Dimension: dimension, Name: name}
	return id
}

// Associate attaches a term to an entity directly, for test setup.
func (f *FakeTaxonomyStore) Associate(entityID, termID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.associations[entityID] == nil {
		f.associations[entityID] = map[int64]bool{}
	}
	f.associations[entityID][termID] = true
}

func (f *FakeTaxonomyStore) ListTerms(_ context.Context, dimension string) ([]domain.Term, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []domain.Term{}
	for _, t := range f.terms {
		if t.Dimension == dimension {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *FakeTaxonomyStore) GetAssociations(_ context.Context, entityID int64, dimension string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := []int64{}
	for termID := range f.associations[entityID] {
		if t, ok := f.terms[termID]; ok && t.Dimension == dimension {
			ids = append(ids, termID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *FakeTaxonomyStore) ReplaceAssociations(
	_ context.Context,
	entityID int64,
	dimension string,
	termIDs []int64,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.associations[entityID] == nil {
		f.associations[entityID] = map[int64]bool{}
	}
	for termID := range f.associations[entityID] {
		if t, ok := f.terms[termID]; ok && t.Dimension == dimension {
			delete(f.associations[entityID], termID)
		}
	}
	for _, termID := range termIDs {
		if t, ok := f.terms[termID]; ok && t.Dimension == dimension {
			f.associations[entityID][termID] = true
		}
	}
	return nil
}

type taxonomySnapshot struct {
	nextID       int64
	terms        map[int64]domain.Term
	associations map[int64]map[int64]bool
}

func (f *FakeTaxonomyStore) snapshot() taxonomySnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := taxonomySnapshot{
		nextID:       f.nextID,
		terms:        make(map[int64]domain.Term, len(f.terms)),
		associations: make(map[int64]map[int64]bool, len(f.associations)),
	}
	for id, t := range f.terms {
		snap.terms[id] = t
	}
	for entityID, set := range f.associations {
		cp := make(map[int64]bool, len(set))
		for termID := range set {
			cp[termID] = true
		}
		snap.associations[entityID] = cp
	}
	return snap
}

func (f *FakeTaxonomyStore) restore(snap taxonomySnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID = snap.nextID
	f.terms = make(map[int64]domain.Term, len(snap.terms))
	for id, t := range snap.terms {
		f.terms[id] = t
	}
	f.associations = make(map[int64]map[int64]bool, len(snap.associations))
	for entityID, set := range snap.associations {
		cp := make(map[int64]bool, len(set))
		for termID := range set {
			cp[termID] = true
		}
		f.associations[entityID] = cp
	}
}

// FakeTxRunner implements store.TxRunner over the fakes. Both stores are
// snapshotted before fn runs and restored when fn returns an error, so tests
// can assert that a failed multi-write leaves no partial state behind.
type FakeTxRunner struct {
	Content  *FakeContentStore
	Taxonomy *FakeTaxonomyStore
}

var _ store.TxRunner = (*FakeTxRunner)(nil)

func (r *FakeTxRunner) InTransaction(
	ctx context.Context,
	fn func(ctx context.Context, s store.Stores) error,
) error {
	contentSnap := r.Content.snapshot()
	taxonomySnap := r.Taxonomy.snapshot()

	err := fn(ctx, store.Stores{Content: r.Content, Taxonomy: r.Taxonomy})
	if err != nil {
		r.Content.restore(contentSnap)
		r.Taxonomy.restore(taxonomySnap)
	}
	return err
}

// FakeUserStore is an in-memory store.UserStore.
type FakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

// NewFakeUserStore creates an empty in-memory user store.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: map[uuid.UUID]*domain.User{}}
}

var _ store.UserStore = (*FakeUserStore)(nil)

func (f *FakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	if user.Password != "" {
		// Tests never verify against the fake's "hash".
		user.HashedPassword = "fake-hash:" + user.Password
		user.Password = ""
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *FakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *FakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}
