package store

import "context"

// Stores bundles the content and taxonomy stores bound to a single database
// handle, so a multi-field update can run against one transaction.
type Stores struct {
	Content  ContentStore
	Taxonomy TaxonomyStore
}

// TxRunner executes a function against transaction-bound stores. The
// transaction commits when fn returns nil and rolls back otherwise, making
// multi-field writes atomic.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
