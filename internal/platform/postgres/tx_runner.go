package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/splashpad/lesson-api/internal/store"
)

// TxRunner implements store.TxRunner by binding fresh content and taxonomy
// stores to a single database transaction.
type TxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTxRunner creates a TxRunner over the given connection pool.
// If logger is nil, a default logger will be used.
func NewTxRunner(db *sql.DB, logger *slog.Logger) *TxRunner {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TxRunner{db: db, logger: logger}
}

// Ensure TxRunner implements store.TxRunner interface
var _ store.TxRunner = (*TxRunner)(nil)

// InTransaction implements store.TxRunner.InTransaction.
func (r *TxRunner) InTransaction(
	ctx context.Context,
	fn func(ctx context.Context, s store.Stores) error,
) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, store.Stores{
			Content:  NewPostgresContentStore(tx, r.logger),
			Taxonomy: NewPostgresTaxonomyStore(tx, r.logger),
		})
	})
}
