package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsPanicOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresContentStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresTaxonomyStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresUserStore(nil, 10, nil) })
	assert.Panics(t, func() { NewTxRunner(nil, nil) })
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgForeignKeyViolationCode}))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: pgForeignKeyViolationCode}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	assert.False(t, isForeignKeyViolation(errors.New("plain error")))
}
