// Package postgres contains the PostgreSQL implementations of the store
// interfaces. Every store accepts a store.DBTX so it can run against either a
// connection pool or a transaction.
package postgres
