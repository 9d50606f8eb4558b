// Package store provides abstractions and implementations for data persistence.
// It defines the interfaces that the service and API layers depend on, the
// sentinel errors shared by all implementations, and transaction helpers.
package store
