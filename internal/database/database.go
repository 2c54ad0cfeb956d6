package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrVersionMismatch indicates an optimistic concurrency check failed:
	// the stored version differs from the one the caller read.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrReferenced indicates a delete was refused because other records
	// still reference the target.
	ErrReferenced = errors.New("record is referenced")

	// ErrMissingReference indicates a write linked to a record that does
	// not exist. The concrete error is a *MissingReferenceError.
	ErrMissingReference = errors.New("linked record does not exist")
)

// ReferencedMarker prefixes errors thrown inside guarded delete transactions.
// Query maps any statement error carrying it to ErrReferenced.
const ReferencedMarker = "referenced:"

// MissingReferenceMarker prefixes errors thrown by link guards. The field
// name follows the marker.
const MissingReferenceMarker = "missing-reference:"

// MissingReferenceError names the link field whose target was absent
type MissingReferenceError struct {
	Field string
}

func (e *MissingReferenceError) Error() string {
	return ErrMissingReference.Error() + ": " + e.Field
}

// Is matches ErrMissingReference
func (e *MissingReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
