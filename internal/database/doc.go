// Package database provides storage connectivity for the Roster API.
//
// The Database interface abstracts SurrealDB, the default document store.
// Repositories in internal/repository are written against it; the GORM-backed
// SQL store in internal/sqlstore is the alternative selected by DB_DRIVER.
//
// # Interface Design
//
//   - Query: returns one {status, result} entry per statement
//   - Execute: no return value (for mutations)
//
// # Transactions
//
// Transactions are BATCH-BASED. TxBuilder accumulates statements and
// ExecuteTransaction sends them wrapped in BEGIN/COMMIT TRANSACTION, so they
// succeed or fail together. There is no isolation between Add() calls.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: record does not exist
//   - ErrDuplicate: unique index violation
//   - ErrVersionMismatch: optimistic concurrency check failed
//   - ErrReferenced: guarded delete refused (a statement threw ReferencedMarker)
//   - ErrMissingReference: a linked record is gone (MissingReferenceError names the field)
//   - ErrConnection, ErrQuery: infrastructure failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrVersionMismatch) {
//	    // reload and retry
//	}
//
// # Migrations
//
// ApplyMigrations runs the embedded .surql files in lexical order. Every
// statement uses IF NOT EXISTS so startup can apply them unconditionally.
package database
