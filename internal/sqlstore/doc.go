// Package sqlstore is the GORM-backed alternative to the SurrealDB
// repositories, selected with DB_DRIVER=postgres or DB_DRIVER=sqlite.
//
// The repositories satisfy the same service interfaces and report the same
// database.Err* sentinels, so services cannot tell the stores apart:
//
//   - versioned writes use UPDATE ... WHERE id = ? AND version = ?, and a
//     zero row count is resolved into ErrNotFound or ErrVersionMismatch
//   - player and team deletes count referencing contracts inside the delete
//     transaction; the contracts foreign keys are ON DELETE RESTRICT as well
//   - players.account_id carries a unique index
//
// IDs are random UUID strings. Schema is created with AutoMigrate.
package sqlstore
