// Package repository implements the SurrealDB data access layer for the Roster API.
//
// Each repository struct handles one record type (player, team, contract,
// account) and satisfies the matching interface declared in the service
// package. The GORM implementation of the same interfaces lives in
// internal/sqlstore.
//
// # Record IDs
//
// IDs are SurrealDB record ids ("player:abc"). Lookups also accept the bare
// key ("abc"); an id naming another table is treated as absent, so GetByID
// returns (nil, nil) for it. Contract player and team references are stored
// as record links and read back as "table:key" strings.
//
// # Optimistic Concurrency
//
// Every versioned record carries a version field starting at 1. Updates run
//
//	UPDATE type::record($id) SET ..., version += 1 WHERE version = $version
//
// and an empty result is resolved into database.ErrNotFound or
// database.ErrVersionMismatch with a follow-up existence check.
//
// # Guarded Deletes
//
// Player and team deletes count referencing contracts and THROW inside the
// same transaction as the DELETE, so a contract created concurrently cannot
// slip past the check. The thrown message carries database.ReferencedMarker
// and surfaces as database.ErrReferenced.
//
// # Decoding
//
// Rows are normalized (record ids to strings, datetimes to time.Time, NONE
// dropped) and decoded through the model's JSON tags.
package repository
