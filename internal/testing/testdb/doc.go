// Package testdb provides SurrealDB test databases for repository tests.
//
// Each call to New connects to the instance named by TEST_DB_HOST (plus
// TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD), creates a unique namespace,
// and applies the embedded migrations. Tests are skipped when TEST_DB_HOST
// is unset, so the default test run needs no database.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    repo := repository.NewTeamRepository(tdb.DB)
//	    ...
//	}
//
// The namespace is removed by t.Cleanup.
package testdb
