// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests using it are skipped unless NUMINA_TEST_DATABASE_URL or
// DATABASE_URL is set. The schema is brought up with the embedded
// migrations, and ResetMatchRecords clears the match log so tests can
// start from an empty table:
//
//	func TestAppend(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.ResetMatchRecords(t, db)
//	    ...
//	}
package testdb
