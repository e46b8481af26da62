// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests using it are guarded by the integration build tag and skip when
// FLASHDECK_TEST_DATABASE_URL is unset:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			// everything here is rolled back
//		})
//	}
package testdb
