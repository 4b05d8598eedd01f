package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sagarc03/roster/database/sqlite"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a private in-memory database. When migrate is set the
// users table is created.
func openTestDB(t *testing.T, migrate bool) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, ":memory:", 0)
	require.NoError(t, err, "open")
	t.Cleanup(func() { _ = db.Close() })

	if migrate {
		_, err = sqlite.Migrate(ctx, db)
		require.NoError(t, err, "migrate")
	}

	return db
}

// inTx runs fn inside a transaction that is always rolled back.
func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin")
	defer func() { _ = tx.Rollback() }()

	fn(tx)
}
