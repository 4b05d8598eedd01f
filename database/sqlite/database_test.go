package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sagarc03/roster/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "memory",
			path: ":memory:",
			want: "file::memory:?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=temp_store(MEMORY)",
		},
		{
			name: "file",
			path: "/tmp/roster.db",
			want: "file:/tmp/roster.db?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate",
		},
		{
			name: "query string kept",
			path: "file:/tmp/roster.db?mode=ro",
			want: "file:/tmp/roster.db?mode=ro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlite.BuildDSN(tt.path))
		})
	}
}

func TestIsMemory(t *testing.T) {
	assert.True(t, sqlite.IsMemory(":memory:"))
	assert.True(t, sqlite.IsMemory("file::memory:?cache=shared"))
	assert.False(t, sqlite.IsMemory("/tmp/memory.db"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory - single connection", func(t *testing.T) {
		db, err := sqlite.Open(ctx, ":memory:", 10)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})

	t.Run("file - creates database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.db")

		db, err := sqlite.Open(ctx, path, 4)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		assert.Equal(t, 4, db.Stats().MaxOpenConnections)
		assert.FileExists(t, path)
	})

	t.Run("error - directory does not exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "roster.db")

		db, err := sqlite.Open(ctx, path, 0)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("success - creates users table", func(t *testing.T) {
		db := openTestDB(t, false)

		results, err := sqlite.Migrate(ctx, db)
		require.NoError(t, err)
		assert.Len(t, results, 1)

		assert.NoError(t, sqlite.ValidateSchema(ctx, db))
	})

	t.Run("idempotent - second run applies nothing", func(t *testing.T) {
		db := openTestDB(t, true)

		results, err := sqlite.Migrate(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, results)

		// The database must still be usable after migrating.
		assert.NoError(t, db.PingContext(ctx))
	})

	t.Run("status", func(t *testing.T) {
		db := openTestDB(t, false)

		statuses, err := sqlite.MigrationStatus(ctx, db)
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, "pending", string(statuses[0].State))

		_, err = sqlite.Migrate(ctx, db)
		require.NoError(t, err)

		statuses, err = sqlite.MigrationStatus(ctx, db)
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, "applied", string(statuses[0].State))
	})
}

func TestValidateSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("error - table missing", func(t *testing.T) {
		db := openTestDB(t, false)

		err := sqlite.ValidateSchema(ctx, db)
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("error - column mismatch", func(t *testing.T) {
		db := openTestDB(t, false)

		_, err := db.ExecContext(ctx, `CREATE TABLE users (
			id INTEGER NOT NULL PRIMARY KEY,
			name TEXT,
			fullname TEXT NOT NULL
		)`)
		require.NoError(t, err)

		err = sqlite.ValidateSchema(ctx, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing columns: nickname")
		assert.Contains(t, err.Error(), "name: expected nullable=false, got nullable=true")
	})
}
