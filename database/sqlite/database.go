package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// memoryPragmas are used for in-memory databases.
var memoryPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "temp_store", value: "MEMORY"},
}

// persistentPragmas are used for file backed databases.
var persistentPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "WAL"},
	{name: "synchronous", value: "NORMAL"},
}

// IsMemory reports whether path names an in-memory database.
func IsMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// BuildDSN turns a database path into a modernc.org/sqlite DSN carrying the
// pragmas for its kind. A path that already has a query string is returned
// unchanged so callers can manage pragmas themselves.
func BuildDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}

	var sb strings.Builder
	pragmas := persistentPragmas

	if IsMemory(path) {
		pragmas = memoryPragmas
		sb.WriteString("file::memory:")
	} else {
		sb.WriteString("file:")
		sb.WriteString(path)
	}

	for i, p := range pragmas {
		if i == 0 {
			sb.WriteString("?")
		} else {
			sb.WriteString("&")
		}
		fmt.Fprintf(&sb, "_pragma=%s(%s)", p.name, p.value)
	}

	// Take the write lock on BEGIN so read-then-write transactions on a
	// file database wait on busy_timeout instead of failing with SQLITE_BUSY.
	if !IsMemory(path) {
		sb.WriteString("&_txlock=immediate")
	}

	return sb.String()
}

// Open opens and pings a SQLite database at path.
//
// An in-memory database lives as long as its connection, so it is pinned to
// exactly one connection that is never recycled. maxConns bounds the pool of
// a file database; zero leaves the driver default.
func Open(ctx context.Context, path string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", BuildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if IsMemory(path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
