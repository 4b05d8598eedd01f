package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/roster"
	"github.com/sagarc03/roster/database/postgres"
	"github.com/sagarc03/roster/database/sqlite"
)

// engine is the pooled handle behind a connected Manager.
type engine interface {
	ping(ctx context.Context) error
	begin(ctx context.Context) (txn, error)
	migrate(ctx context.Context) ([]int64, error)
	status(ctx context.Context) ([]MigrationStatus, error)
	validate(ctx context.Context) error
	close() error
	handle() any
}

// txn is one open transaction.
type txn interface {
	users() roster.UserRepo
	exec(ctx context.Context, query string, args ...any) error
	commit(ctx context.Context) error
	rollback(ctx context.Context) error
}

func openEngine(ctx context.Context, desc Descriptor, pc PoolConfig) (engine, error) {
	switch desc.Backend {
	case BackendSQLite:
		db, err := sqlite.Open(ctx, desc.DSN, int(pc.MaxConns))
		if err != nil {
			return nil, err
		}
		return &sqliteEngine{db: db}, nil
	case BackendPostgres:
		pool, err := postgres.Open(ctx, desc.DSN, pc.postgres())
		if err != nil {
			return nil, err
		}
		return &postgresEngine{pool: pool}, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %q", desc.Backend)
	}
}

// isTxDone reports whether err only says the transaction already ended.
func isTxDone(err error) bool {
	return errors.Is(err, sql.ErrTxDone) || errors.Is(err, pgx.ErrTxClosed)
}

type sqliteEngine struct {
	db *sql.DB
}

func (e *sqliteEngine) ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// begin reserves a connection for the transaction so a failed COMMIT can
// be cleaned up on the same connection.
func (e *sqliteEngine) begin(ctx context.Context) (txn, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &sqliteTxn{conn: conn, tx: tx}, nil
}

func (e *sqliteEngine) migrate(ctx context.Context) ([]int64, error) {
	results, err := sqlite.Migrate(ctx, e.db)
	return appliedVersions(results), err
}

func (e *sqliteEngine) status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := sqlite.MigrationStatus(ctx, e.db)
	if err != nil {
		return nil, err
	}
	return toStatuses(statuses), nil
}

func (e *sqliteEngine) validate(ctx context.Context) error {
	return sqlite.ValidateSchema(ctx, e.db)
}

func (e *sqliteEngine) close() error {
	return e.db.Close()
}

func (e *sqliteEngine) handle() any {
	return e.db
}

type sqliteTxn struct {
	conn         *sql.Conn
	tx           *sql.Tx
	commitFailed bool
}

func (t *sqliteTxn) users() roster.UserRepo {
	return sqlite.NewUserRepo(t.tx)
}

func (t *sqliteTxn) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqliteTxn) commit(context.Context) error {
	err := t.tx.Commit()
	if err != nil {
		t.commitFailed = true
	}
	return err
}

// rollback ends the transaction and returns the connection to the pool.
// database/sql marks the Tx done even when COMMIT fails, but SQLite keeps
// the transaction open, so after a failed commit ROLLBACK is sent on the
// connection directly. A connection that cannot be rolled back is
// discarded.
func (t *sqliteTxn) rollback(ctx context.Context) error {
	if t.conn == nil {
		return sql.ErrTxDone
	}
	conn := t.conn
	t.conn = nil
	defer func() { _ = conn.Close() }()

	err := t.tx.Rollback()
	if !t.commitFailed {
		return err
	}

	if _, rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil && !strings.Contains(rbErr.Error(), "no transaction is active") {
		_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		return fmt.Errorf("rollback after failed commit: %w", rbErr)
	}
	return nil
}

type postgresEngine struct {
	pool *pgxpool.Pool
}

func (e *postgresEngine) ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

func (e *postgresEngine) begin(ctx context.Context) (txn, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &postgresTxn{tx: tx}, nil
}

func (e *postgresEngine) migrate(ctx context.Context) ([]int64, error) {
	results, err := postgres.Migrate(ctx, e.pool)
	return appliedVersions(results), err
}

func (e *postgresEngine) status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := postgres.MigrationStatus(ctx, e.pool)
	if err != nil {
		return nil, err
	}
	return toStatuses(statuses), nil
}

func (e *postgresEngine) validate(ctx context.Context) error {
	return postgres.ValidateSchema(ctx, e.pool)
}

// close blocks until every acquired connection is returned.
func (e *postgresEngine) close() error {
	e.pool.Close()
	return nil
}

func (e *postgresEngine) handle() any {
	return e.pool
}

type postgresTxn struct {
	tx pgx.Tx
}

func (t *postgresTxn) users() roster.UserRepo {
	return postgres.NewUserRepo(t.tx)
}

func (t *postgresTxn) exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.Exec(ctx, query, args...)
	return err
}

func (t *postgresTxn) commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *postgresTxn) rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
