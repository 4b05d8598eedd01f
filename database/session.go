package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/roster"
)

// session is the roster.Session handed to a unit of work.
type session struct {
	tx txn
}

func (s session) Users() roster.UserRepo {
	return s.tx.users()
}

func (s session) Exec(ctx context.Context, query string, args ...any) error {
	if err := s.tx.exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Session runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics; a panic is
// re-raised after the rollback. The transaction is always released before
// Session returns.
//
// Errors from fn, begin and commit come back as *SessionError wrapping the
// cause. Without a connection Session fails with ErrNotConnected before
// anything is begun.
//
// The roster.Session passed to fn must not be used after fn returns.
func (m *Manager) Session(ctx context.Context, fn func(roster.Session) error) error {
	m.mu.RLock()
	eng, err := m.current()
	if err != nil {
		m.mu.RUnlock()
		return fmt.Errorf("session: %w", err)
	}
	tx, err := eng.begin(ctx)
	m.mu.RUnlock()
	if err != nil {
		return &SessionError{Op: "begin", Err: err}
	}

	// Cleanup must run even when ctx is already cancelled.
	cleanupCtx := context.WithoutCancel(ctx)
	defer m.rollback(cleanupCtx, tx, "release")

	done := false
	defer func() {
		if !done {
			m.rollback(cleanupCtx, tx, "rollback")
			m.notify(SessionRollback)
		}
	}()

	err = fn(session{tx: tx})
	done = true

	if err != nil {
		m.rollback(cleanupCtx, tx, "rollback")
		m.notify(SessionRollback)
		return &SessionError{Op: "unit of work", Err: err}
	}

	if err := tx.commit(ctx); err != nil {
		m.rollback(cleanupCtx, tx, "rollback")
		m.notify(SessionCommitFailed)
		return &SessionError{Op: "commit", Err: err}
	}

	m.notify(SessionCommit)
	return nil
}

// rollback ends tx if it is still open. An already finished transaction is
// not an error; anything else is logged and dropped.
func (m *Manager) rollback(ctx context.Context, tx txn, stage string) {
	if err := tx.rollback(ctx); err != nil && !isTxDone(err) {
		m.log.Warn("session "+stage+" failed", "backend", m.desc.Backend, "error", err)
	}
}

func (m *Manager) notify(o SessionOutcome) {
	if m.observe != nil {
		m.observe(o)
	}
}
