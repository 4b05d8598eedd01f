// Package sqlite implements the roster repo interfaces using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sagarc03/roster"
)

type repo struct {
	q Queryer
}

// NewUserRepo returns a UserRepo that runs every statement on q, normally
// the *sql.Tx of the current session.
func NewUserRepo(q Queryer) roster.UserRepo {
	return &repo{q: q}
}

func (r *repo) Create(ctx context.Context, u roster.CreateUser) (int64, error) {
	query := `INSERT INTO users (name, fullname, nickname) VALUES (?, ?, ?)`

	result, err := r.q.ExecContext(ctx, query, u.Name, u.Fullname, u.Nickname)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create: last insert id: %w", err)
	}

	return id, nil
}

func (r *repo) Get(ctx context.Context, id int64) (roster.User, error) {
	query := `SELECT id, name, fullname, nickname FROM users WHERE id = ?`

	var u roster.User
	err := r.q.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Fullname, &u.Nickname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.User{}, roster.ErrNotFound
		}
		return roster.User{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", roster.ErrNotFound)
	}

	return nil
}
