// Package postgres implements the roster repo interfaces using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sagarc03/roster"
)

type repo struct {
	q Queryer
}

// NewUserRepo returns a UserRepo that runs every statement on q, normally
// the pgx.Tx of the current session.
func NewUserRepo(q Queryer) roster.UserRepo {
	return &repo{q: q}
}

func (r *repo) Create(ctx context.Context, u roster.CreateUser) (int64, error) {
	query := `INSERT INTO users (name, fullname, nickname) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.q.QueryRow(ctx, query, u.Name, u.Fullname, u.Nickname).Scan(&id); err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	return id, nil
}

func (r *repo) Get(ctx context.Context, id int64) (roster.User, error) {
	query := `SELECT id, name, fullname, nickname FROM users WHERE id = $1`

	var u roster.User
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Fullname, &u.Nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.User{}, roster.ErrNotFound
		}
		return roster.User{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", roster.ErrNotFound)
	}

	return nil
}
