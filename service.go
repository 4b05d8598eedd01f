package roster

import (
	"context"
	"errors"
	"fmt"
)

// UserService implements the user operations exposed by the API.
type UserService struct {
	sessions SessionProvider
}

func NewUserService(sessions SessionProvider) (*UserService, error) {
	if sessions == nil {
		return nil, errors.New("new user service: session provider is required")
	}
	return &UserService{sessions: sessions}, nil
}

// Create inserts a user and reads it back by its generated id.
//
// The insert runs in its own session so that the row is committed before it
// is read back from a second session. If the read-back finds nothing the
// call fails with ErrInternal, never ErrNotFound.
//
// Error types returned:
//   - ErrInvalidInput: a field is missing or too long
//   - ErrInternal: the inserted row could not be read back
//   - context.Canceled or context.DeadlineExceeded: Context was cancelled
//   - Wrapped session errors: insert or commit failures
func (s *UserService) Create(ctx context.Context, in CreateUser) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	if err := in.Validate(); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	var id int64
	err := s.sessions.Session(ctx, func(sess Session) error {
		var createErr error
		id, createErr = sess.Users().Create(ctx, in)
		return createErr
	})
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	var u User
	err = s.sessions.Session(ctx, func(sess Session) error {
		var getErr error
		u, getErr = sess.Users().Get(ctx, id)
		return getErr
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("create user %d: %w: record missing after insert", id, ErrInternal)
	}
	if err != nil {
		return User{}, fmt.Errorf("create user %d: read back: %w", id, err)
	}

	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}

	var u User
	err := s.sessions.Session(ctx, func(sess Session) error {
		var getErr error
		u, getErr = sess.Users().Get(ctx, id)
		return getErr
	})
	if err != nil {
		return User{}, fmt.Errorf("get user %d: %w", id, err)
	}

	return u, nil
}

// Delete removes a user and returns the values it had just before removal.
// Lookup and removal share one session, so a concurrent delete of the same
// id surfaces as ErrNotFound rather than a partial result.
func (s *UserService) Delete(ctx context.Context, id int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("delete user: %w", err)
	}

	var u User
	err := s.sessions.Session(ctx, func(sess Session) error {
		repo := sess.Users()

		var getErr error
		u, getErr = repo.Get(ctx, id)
		if getErr != nil {
			return getErr
		}

		return repo.Delete(ctx, id)
	})
	if err != nil {
		return User{}, fmt.Errorf("delete user %d: %w", id, err)
	}

	return u, nil
}
