package roster

import "context"

// UserRepo defines persistence for user records. An implementation is bound
// to a single transaction and must not be used after its Session ends.
//
// All methods accept a context for cancellation and timeout control.
type UserRepo interface {
	// Create inserts a new user and returns its generated primary key.
	// The key is only visible to other sessions once the owning session
	// has committed.
	Create(ctx context.Context, u CreateUser) (int64, error)

	// Get retrieves a user by primary key.
	//
	// Returns:
	//   - User: The user if found
	//   - error: ErrNotFound if no user has that id, or other database errors
	Get(ctx context.Context, id int64) (User, error)

	// Delete removes a user by primary key.
	//
	// Returns:
	//   - error: ErrNotFound if no user has that id, or other database errors
	Delete(ctx context.Context, id int64) error
}

// Session is a transactional unit of work. It is owned by exactly one caller
// for the lifetime of the callback it was handed to.
type Session interface {
	// Users returns the user repository bound to this session's transaction.
	Users() UserRepo

	// Exec runs a raw statement inside this session's transaction.
	Exec(ctx context.Context, query string, args ...any) error
}

// SessionProvider runs fn inside a fresh Session. The session is committed
// when fn returns nil and rolled back otherwise; the error returned by fn is
// always propagated.
type SessionProvider interface {
	Session(ctx context.Context, fn func(Session) error) error
}
