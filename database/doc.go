// Package database resolves where the user store lives, owns the connection
// to it and runs units of work as transactions.
//
// # Backends
//
//   - SQLite: embedded store via modernc.org/sqlite, on a file or in memory
//   - PostgreSQL: networked store via a pgx connection pool
//
// # Resolution
//
// Resolve turns explicit Options and the process Environment into exactly one
// Descriptor. Test mode wins over everything, then an explicit SQLite path,
// then explicit server parameters, then the environment.
//
// # Usage
//
//	env, err := database.LoadEnvironment()
//	if err != nil {
//	    return err
//	}
//
//	mgr, err := database.NewFromConfig(database.Options{}, env)
//	if err != nil {
//	    return err
//	}
//	if _, err := mgr.Connect(ctx); err != nil {
//	    return err
//	}
//	defer mgr.Close()
//
//	err = mgr.Session(ctx, func(s roster.Session) error {
//	    _, err := s.Users().Create(ctx, in)
//	    return err
//	})
//
// A session commits when its function returns nil and rolls back otherwise.
// Connect and Close are both idempotent.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL repo, migrations and schema checks using pgx
//   - database/sqlite: SQLite repo, migrations and schema checks using modernc.org/sqlite
package database
