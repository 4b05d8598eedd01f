// Package roster provides the domain layer of a small versioned user service
// backed by a relational store.
//
// Roster exposes create, get and delete operations on user records. Every
// operation runs inside a transactional session obtained from a
// SessionProvider, so the service never touches a connection directly.
//
// # Key Components
//
//   - UserService: create/get/delete on top of a SessionProvider
//   - SessionProvider: hands out one transactional Session per unit of work
//   - Session: exposes the UserRepo bound to the current transaction
//   - UserRepo: record persistence (SQLite, PostgreSQL)
//
// # Example Usage
//
//	mgr, err := database.Open(ctx, desc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Close()
//
//	service := roster.NewUserService(mgr)
//
//	user, err := service.Create(ctx, roster.CreateUser{
//	    Name:     "John",
//	    Fullname: "John Doe",
//	    Nickname: "johnny",
//	})
//
// See the database package for the connection and session manager and the
// http package for the REST API.
package roster
