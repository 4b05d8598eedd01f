package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce      sync.Once
	pgErr       error
	pgHost      string
	testCleanup func()
)

const (
	pgName     = "testdb"
	pgUser     = "testuser"
	pgPassword = "testpass"
)

// getSharedPostgres starts one PostgreSQL container for the run and returns
// its host:port. The container is terminated in TestMain.
func getSharedPostgres(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres e2e in short mode")
	}

	pgOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase(pgName),
			pgcontainer.WithUsername(pgUser),
			pgcontainer.WithPassword(pgPassword),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = err
			return
		}

		testCleanup = func() {
			_ = testcontainers.TerminateContainer(pgContainer)
		}

		host, err := pgContainer.Host(ctx)
		if err != nil {
			pgErr = err
			return
		}
		port, err := pgContainer.MappedPort(ctx, "5432/tcp")
		if err != nil {
			pgErr = err
			return
		}

		pgHost = host + ":" + port.Port()
	})

	if pgErr != nil {
		t.Fatalf("failed to start postgres container: %v", pgErr)
	}

	return pgHost
}
