package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/roster/config"
	"github.com/sagarc03/roster/database"
)

// openManager resolves the connection from cfg and the process environment
// and connects within cfg.Database.ConnectTimeout. The caller must Close the
// returned Manager.
func openManager(ctx context.Context, cfg *config.Config, opts ...database.Option) (*database.Manager, error) {
	env, err := database.LoadEnvironment()
	if err != nil {
		return nil, err
	}

	opts = append([]database.Option{
		database.WithLogger(slog.Default()),
		database.WithPool(cfg.Database.Pool),
	}, opts...)

	mgr, err := database.NewFromConfig(cfg.Database.Options(), env, opts...)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	if _, err := mgr.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return mgr, nil
}
