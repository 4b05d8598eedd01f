package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sagarc03/roster"
	"github.com/sagarc03/roster/config"
	"github.com/sagarc03/roster/database"
	rosterhttp "github.com/sagarc03/roster/http"
	"github.com/sagarc03/roster/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the roster HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port (env: ROSTER_SERVER_PORT)")
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving (env: ROSTER_DATABASE_AUTO_MIGRATE)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	mgr, err := openManager(ctx, cfg, database.WithSessionObserver(func(o database.SessionOutcome) {
		m.ObserveSession(string(o))
	}))
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	if cfg.Database.AutoMigrate {
		if _, err = mgr.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		slog.Info("database migration complete")
	}

	if err = mgr.Validate(ctx); err != nil {
		return fmt.Errorf("validate database schema: %w", err)
	}

	service, err := roster.NewUserService(mgr)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	handler := rosterhttp.NewHandler(&rosterhttp.HandlerConfig{
		CORS:     cfg.CORS.HTTP(),
		Logger:   slog.Default(),
		Health:   mgr,
		Observer: m,
		Metrics:  m.Handler(),
	}, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "database", mgr.Descriptor().String())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
