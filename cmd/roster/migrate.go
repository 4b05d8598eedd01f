package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/roster/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply all pending migrations and check the resulting schema.
Running it on an up to date database changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	mgr, err := openManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	versions, err := mgr.Migrate(ctx)
	if err != nil {
		return err
	}

	if err := mgr.Validate(ctx); err != nil {
		return fmt.Errorf("validate database schema: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(versions) == 0 {
		_, _ = fmt.Fprintln(out, "schema is up to date")
		return nil
	}
	for _, v := range versions {
		_, _ = fmt.Fprintf(out, "applied %05d\n", v)
	}
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	mgr, err := openManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	statuses, err := mgr.MigrationStatus(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range statuses {
		state, appliedAt := "pending", "-"
		if s.Applied {
			state = "applied"
			appliedAt = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		_, _ = fmt.Fprintf(tw, "%05d\t%s\t%s\t%s\n", s.Version, state, appliedAt, s.Path)
	}
	return tw.Flush()
}
