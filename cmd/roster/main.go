package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sagarc03/roster"
	"github.com/sagarc03/roster/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version:       version,
	Use:           "roster",
	Short:         roster.APITitle,
	Long:          roster.APIDescription,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(cmd); err != nil {
			return err
		}

		files, _ := cmd.Flags().GetStringSlice("config")
		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("sqlite-path", "", "SQLite database path (env: ROSTER_DATABASE_SQLITE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: ROSTER_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("env", "", "runtime environment: dev, prod (env: ROSTER_ENV)")
}

// loadDotEnv loads the dotenv file into the process environment without
// overriding variables that are already set. A missing default file is
// ignored; a missing file named explicitly is an error.
func loadDotEnv(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// exitError is returned when the command already reported its failure and
// only the exit code is left to set.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

var errDeleteFailed = &exitError{code: 1}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
