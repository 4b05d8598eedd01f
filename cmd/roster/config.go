package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/roster/config"
	"github.com/sagarc03/roster/database"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, files, environment and flags
are merged, followed by the database the service would connect to.
Passwords are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

type effectiveConfig struct {
	Config   config.Config `yaml:"config"`
	Resolved string        `yaml:"resolved_database"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	out := effectiveConfig{Config: cfg.Redacted()}

	env, err := database.LoadEnvironment()
	if err != nil {
		return err
	}
	desc, err := database.Resolve(cfg.Database.Options(), env)
	if err != nil {
		out.Resolved = "error: " + err.Error()
	} else {
		out.Resolved = desc.String()
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
