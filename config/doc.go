// Package config provides configuration loading and validation for roster.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (ROSTER_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with ROSTER_ prefix:
//   - server.port → ROSTER_SERVER_PORT
//   - database.sqlite_path → ROSTER_DATABASE_SQLITE_PATH
//   - database.server.host → ROSTER_DATABASE_SERVER_HOST
//   - client.endpoint → ROSTER_CLIENT_ENDPOINT
//
// ROSTER_TEST_MODE, ROSTER_TEST_DSN and ROSTER_DATABASE_{NAME,USER,PASSWORD,HOST}
// belong to database.Environment and are read by database.LoadEnvironment,
// not by Load.
//
// # Validation
//
//   - Port must be 1-65535
//   - Env must be dev or prod
//   - Timeouts must be positive
//   - Log level must be debug, info, warn, or error
//   - Client endpoint must be an absolute URL
package config
