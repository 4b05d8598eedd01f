package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/roster/database"
	rosterhttp "github.com/sagarc03/roster/http"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "ROSTER"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for roster.
type Config struct {
	Env      string         `mapstructure:"env" yaml:"env" validate:"required,oneof=dev prod"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	CORS     CORSConfig     `mapstructure:"cors" yaml:"cors"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Client   ClientConfig   `mapstructure:"client" yaml:"client"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig holds the explicit connection options and engine tuning.
//
// The ROSTER_TEST_MODE, ROSTER_TEST_DSN and ROSTER_DATABASE_{NAME,USER,PASSWORD,HOST}
// variables are not read here; database.LoadEnvironment reads them.
type DatabaseConfig struct {
	SQLitePath     string              `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	Server         DatabaseServer      `mapstructure:"server" yaml:"server"`
	AutoMigrate    bool                `mapstructure:"auto_migrate" yaml:"auto_migrate"`
	ConnectTimeout time.Duration       `mapstructure:"connect_timeout" yaml:"connect_timeout" validate:"gt=0"`
	Pool           database.PoolConfig `mapstructure:"pool" yaml:"pool"`
}

// DatabaseServer names a networked database explicitly.
type DatabaseServer struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Name     string `mapstructure:"name" yaml:"name"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
}

// Options returns the explicit connection options for database.Resolve.
func (d DatabaseConfig) Options() database.Options {
	return database.Options{
		SQLitePath: d.SQLitePath,
		Host:       d.Server.Host,
		Name:       d.Server.Name,
		User:       d.Server.User,
		Password:   d.Server.Password,
	}
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age" validate:"gte=0"`
}

// HTTP converts c for the http package.
func (c CORSConfig) HTTP() rosterhttp.CORSConfig {
	return rosterhttp.CORSConfig{
		Enabled:          c.Enabled,
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   c.ExposedHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
}

// ClientConfig is used by the user subcommands to reach a running server.
type ClientConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// Redacted returns a copy of c with secrets masked, for display.
func (c Config) Redacted() Config {
	if c.Database.Server.Password != "" {
		c.Database.Server.Password = "********"
	}
	return c
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":        "server.port",
	"sqlite-path": "database.sqlite_path",
	"migrate":     "database.auto_migrate",
	"log-level":   "log.level",
	"env":         "env",
	"endpoint":    "client.endpoint",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. Every key
// gets a default so AutomaticEnv can see it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.sqlite_path", "")
	v.SetDefault("database.server.host", "")
	v.SetDefault("database.server.name", "")
	v.SetDefault("database.server.user", "")
	v.SetDefault("database.server.password", "")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.pool.max_conns", 0)
	v.SetDefault("database.pool.min_conns", 0)
	v.SetDefault("database.pool.max_conn_lifetime", 0)
	v.SetDefault("database.pool.max_conn_idle_time", 0)
	v.SetDefault("database.pool.health_check_period", 0)

	cors := rosterhttp.DefaultCORSConfig()
	v.SetDefault("cors.enabled", cors.Enabled)
	v.SetDefault("cors.allowed_origins", cors.AllowedOrigins)
	v.SetDefault("cors.allowed_methods", cors.AllowedMethods)
	v.SetDefault("cors.allowed_headers", cors.AllowedHeaders)
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", cors.AllowCredentials)
	v.SetDefault("cors.max_age", cors.MaxAge)

	v.SetDefault("log.level", "info")

	v.SetDefault("client.endpoint", "http://localhost:8080")
	v.SetDefault("client.timeout", 30*time.Second)
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
