package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sagarc03/roster/database/postgres"
)

// PoolConfig bounds the engine's connection pool. Zero values keep the
// driver defaults. For a file backed SQLite database only MaxConns applies;
// an in-memory one always uses a single connection.
type PoolConfig struct {
	MaxConns          int32         `mapstructure:"max_conns" yaml:"max_conns" validate:"gte=0"`
	MinConns          int32         `mapstructure:"min_conns" yaml:"min_conns" validate:"gte=0"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime" yaml:"max_conn_lifetime" validate:"gte=0"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time" yaml:"max_conn_idle_time" validate:"gte=0"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period" yaml:"health_check_period" validate:"gte=0"`
}

func (c PoolConfig) postgres() postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxConns:          c.MaxConns,
		MinConns:          c.MinConns,
		MaxConnLifetime:   c.MaxConnLifetime,
		MaxConnIdleTime:   c.MaxConnIdleTime,
		HealthCheckPeriod: c.HealthCheckPeriod,
	}
}

// SessionOutcome is how a session ended.
type SessionOutcome string

const (
	SessionCommit       SessionOutcome = "commit"
	SessionRollback     SessionOutcome = "rollback"
	SessionCommitFailed SessionOutcome = "commit_failed"
)

// Option configures a Manager.
type Option func(*Manager)

// WithTestMode makes Connect create the schema right after the engine is
// allocated.
func WithTestMode(on bool) Option {
	return func(m *Manager) { m.testMode = on }
}

// WithLogger sets the logger used for lifecycle events. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithPool sets the pool bounds passed to the engine.
func WithPool(pc PoolConfig) Option {
	return func(m *Manager) { m.pool = pc }
}

// WithSessionObserver registers fn to be told how every session ended.
// fn must not block.
func WithSessionObserver(fn func(SessionOutcome)) Option {
	return func(m *Manager) { m.observe = fn }
}

// Manager owns at most one engine for a single Descriptor and hands out
// transactional sessions on it.
//
// The zero value is not usable; create one with New, NewFromConfig or Open.
// A Manager is safe for concurrent use.
type Manager struct {
	desc     Descriptor
	testMode bool
	pool     PoolConfig
	log      *slog.Logger
	observe  func(SessionOutcome)

	mu     sync.RWMutex
	engine engine
}

// New returns a disconnected Manager for desc.
func New(desc Descriptor, opts ...Option) *Manager {
	m := &Manager{
		desc: desc,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromConfig resolves a Descriptor from opts and e and returns a
// disconnected Manager for it. Test mode follows e.TestMode.
func NewFromConfig(opts Options, e Environment, mopts ...Option) (*Manager, error) {
	desc, err := Resolve(opts, e)
	if err != nil {
		return nil, fmt.Errorf("new manager: %w", err)
	}

	return New(desc, append([]Option{WithTestMode(e.TestMode)}, mopts...)...), nil
}

// Open creates a Manager for desc and connects it. Nothing is left open when
// it fails.
func Open(ctx context.Context, desc Descriptor, opts ...Option) (*Manager, error) {
	m := New(desc, opts...)
	if _, err := m.Connect(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Descriptor returns the descriptor the Manager was built with.
func (m *Manager) Descriptor() Descriptor {
	return m.desc
}

// TestMode reports whether Connect creates the schema.
func (m *Manager) TestMode() bool {
	return m.testMode
}

// Connected reports whether an engine is currently allocated.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine != nil
}

// Connect allocates and pings the engine. It does nothing if the Manager is
// already connected, so calling it twice keeps the same engine. In test mode
// the schema is created before Connect returns.
//
// On failure the partially opened engine is released, the Manager stays
// disconnected and the error is a *ConnectionError.
func (m *Manager) Connect(ctx context.Context) (*Manager, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine != nil {
		return m, nil
	}

	eng, err := openEngine(ctx, m.desc, m.pool)
	if err != nil {
		return m, &ConnectionError{Backend: m.desc.Backend, Err: err}
	}

	if m.testMode {
		versions, err := eng.migrate(ctx)
		if err != nil {
			m.closeEngine(eng)
			return m, &ConnectionError{Backend: m.desc.Backend, Err: fmt.Errorf("create schema: %w", err)}
		}
		m.log.Debug("test schema created", "applied", versions)
	}

	m.engine = eng
	m.log.Info("database connected",
		"backend", m.desc.Backend,
		"dsn", m.desc.Redacted(),
		"test_mode", m.testMode,
	)

	return m, nil
}

// Close releases the engine and marks the Manager disconnected. It is safe
// to call on a Manager that never connected and safe to call more than once.
// Engine release errors are logged, never returned.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		return nil
	}

	m.closeEngine(m.engine)
	m.engine = nil
	m.log.Info("database closed", "backend", m.desc.Backend)

	return nil
}

func (m *Manager) closeEngine(eng engine) {
	if err := eng.close(); err != nil {
		m.log.Warn("release engine", "backend", m.desc.Backend, "error", err)
	}
}

// current returns the engine or ErrNotConnected. The caller must hold mu.
func (m *Manager) current() (engine, error) {
	if m.engine == nil {
		return nil, ErrNotConnected
	}
	return m.engine, nil
}

// Ping checks the engine can still reach the store.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eng, err := m.current()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := eng.ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Validate checks the users table matches the expected schema.
func (m *Manager) Validate(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eng, err := m.current()
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := eng.validate(ctx); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
