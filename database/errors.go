package database

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigError.
	ErrConfiguration = errors.New("invalid database configuration")
	// ErrNotConnected is returned when an operation needs an established
	// connection and the Manager has none, either because Connect was never
	// called or because Close already ran.
	ErrNotConnected = errors.New("connection is not established")
)

// ConfigError reports ambiguous, conflicting or incomplete connection
// configuration. It is raised by Resolve and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConnectionError reports that the engine for a descriptor could not be
// allocated. The Manager is left disconnected.
type ConnectionError struct {
	Backend Backend
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SessionError reports a failed unit of work. The transaction has already
// been rolled back when it is returned; Err is the original cause.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}
