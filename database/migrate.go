package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationStatus describes one schema migration.
type MigrationStatus struct {
	Version   int64     `json:"version" yaml:"version"`
	Path      string    `json:"path" yaml:"path"`
	Applied   bool      `json:"applied" yaml:"applied"`
	AppliedAt time.Time `json:"applied_at,omitzero" yaml:"applied_at,omitempty"`
}

// Migrate applies every pending migration and returns the versions that
// ran. Running it on an up to date schema returns no versions.
func (m *Manager) Migrate(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eng, err := m.current()
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	versions, err := eng.migrate(ctx)
	if err != nil {
		return versions, fmt.Errorf("migrate: %w", err)
	}

	if len(versions) > 0 {
		m.log.Info("migrations applied", "backend", m.desc.Backend, "versions", versions)
	}
	return versions, nil
}

// MigrationStatus lists every known migration in version order.
func (m *Manager) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eng, err := m.current()
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}

	statuses, err := eng.status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}
	return statuses, nil
}

func appliedVersions(results []*goose.MigrationResult) []int64 {
	versions := make([]int64, 0, len(results))
	for _, r := range results {
		if r.Source != nil {
			versions = append(versions, r.Source.Version)
		}
	}
	return versions
}

func toStatuses(in []*goose.MigrationStatus) []MigrationStatus {
	out := make([]MigrationStatus, 0, len(in))
	for _, s := range in {
		st := MigrationStatus{
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		}
		if s.Source != nil {
			st.Version = s.Source.Version
			st.Path = s.Source.Path
		}
		out = append(out, st)
	}
	return out
}
