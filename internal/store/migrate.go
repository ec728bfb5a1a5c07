package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Migration is a named schema change applied at most once.
type Migration struct {
	Name string
	Up   string
}

// Migrator applies migrations in order and records them in the migrations
// table.
type Migrator struct {
	DB *sqlx.DB
}

// Up runs every migration not yet recorded.
func (m *Migrator) Up(migrations []Migration) error {
	_, err := m.DB.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []string
	if err := m.DB.Select(&applied, "SELECT name FROM migrations"); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	for _, mig := range migrations {
		if done[mig.Name] {
			continue
		}

		tx, err := m.DB.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(mig.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", mig.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (name, applied_at) VALUES (?, ?)", mig.Name, time.Now()); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %s: %w", mig.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %s: %w", mig.Name, err)
		}
	}
	return nil
}
