package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SchemaVersion is the version Migrate brings a database to.
const SchemaVersion = 3

type migration struct {
	Version     int
	Description string
	Up          func(*sql.Tx) error
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("%s: %w", q, err)
		}
	}
	return nil
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS transactions (
					hash TEXT PRIMARY KEY,
					id TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					direction TEXT NOT NULL,
					amount TEXT NOT NULL,
					bank TEXT NOT NULL,
					type TEXT,
					account_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Track import runs",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE transactions ADD COLUMN run_id TEXT`,
				`CREATE INDEX idx_transactions_bank ON transactions(bank)`,
				`CREATE INDEX idx_transactions_run ON transactions(run_id)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Key identical rows by occurrence",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE transactions_v3 (
					hash TEXT NOT NULL,
					occurrence INTEGER NOT NULL DEFAULT 0,
					id TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					direction TEXT NOT NULL,
					amount TEXT NOT NULL,
					bank TEXT NOT NULL,
					type TEXT,
					account_id TEXT,
					run_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (hash, occurrence)
				)`,
				`INSERT INTO transactions_v3 (
					hash, occurrence, id, date, description, direction, amount, bank, type, account_id, run_id, created_at
				) SELECT hash, 0, id, date, description, direction, amount, bank, type, account_id, run_id, created_at
				FROM transactions`,
				`DROP TABLE transactions`,
				`ALTER TABLE transactions_v3 RENAME TO transactions`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_bank ON transactions(bank)`,
				`CREATE INDEX idx_transactions_run ON transactions(run_id)`,
			)
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("updating schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.Version, err)
		}

		slog.Info("Applied migration", "version", m.Version, "description", m.Description)
	}

	final, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != SchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", SchemaVersion, final)
	}
	return nil
}
