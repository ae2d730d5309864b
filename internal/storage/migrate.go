package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const schemaLedgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// MigrateUp brings the day-plan schema current. Each up script runs at
// most once: applied scripts are recorded in schema_migrations, so
// reopening an existing database is a no-op.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(schemaLedgerDDL); err != nil {
		return fmt.Errorf("dayplan schema: create ledger: %w", err)
	}
	names, err := upScripts()
	if err != nil {
		return err
	}
	for _, name := range names {
		applied, err := scriptApplied(db, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := runScript(db, name, func(tx *sql.Tx) error {
			_, err := tx.Exec(
				`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
				name, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts applied migrations in reverse order, removing
// each ledger entry alongside its schema. Scripts never applied are
// skipped.
func MigrateDown(db *sql.DB) error {
	if _, err := db.Exec(schemaLedgerDDL); err != nil {
		return fmt.Errorf("dayplan schema: create ledger: %w", err)
	}
	names, err := upScripts()
	if err != nil {
		return err
	}
	for i := len(names) - 1; i >= 0; i-- {
		upName := names[i]
		applied, err := scriptApplied(db, upName)
		if err != nil {
			return err
		}
		if !applied {
			continue
		}
		downName := strings.TrimSuffix(upName, ".up.sql") + ".down.sql"
		if err := runScript(db, downName, func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM schema_migrations WHERE name = ?`, upName)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func upScripts() ([]string, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("dayplan schema: list scripts: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func scriptApplied(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("dayplan schema: check %s: %w", name, err)
	}
	return count > 0, nil
}

// runScript executes one migration script and its ledger bookkeeping in
// a single transaction, so a failed script leaves the ledger untouched.
func runScript(db *sql.DB, name string, ledger func(*sql.Tx) error) error {
	script, err := migrationFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("dayplan schema: read %s: %w", name, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("dayplan schema: begin %s: %w", name, err)
	}
	if _, err := tx.Exec(string(script)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("dayplan schema: apply %s: %w", name, err)
	}
	if err := ledger(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("dayplan schema: record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dayplan schema: commit %s: %w", name, err)
	}
	return nil
}
