package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ledgerCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	return n
}

func TestMigrateUpRecordsAppliedScripts(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}
	if got := ledgerCount(t, db); got != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", got)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM schema_migrations`).Scan(&name); err != nil {
		t.Fatalf("read ledger entry: %v", err)
	}
	if name != "migrations/0001_init.up.sql" {
		t.Fatalf("unexpected ledger entry: %q", name)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.CreateTask(t.Context(), model.Task{
		ID:        "task-keep",
		Title:     "Survives reopen",
		DueAt:     "2026-02-10T09:00",
		CreatedAt: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Reopening an existing database re-runs MigrateUp; nothing may
	// be re-applied or lost.
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}
	if got := ledgerCount(t, db); got != 1 {
		t.Fatalf("expected 1 ledger entry after rerun, got %d", got)
	}
	got, err := repo.GetTask(t.Context(), "task-keep")
	if err != nil {
		t.Fatalf("get after rerun: %v", err)
	}
	if got.Title != "Survives reopen" {
		t.Fatalf("unexpected title after rerun: %q", got.Title)
	}
}

func TestMigrateRoundTripCompatibility(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if got := ledgerCount(t, db); got != 0 {
		t.Fatalf("expected empty ledger after down, got %d entries", got)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.CreateTask(t.Context(), model.Task{
		ID:        "task-rt-1",
		Title:     "Roundtrip task",
		DueAt:     "2026-02-10T09:00",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}
	got, err := repo.GetTask(t.Context(), "task-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Title != "Roundtrip task" {
		t.Fatalf("unexpected title after roundtrip: %q", got.Title)
	}
}

func TestMigrateDownOnFreshDatabaseIsNoop(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down on fresh db failed: %v", err)
	}
	if got := ledgerCount(t, db); got != 0 {
		t.Fatalf("expected empty ledger, got %d entries", got)
	}
}
