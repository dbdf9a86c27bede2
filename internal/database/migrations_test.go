package database

import (
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	applied, err := db.RunMigrations("../../migrations")
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if len(applied) == 0 {
		t.Fatal("expected at least one migration to apply")
	}

	tables := []string{
		"users", "user_sessions", "families", "family_members", "babies",
		"baby_permissions", "invitations", "feedings", "sleeps", "diapers",
		"growths", "schedules", "contractions",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}

	// Migrations are idempotent
	again, err := db.RunMigrations("../../migrations")
	if err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second run applied %d migrations, want 0", len(again))
	}
}

func TestExecReturningID(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	first, err := db.ExecReturningID(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)", "carol", "hash")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	if first <= 0 {
		t.Errorf("ExecReturningID() = %d, want positive id", first)
	}

	second, err := db.ExecReturningID(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)", "dave", "hash")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	if second <= first {
		t.Errorf("second id %d should follow first id %d", second, first)
	}
}

func TestTransactionRollback(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := tx.ExecReturningID(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)", "carol", "hash"); err != nil {
		t.Fatalf("insert in tx error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("rolled back insert should leave 0 users, got %d", count)
	}
}
