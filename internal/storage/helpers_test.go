package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openPlainSQLite(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("openPlainSQLite() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := runMigrations(context.Background(), db); err != nil {
		t.Fatalf("runMigrations() unexpected error: %v", err)
	}
	return db
}

func addMethods(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()

	repo := NewMethodsRepo(db)
	for _, name := range names {
		if err := repo.Add(context.Background(), name); err != nil {
			t.Fatalf("Add(%q) unexpected error: %v", name, err)
		}
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
