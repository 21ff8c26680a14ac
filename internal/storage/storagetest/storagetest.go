// Package storagetest opens throwaway migrated SQLite databases for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/4oBuko/spy-cat-agency-records/internal/config"
	"github.com/4oBuko/spy-cat-agency-records/internal/storage"
)

// New returns a migrated database in t's temp dir, closed on cleanup.
func New(t testing.TB) *storage.Database {
	t.Helper()

	db, err := storage.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "agency.db"),
		MaxOpenConns: 4,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}
