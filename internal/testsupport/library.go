package testsupport

import (
	"testing"

	"povstudio/internal/config"
	"povstudio/internal/storage"
)

// MustOpenLibrary opens the catalog database for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *storage.DB {
	t.Helper()

	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
