package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/tutoring-dashboard/internal/store"
	"github.com/example/tutoring-dashboard/internal/store/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool     *sqlite.Pool
	Students store.StudentRepository
	CheckIns store.CheckInRepository
	Classes  store.ClassRepository
	Catalog  store.CatalogRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Cleanup is registered with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "dashboard.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:     pool,
		Students: sqlite.NewStudentRepository(pool),
		CheckIns: sqlite.NewCheckInRepository(pool),
		Classes:  sqlite.NewClassRepository(pool),
		Catalog:  sqlite.NewCatalogRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
