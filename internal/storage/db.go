package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"povstudio/internal/config"
)

// DB wraps the catalog database for one library directory together with the
// single-writer lock protecting it.
type DB struct {
	sql      *sql.DB
	path     string
	assetDir string
	lock     *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open locks the library directory and initializes or connects to the
// catalog database, applying any pending migrations.
func Open(cfg *config.Config) (*DB, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, Wrap(ErrStorageFailure, "storage", "open", "ensure directories", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, Wrap(ErrStorageFailure, "storage", "open", "acquire library lock", err)
	}
	if !locked {
		return nil, Wrap(ErrStorageFailure, "storage", "open",
			fmt.Sprintf("library %s is in use by another process", cfg.Paths.LibraryDir), nil)
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		_ = lock.Unlock()
		return nil, Wrap(ErrStorageFailure, "storage", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, Wrap(ErrStorageFailure, "storage", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &DB{sql: db, path: cfg.DatabasePath(), assetDir: cfg.AssetsDir(), lock: lock}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close releases the database connection and the library lock.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	var firstErr error
	if d.sql != nil {
		firstErr = d.sql.Close()
	}
	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Handle exposes the underlying connection to the stores.
func (d *DB) Handle() *sql.DB {
	return d.sql
}

// Path returns the database file location.
func (d *DB) Path() string {
	return d.path
}

// AssetDir returns the directory holding binary asset payloads.
func (d *DB) AssetDir() string {
	return d.assetDir
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// ExecRetry runs a write statement, retrying while SQLite reports the
// database busy.
func (d *DB) ExecRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = d.sql.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
