package storage_test

import (
	"context"
	"errors"
	"testing"

	"povstudio/internal/storage"
	"povstudio/internal/testsupport"
)

func TestOpenAppliesMigrationsInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenLibrary(t, cfg)

	versions, err := db.AppliedMigrations(context.Background())
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if len(versions) < 3 {
		t.Fatalf("expected at least 3 migrations, got %v", versions)
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1] >= versions[i] {
			t.Fatalf("migrations out of order: %v", versions)
		}
	}
}

func TestOpenIsIdempotentAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first, err := db.AppliedMigrations(context.Background())
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := testsupport.MustOpenLibrary(t, cfg)
	second, err := reopened.AppliedMigrations(context.Background())
	if err != nil {
		t.Fatalf("AppliedMigrations after reopen: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected same migrations after reopen, got %v then %v", first, second)
	}
}

func TestOpenRejectsSecondWriter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenLibrary(t, cfg)

	_, err := storage.Open(cfg)
	if err == nil {
		t.Fatal("expected second open to fail while library is locked")
	}
	if !errors.Is(err, storage.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
}

func TestWrapTagsSentinel(t *testing.T) {
	err := storage.Wrap(storage.ErrNotFound, "project store", "load", "no such project", nil)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound classification, got %v", err)
	}
}
