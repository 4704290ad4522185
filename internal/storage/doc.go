// Package storage provides the local persistence substrate shared by the
// project store and the binary asset store.
//
// One SQLite database per library directory holds both catalogs. Every write
// runs in its own transaction; there are no cross-store transactions. A
// flock-based lock file enforces a single writer per library, mirroring the
// one-active-editor-per-profile model of the product. Schema changes are
// expressed as ordered, embedded migrations recorded in schema_migrations;
// the database is never dropped and recreated on a version mismatch.
//
// The package also defines the error taxonomy for the persistence layer.
// Stores and the archive codec tag failures with these sentinels so callers
// can classify with errors.Is without string matching.
package storage
