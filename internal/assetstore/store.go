package assetstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"povstudio/internal/storage"
)

const component = "asset store"

// Store manages binary asset payloads and their catalog rows.
type Store struct {
	db  *storage.DB
	dir string
}

// New constructs an asset store over an open catalog database.
func New(db *storage.DB) *Store {
	return &Store{db: db, dir: db.AssetDir()}
}

// Asset is a fully materialized binary asset.
type Asset struct {
	ID       string
	Bytes    []byte
	MimeType string
	Filename string
}

// Info is the catalog view of an asset, without its payload.
type Info struct {
	ID        string
	MimeType  string
	Filename  string
	Size      int64
	SHA256    string
	CreatedAt time.Time
}

// Filter constrains List results. Zero values match everything.
type Filter struct {
	// MimePrefix matches content types by prefix, e.g. "video/".
	MimePrefix string
	// NameContains matches a case-insensitive substring of the filename.
	NameContains string
}

// Put stores a new asset and returns its freshly minted id. The payload is
// written to a temp file and renamed into place before the catalog row is
// inserted, so a crash never leaves a row without bytes.
func (s *Store) Put(ctx context.Context, payload []byte, mimeType, filename string) (string, error) {
	id := uuid.New().String()
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = SynthesizeFilename(mimeType, id)
	}

	digest := sha256.Sum256(payload)
	path := s.payloadPath(id)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", storage.Wrap(storage.ErrStorageFailure, component, "put", "create temp file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", storage.Wrap(storage.ErrStorageFailure, component, "put", "write payload", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", storage.Wrap(storage.ErrStorageFailure, component, "put", "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", storage.Wrap(storage.ErrStorageFailure, component, "put", "place payload", err)
	}

	if _, err := s.db.ExecRetry(ctx,
		`INSERT INTO assets (id, mime_type, filename, size_bytes, sha256, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, mimeType, filename, int64(len(payload)), hex.EncodeToString(digest[:]),
		storage.FormatTime(time.Now()),
	); err != nil {
		os.Remove(path)
		return "", storage.Wrap(storage.ErrStorageFailure, component, "put", "insert catalog row", err)
	}

	return id, nil
}

// Get returns the asset including its payload bytes.
func (s *Store) Get(ctx context.Context, id string) (*Asset, error) {
	info, err := s.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(s.payloadPath(id))
	if err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "get", "read payload", err)
	}
	return &Asset{ID: id, Bytes: payload, MimeType: info.MimeType, Filename: info.Filename}, nil
}

// Open returns a streaming reader over the payload plus the catalog info.
// The caller owns closing the reader.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, *Info, error) {
	info, err := s.Stat(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(s.payloadPath(id))
	if err != nil {
		return nil, nil, storage.Wrap(storage.ErrStorageFailure, component, "open", "open payload", err)
	}
	return file, info, nil
}

// Stat returns the catalog info for an asset without touching the payload.
func (s *Store) Stat(ctx context.Context, id string) (*Info, error) {
	row := s.db.Handle().QueryRowContext(ctx,
		`SELECT id, mime_type, filename, size_bytes, sha256, created_at
         FROM assets WHERE id = ?`, id)

	var (
		info      Info
		createdAt string
	)
	err := row.Scan(&info.ID, &info.MimeType, &info.Filename, &info.Size, &info.SHA256, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.Wrap(storage.ErrNotFound, component, "stat", fmt.Sprintf("asset %s", id), nil)
	}
	if err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "stat", "scan asset row", err)
	}
	info.CreatedAt = storage.ParseTime(createdAt)
	return &info, nil
}

// Delete removes the catalog row and the payload file. Deleting an absent id
// is not an error, and deletion never cascades to referencing nodes.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecRetry(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
		return storage.Wrap(storage.ErrStorageFailure, component, "delete", "delete catalog row", err)
	}
	if err := os.Remove(s.payloadPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return storage.Wrap(storage.ErrStorageFailure, component, "delete", "remove payload", err)
	}
	return nil
}

// List returns catalog info for assets matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Info, error) {
	where := []string{"1=1"}
	args := []any{}
	if prefix := strings.TrimSpace(filter.MimePrefix); prefix != "" {
		where = append(where, "mime_type LIKE ?")
		args = append(args, prefix+"%")
	}
	if needle := strings.TrimSpace(filter.NameContains); needle != "" {
		where = append(where, "LOWER(filename) LIKE ?")
		args = append(args, "%"+strings.ToLower(needle)+"%")
	}

	query := `SELECT id, mime_type, filename, size_bytes, sha256, created_at
              FROM assets WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id`
	rows, err := s.db.Handle().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "list", "query assets", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var (
			info      Info
			createdAt string
		)
		if err := rows.Scan(&info.ID, &info.MimeType, &info.Filename, &info.Size, &info.SHA256, &createdAt); err != nil {
			return nil, storage.Wrap(storage.ErrStorageFailure, component, "list", "scan asset row", err)
		}
		info.CreatedAt = storage.ParseTime(createdAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *Store) payloadPath(id string) string {
	return filepath.Join(s.dir, id)
}
