package projectstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"povstudio/internal/scenario"
	"povstudio/internal/storage"
)

const component = "project store"

// Store manages project persistence backed by the library catalog.
type Store struct {
	db *storage.DB
}

// New constructs a project store over an open catalog database.
func New(db *storage.DB) *Store {
	return &Store{db: db}
}

// Create allocates a fresh project with an empty graph, persists it, and
// returns it. Both timestamps are set to now.
func (s *Store) Create(ctx context.Context, name, description string) (*scenario.Project, error) {
	now := time.Now().UTC()
	project := &scenario.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Nodes:       []scenario.Node{},
		Edges:       []scenario.Edge{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Name == "" {
		project.Name = "Untitled project"
	}

	nodesJSON, edgesJSON, err := marshalGraph(project)
	if err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "create", "encode graph", err)
	}

	if _, err := s.db.ExecRetry(ctx,
		`INSERT INTO projects (id, name, description, nodes_json, edges_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, nodesJSON, edgesJSON,
		formatTime(now), formatTime(now),
	); err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "create", "insert project", err)
	}

	return project, nil
}

// Load fetches a project by id, including its full graph.
func (s *Store) Load(ctx context.Context, id string) (*scenario.Project, error) {
	row := s.db.Handle().QueryRowContext(ctx,
		`SELECT id, name, description, nodes_json, edges_json, created_at, updated_at
         FROM projects WHERE id = ?`, id)

	var (
		project              scenario.Project
		nodesJSON, edgesJSON string
		createdAt, updatedAt string
	)
	err := row.Scan(&project.ID, &project.Name, &project.Description,
		&nodesJSON, &edgesJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.Wrap(storage.ErrNotFound, component, "load", fmt.Sprintf("project %s", id), nil)
	}
	if err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "load", "scan project", err)
	}

	if err := json.Unmarshal([]byte(nodesJSON), &project.Nodes); err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "load", "decode nodes", err)
	}
	if err := json.Unmarshal([]byte(edgesJSON), &project.Edges); err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "load", "decode edges", err)
	}
	project.CreatedAt = parseTime(createdAt)
	project.UpdatedAt = parseTime(updatedAt)

	return &project, nil
}

// Save upserts the full project document. UpdatedAt is unconditionally
// overwritten with now, both on the stored row and on the passed project;
// the caller's value is ignored. CreatedAt is never altered on update.
func (s *Store) Save(ctx context.Context, project *scenario.Project) error {
	if project == nil {
		return errors.New("project is nil")
	}
	if strings.TrimSpace(project.ID) == "" {
		return storage.Wrap(storage.ErrStorageFailure, component, "save", "project id is empty", nil)
	}

	nodesJSON, edgesJSON, err := marshalGraph(project)
	if err != nil {
		return storage.Wrap(storage.ErrStorageFailure, component, "save", "encode graph", err)
	}

	now := time.Now().UTC()
	createdAt := project.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	if _, err := s.db.ExecRetry(ctx,
		`INSERT INTO projects (id, name, description, nodes_json, edges_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name,
             description = excluded.description,
             nodes_json = excluded.nodes_json,
             edges_json = excluded.edges_json,
             updated_at = excluded.updated_at`,
		project.ID, project.Name, project.Description, nodesJSON, edgesJSON,
		formatTime(createdAt), formatTime(now),
	); err != nil {
		return storage.Wrap(storage.ErrStorageFailure, component, "save", "upsert project", err)
	}

	project.UpdatedAt = now
	return nil
}

// Delete removes a project document. Deleting an absent id is not an error.
// Assets referenced by the project are never touched; references are
// non-owning.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecRetry(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return storage.Wrap(storage.ErrStorageFailure, component, "delete", "delete project", err)
	}
	return nil
}

// List returns metadata for every stored project, most recently updated
// first. The node/edge payload columns are never read.
func (s *Store) List(ctx context.Context) ([]scenario.ProjectMetadata, error) {
	rows, err := s.db.Handle().QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
         FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, storage.Wrap(storage.ErrStorageFailure, component, "list", "query projects", err)
	}
	defer rows.Close()

	var metas []scenario.ProjectMetadata
	for rows.Next() {
		var (
			meta                 scenario.ProjectMetadata
			createdAt, updatedAt string
		)
		if err := rows.Scan(&meta.ID, &meta.Name, &meta.Description, &createdAt, &updatedAt); err != nil {
			return nil, storage.Wrap(storage.ErrStorageFailure, component, "list", "scan project row", err)
		}
		meta.CreatedAt = parseTime(createdAt)
		meta.UpdatedAt = parseTime(updatedAt)
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Rename updates the user-facing name: load, mutate, save.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	project, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	project.Name = strings.TrimSpace(name)
	return s.Save(ctx, project)
}

func marshalGraph(project *scenario.Project) (string, string, error) {
	nodes := project.Nodes
	if nodes == nil {
		nodes = []scenario.Node{}
	}
	edges := project.Edges
	if edges == nil {
		edges = []scenario.Edge{}
	}
	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return "", "", fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return "", "", fmt.Errorf("marshal edges: %w", err)
	}
	return string(nodesJSON), string(edgesJSON), nil
}

func formatTime(t time.Time) string {
	return storage.FormatTime(t)
}

func parseTime(value string) time.Time {
	return storage.ParseTime(value)
}
