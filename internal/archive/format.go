package archive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"povstudio/internal/scenario"
	"povstudio/internal/storage"
)

// Version is the archive format version written by this codec. Import
// accepts any archive whose major version matches.
const Version = "2.0.0"

// Extension is the conventional file extension for archives. The content is
// JSON; the extension is opaque to the OS.
const Extension = ".pov"

// ResourceScheme prefixes archive-scoped asset references inside node data.
const ResourceScheme = "resource://"

// Envelope is the on-the-wire archive shape.
type Envelope struct {
	Version     string     `json:"version"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Scenario    Graph      `json:"scenario"`
	Resources   []Resource `json:"resources"`
}

// Graph carries the exported node and edge lists.
type Graph struct {
	Nodes []scenario.Node `json:"nodes"`
	Edges []scenario.Edge `json:"edges"`
}

// Resource describes one binary asset referenced by a node. Data holds the
// base64 payload in full exports and is empty in metadata-only exports.
type Resource struct {
	ID       string `json:"id"`
	NodeID   string `json:"nodeId"`
	Type     string `json:"type"`
	MimeType string `json:"mimeType"`
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// legacyEnvelope is the pre-2.x archive shape: the project document embedded
// under a "project" key with its graph inline. Accepting it on import is a
// deliberate compatibility policy, not an accident; archives produced by old
// builds keep importing.
type legacyEnvelope struct {
	Project   *legacyProject `json:"project"`
	Resources []Resource     `json:"resources"`
}

type legacyProject struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Nodes       []scenario.Node `json:"nodes"`
	Edges       []scenario.Edge `json:"edges"`
	CreatedAt   *time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt"`
}

// ResourceRef renders an archive-scoped reference for a resource id.
func ResourceRef(resourceID string) string {
	return ResourceScheme + resourceID
}

// ParseResourceRef extracts the resource id from an archive-scoped
// reference, reporting whether the value uses the resource scheme.
func ParseResourceRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, ResourceScheme) {
		return "", false
	}
	id := strings.TrimPrefix(ref, ResourceScheme)
	if id == "" {
		return "", false
	}
	return id, true
}

func majorVersion(version string) (int, error) {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return 0, fmt.Errorf("version is empty")
	}
	head := trimmed
	if idx := strings.Index(trimmed, "."); idx >= 0 {
		head = trimmed[:idx]
	}
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("version %q: %w", version, err)
	}
	return major, nil
}

func checkVersion(version string) error {
	archiveMajor, err := majorVersion(version)
	if err != nil {
		return storage.Wrap(storage.ErrInvalidFormat, component, "import", "parse archive version", err)
	}
	codecMajor, err := majorVersion(Version)
	if err != nil {
		return storage.Wrap(storage.ErrStorageFailure, component, "import", "parse codec version", err)
	}
	if archiveMajor != codecMajor {
		return storage.Wrap(storage.ErrIncompatibleVersion, component, "import",
			fmt.Sprintf("archive version %s is not compatible with codec version %s", version, Version), nil)
	}
	return nil
}
