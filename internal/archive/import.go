package archive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"povstudio/internal/logging"
	"povstudio/internal/scenario"
	"povstudio/internal/storage"
)

// ResourceFailure records one archive resource that could not be restored.
type ResourceFailure struct {
	ResourceID string
	NodeID     string
	Reason     string
}

// ImportReport summarizes an import. Restored counts assets written to the
// store, Missing counts payload-less resources that could not be restored by
// design, Failed lists resources whose restore was attempted and broke.
type ImportReport struct {
	ArchiveVersion    string
	OriginalProjectID string
	OriginalCreatedAt *time.Time
	Restored          int
	Missing           int
	Failed            []ResourceFailure
}

// Err returns a partial-resource error when any restore failed, nil
// otherwise. Failures never abort the import; the caller decides whether the
// degraded project is acceptable.
func (r *ImportReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return storage.Wrap(storage.ErrPartialResource, component, "import",
		fmt.Sprintf("%d of %d embedded resources failed to restore", len(r.Failed), r.Restored+len(r.Failed)), nil)
}

// importProbe is the shape-detection pass over the raw document. The current
// envelope carries "version" and "scenario"; the legacy one carries
// "project".
type importProbe struct {
	Version  string          `json:"version"`
	Scenario json.RawMessage `json:"scenario"`
	Project  json.RawMessage `json:"project"`
}

// Import parses archive bytes into a fresh project, restoring embedded
// assets into the asset store and rewriting node references to the new
// asset ids. The project id is always newly minted and timestamps are reset
// to now; the archive's originals are surfaced through the report only.
// The returned project is hydrated but not persisted.
func (c *Codec) Import(ctx context.Context, payload []byte) (*scenario.Project, *ImportReport, error) {
	var probe importProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "import", "parse archive", err)
	}

	report := &ImportReport{}
	var (
		project   *scenario.Project
		resources []Resource
		err       error
	)
	switch {
	case len(probe.Project) > 0 && string(probe.Project) != "null":
		project, resources, err = c.parseLegacy(payload, report)
	default:
		project, resources, err = c.parseCurrent(payload, probe.Version, report)
	}
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	project.ID = uuid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now

	restored := make(map[string]string, len(resources))
	for _, resource := range resources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if resource.Data == "" {
			report.Missing++
			continue
		}
		raw, decodeErr := base64.StdEncoding.DecodeString(resource.Data)
		if decodeErr != nil {
			c.recordFailure(report, resource, fmt.Sprintf("decode payload: %v", decodeErr))
			continue
		}
		assetID, putErr := c.assets.Put(ctx, raw, resource.MimeType, resource.Filename)
		if putErr != nil {
			c.recordFailure(report, resource, fmt.Sprintf("store payload: %v", putErr))
			continue
		}
		restored[resource.ID] = assetID
	}
	report.Restored = len(restored)

	c.rewriteReferences(project, restored)

	for _, warning := range scenario.Validate(project) {
		c.logger.Warn("imported project has graph warnings",
			slog.String(logging.FieldProjectID, project.ID),
			slog.String("warning", warning.String()))
	}

	c.logger.Info("imported project",
		slog.String(logging.FieldProjectID, project.ID),
		slog.String("archive_version", report.ArchiveVersion),
		slog.Int("restored", report.Restored),
		slog.Int("missing", report.Missing),
		slog.Int("failed", len(report.Failed)))
	return project, report, nil
}

func (c *Codec) parseCurrent(payload []byte, version string, report *ImportReport) (*scenario.Project, []Resource, error) {
	if err := checkVersion(version); err != nil {
		return nil, nil, err
	}
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "import", "parse envelope", err)
	}
	if envelope.Scenario.Nodes == nil {
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "import", "archive has no scenario.nodes", nil)
	}

	report.ArchiveVersion = envelope.Version
	project := &scenario.Project{
		Name:        envelope.Name,
		Description: envelope.Description,
		Nodes:       envelope.Scenario.Nodes,
		Edges:       envelope.Scenario.Edges,
	}
	return project, envelope.Resources, nil
}

// parseLegacy accepts the pre-2.x {project, resources} shape. See the
// compatibility note on legacyEnvelope; these archives carry no version
// field, so the major-version gate does not apply.
func (c *Codec) parseLegacy(payload []byte, report *ImportReport) (*scenario.Project, []Resource, error) {
	var envelope legacyEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "import", "parse legacy envelope", err)
	}
	if envelope.Project == nil || envelope.Project.Nodes == nil {
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "import", "legacy archive has no project nodes", nil)
	}

	report.ArchiveVersion = "legacy"
	report.OriginalProjectID = envelope.Project.ID
	report.OriginalCreatedAt = envelope.Project.CreatedAt
	project := &scenario.Project{
		Name:        envelope.Project.Name,
		Description: envelope.Project.Description,
		Nodes:       envelope.Project.Nodes,
		Edges:       envelope.Project.Edges,
	}
	return project, envelope.Resources, nil
}

// rewriteReferences points every restored resource reference at its new
// asset id. References to resources that were not restored stay as they are;
// the node renders an empty-video state until the asset exists again.
func (c *Codec) rewriteReferences(project *scenario.Project, restored map[string]string) {
	for i := range project.Nodes {
		video := project.Nodes[i].Video()
		if video == nil {
			continue
		}
		resourceID, ok := ParseResourceRef(video.VideoURL)
		if !ok {
			continue
		}
		assetID, ok := restored[resourceID]
		if !ok {
			continue
		}
		video.MediaID = assetID
		video.VideoURL = ""
	}
}

func (c *Codec) recordFailure(report *ImportReport, resource Resource, reason string) {
	report.Failed = append(report.Failed, ResourceFailure{
		ResourceID: resource.ID,
		NodeID:     resource.NodeID,
		Reason:     reason,
	})
	c.logger.Warn("resource restore failed",
		slog.String(logging.FieldResourceID, resource.ID),
		slog.String(logging.FieldNodeID, resource.NodeID),
		slog.String("reason", reason))
}
