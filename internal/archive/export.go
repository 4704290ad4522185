package archive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"povstudio/internal/assetstore"
	"povstudio/internal/logging"
	"povstudio/internal/scenario"
	"povstudio/internal/storage"
)

const component = "archive codec"

// Mode selects the density of an export.
type Mode string

const (
	// ModeFull inlines every resolvable asset payload; the archive is
	// self-contained.
	ModeFull Mode = "full"
	// ModeMetadata emits resource records without payloads; the archive is
	// a lightweight structural backup, not portable.
	ModeMetadata Mode = "metadata"
)

// Codec reads and writes archives against a binary asset store.
type Codec struct {
	assets        *assetstore.Store
	logger        *slog.Logger
	maxAssetBytes int64
}

// Option customizes codec construction.
type Option func(*Codec)

// WithMaxAssetBytes caps the payload size embedded per asset during a full
// export. Oversized assets are skipped and reported. Zero means no cap.
func WithMaxAssetBytes(limit int64) Option {
	return func(c *Codec) {
		c.maxAssetBytes = limit
	}
}

// New constructs an archive codec.
func New(assets *assetstore.Store, logger *slog.Logger, opts ...Option) *Codec {
	codec := &Codec{
		assets: assets,
		logger: logging.WithComponent(logger, component),
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec
}

// SkippedResource records one asset that could not be collected during an
// export.
type SkippedResource struct {
	NodeID  string
	MediaID string
	Reason  string
}

// ExportReport summarizes an export: how many resources were collected and
// which assets were skipped. Skips degrade the archive, they never fail it.
type ExportReport struct {
	Mode      Mode
	Resources int
	Skipped   []SkippedResource
}

// Export serializes one project into archive bytes. Nodes are processed in
// the project's stored order. In full mode each video node's asset is read
// from the store, inlined as base64, and the node's reference is rewritten
// to the resource scheme; a failure to read one asset skips that resource
// and continues.
func (c *Codec) Export(ctx context.Context, project *scenario.Project, mode Mode) ([]byte, *ExportReport, error) {
	if project == nil {
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "export", "project is nil", nil)
	}
	switch mode {
	case ModeFull, ModeMetadata:
	default:
		return nil, nil, storage.Wrap(storage.ErrInvalidFormat, component, "export",
			fmt.Sprintf("unknown export mode %q", mode), nil)
	}

	nodes, edges := project.CloneGraph()
	report := &ExportReport{Mode: mode}
	resources := make([]Resource, 0)
	expected := 0

	for i := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		video := nodes[i].Video()
		if !video.HasMedia() {
			continue
		}
		expected++

		resource, err := c.collectResource(ctx, &nodes[i], video, mode)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedResource{
				NodeID:  nodes[i].ID,
				MediaID: video.MediaID,
				Reason:  err.Error(),
			})
			c.logger.Warn("skipping unreadable asset",
				slog.String(logging.FieldNodeID, nodes[i].ID),
				slog.String(logging.FieldAssetID, video.MediaID),
				slog.Any("error", err))
			continue
		}
		resources = append(resources, resource)
	}

	report.Resources = len(resources)
	if mode == ModeFull && expected > 0 && len(resources) == 0 {
		c.logger.Warn("no assets could be collected for full export",
			slog.String(logging.FieldProjectID, project.ID),
			slog.Int("expected", expected))
	}

	envelope := Envelope{
		Version:     Version,
		Name:        project.Name,
		Description: project.Description,
		Scenario:    Graph{Nodes: nodes, Edges: edges},
		Resources:   resources,
	}
	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, nil, storage.Wrap(storage.ErrStorageFailure, component, "export", "encode archive", err)
	}

	c.logger.Info("exported project",
		slog.String(logging.FieldProjectID, project.ID),
		slog.String("mode", string(mode)),
		slog.Int("resources", report.Resources),
		slog.Int("skipped", len(report.Skipped)))
	return payload, report, nil
}

// collectResource builds the resource record for one video node. In full
// mode it also rewrites the node's media reference to the resource scheme;
// the rewrite happens only after the payload was read successfully, so a
// skipped asset leaves its node untouched.
func (c *Codec) collectResource(ctx context.Context, node *scenario.Node, video *scenario.VideoData, mode Mode) (Resource, error) {
	resource := Resource{
		ID:     uuid.New().String(),
		NodeID: node.ID,
		Type:   "video",
	}

	if mode == ModeMetadata {
		// Best effort: the catalog row may already be gone, the record is
		// still emitted so the structure survives.
		if info, err := c.assets.Stat(ctx, video.MediaID); err == nil {
			resource.MimeType = info.MimeType
			resource.Filename = info.Filename
		}
		return resource, nil
	}

	reader, info, err := c.assets.Open(ctx, video.MediaID)
	if err != nil {
		return Resource{}, err
	}
	defer reader.Close()

	if c.maxAssetBytes > 0 && info.Size > c.maxAssetBytes {
		return Resource{}, fmt.Errorf("asset %s is %d bytes, embed limit is %d", video.MediaID, info.Size, c.maxAssetBytes)
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		return Resource{}, fmt.Errorf("read asset %s: %w", video.MediaID, err)
	}

	resource.MimeType = info.MimeType
	resource.Filename = info.Filename
	resource.Data = base64.StdEncoding.EncodeToString(payload)

	video.VideoURL = ResourceRef(resource.ID)
	video.MediaID = ""
	return resource, nil
}
