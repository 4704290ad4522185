package archive_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"povstudio/internal/archive"
	"povstudio/internal/assetstore"
	"povstudio/internal/logging"
	"povstudio/internal/scenario"
	"povstudio/internal/testsupport"
)

func newTestCodec(t *testing.T, opts ...archive.Option) (*archive.Codec, *assetstore.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenLibrary(t, cfg)
	assets := assetstore.New(db)
	return archive.New(assets, logging.NewNop(), opts...), assets
}

func videoNode(id, mediaID string) scenario.Node {
	return scenario.Node{
		ID:   id,
		Type: scenario.NodeVideo,
		Data: &scenario.VideoData{MediaID: mediaID},
	}
}

func decodeEnvelope(t *testing.T, payload []byte) archive.Envelope {
	t.Helper()
	var envelope archive.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestExportMetadataOnlyOmitsPayloads(t *testing.T) {
	ctx := context.Background()
	codec, assets := newTestCodec(t)

	assetID, err := assets.Put(ctx, []byte("clip bytes"), "video/mp4", "clip.mp4")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	project := &scenario.Project{
		ID:    "p1",
		Name:  "Structure",
		Nodes: []scenario.Node{videoNode("a", assetID)},
	}

	payload, report, err := codec.Export(ctx, project, archive.ModeMetadata)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if report.Resources != 1 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	envelope := decodeEnvelope(t, payload)
	if len(envelope.Resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(envelope.Resources))
	}
	resource := envelope.Resources[0]
	if resource.Data != "" {
		t.Fatal("metadata-only export must not embed payloads")
	}
	if resource.MimeType != "video/mp4" || resource.Filename != "clip.mp4" {
		t.Fatalf("catalog metadata not carried: %+v", resource)
	}
	// Metadata mode never rewrites the node's reference.
	if video := envelope.Scenario.Nodes[0].Video(); video == nil || video.MediaID != assetID {
		t.Fatalf("node reference should be untouched: %+v", envelope.Scenario.Nodes[0].Data)
	}
}

func TestExportFullRewritesReferences(t *testing.T) {
	ctx := context.Background()
	codec, assets := newTestCodec(t)

	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	assetID, err := assets.Put(ctx, raw, "video/mp4", "clip.mp4")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	project := &scenario.Project{
		ID:    "p1",
		Name:  "Full",
		Nodes: []scenario.Node{videoNode("a", assetID)},
	}

	payload, report, err := codec.Export(ctx, project, archive.ModeFull)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if report.Resources != 1 {
		t.Fatalf("expected 1 resource, got %d", report.Resources)
	}

	envelope := decodeEnvelope(t, payload)
	resource := envelope.Resources[0]
	decoded, err := base64.StdEncoding.DecodeString(resource.Data)
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatalf("payload bytes mangled: %x", decoded)
	}

	video := envelope.Scenario.Nodes[0].Video()
	if video == nil {
		t.Fatal("video payload missing from exported node")
	}
	if video.MediaID != "" {
		t.Fatalf("durable asset id leaked into archive: %s", video.MediaID)
	}
	if !strings.HasPrefix(video.VideoURL, archive.ResourceScheme) {
		t.Fatalf("reference not rewritten to resource scheme: %s", video.VideoURL)
	}
	if id, ok := archive.ParseResourceRef(video.VideoURL); !ok || id != resource.ID {
		t.Fatalf("reference %q does not match resource %s", video.VideoURL, resource.ID)
	}
	// The source project is untouched; export works on a clone.
	if source := project.Nodes[0].Video(); source.MediaID != assetID {
		t.Fatalf("export mutated the source project: %+v", source)
	}
}

func TestExportSkipsUnreadableAsset(t *testing.T) {
	ctx := context.Background()
	codec, assets := newTestCodec(t)

	var ids []string
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		id, err := assets.Put(ctx, []byte(name), "video/mp4", name)
		if err != nil {
			t.Fatalf("Put %s failed: %v", name, err)
		}
		ids = append(ids, id)
	}
	// The middle asset disappears before export.
	if err := assets.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	project := &scenario.Project{
		ID:   "p1",
		Name: "Partial",
		Nodes: []scenario.Node{
			videoNode("a", ids[0]),
			videoNode("b", ids[1]),
			videoNode("c", ids[2]),
		},
	}

	payload, report, err := codec.Export(ctx, project, archive.ModeFull)
	if err != nil {
		t.Fatalf("export must not fail on one unreadable asset: %v", err)
	}
	if report.Resources != 2 {
		t.Fatalf("expected 2 collected resources, got %d", report.Resources)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].NodeID != "b" {
		t.Fatalf("unexpected skip report: %+v", report.Skipped)
	}

	envelope := decodeEnvelope(t, payload)
	if len(envelope.Resources) != 2 {
		t.Fatalf("archive should contain exactly 2 resources, got %d", len(envelope.Resources))
	}
	// The skipped node keeps its original reference, un-rewritten.
	if video := envelope.Scenario.Nodes[1].Video(); video.MediaID != ids[1] || video.VideoURL != "" {
		t.Fatalf("skipped node should be untouched: %+v", video)
	}
}

func TestExportSizeCapSkipsOversizedAsset(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t, testsupport.WithMaxAssetMiB(1))
	db := testsupport.MustOpenLibrary(t, cfg)
	assets := assetstore.New(db)
	codec := archive.New(assets, logging.NewNop(),
		archive.WithMaxAssetBytes(cfg.MaxAssetBytes()))

	oversized := bytes.Repeat([]byte{0xAB}, int(cfg.MaxAssetBytes())+1)
	bigID, err := assets.Put(ctx, oversized, "video/mp4", "big.mp4")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	smallID, err := assets.Put(ctx, []byte{0x01}, "video/mp4", "small.mp4")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	project := &scenario.Project{
		ID:   "p1",
		Name: "Capped",
		Nodes: []scenario.Node{
			videoNode("big", bigID),
			videoNode("small", smallID),
		},
	}

	_, report, err := codec.Export(ctx, project, archive.ModeFull)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if report.Resources != 1 {
		t.Fatalf("expected only the small asset collected, got %d", report.Resources)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].NodeID != "big" {
		t.Fatalf("unexpected skip report: %+v", report.Skipped)
	}
}

func TestExportRejectsUnknownMode(t *testing.T) {
	ctx := context.Background()
	codec, _ := newTestCodec(t)

	if _, _, err := codec.Export(ctx, &scenario.Project{ID: "p"}, archive.Mode("sideways")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
