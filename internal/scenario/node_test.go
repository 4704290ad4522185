package scenario

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeJSONRoundTripDispatchesOnType(t *testing.T) {
	nodes := []Node{
		{
			ID:       "v1",
			Type:     NodeVideo,
			Position: Position{X: 10, Y: 20},
			Data: &VideoData{
				MediaID: "asset-1",
				Choices: []Choice{{ID: "c1", Label: "Continue"}},
			},
		},
		{
			ID:   "b1",
			Type: NodeButton,
			Data: &ButtonData{Text: "Restart", Target: "v1"},
		},
	}

	raw, err := json.Marshal(nodes)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded []Node
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(decoded))
	}

	video, ok := decoded[0].Data.(*VideoData)
	if !ok {
		t.Fatalf("video node decoded to %T", decoded[0].Data)
	}
	if video.MediaID != "asset-1" || len(video.Choices) != 1 || video.Choices[0].Label != "Continue" {
		t.Fatalf("video payload mangled: %+v", video)
	}
	if decoded[0].Position.X != 10 || decoded[0].Position.Y != 20 {
		t.Fatalf("position lost: %+v", decoded[0].Position)
	}

	button, ok := decoded[1].Data.(*ButtonData)
	if !ok {
		t.Fatalf("button node decoded to %T", decoded[1].Data)
	}
	if button.Text != "Restart" || button.Target != "v1" {
		t.Fatalf("button payload mangled: %+v", button)
	}
}

func TestNodeUnmarshalRejectsUnknownType(t *testing.T) {
	var node Node
	err := json.Unmarshal([]byte(`{"id":"x","type":"hologram","data":{}}`), &node)
	if err == nil {
		t.Fatal("expected error for unknown node type")
	}
	if !strings.Contains(err.Error(), "hologram") {
		t.Fatalf("error should name the offending type: %v", err)
	}
}

func TestNodeMarshalRejectsMismatchedPayload(t *testing.T) {
	node := Node{ID: "x", Type: NodeButton, Data: &VideoData{MediaID: "m"}}
	if _, err := json.Marshal(node); err == nil {
		t.Fatal("expected error for payload/type mismatch")
	}
}

func TestNodeUnmarshalAcceptsMissingData(t *testing.T) {
	var node Node
	if err := json.Unmarshal([]byte(`{"id":"x","type":"video"}`), &node); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if node.Data != nil {
		t.Fatalf("expected nil payload, got %#v", node.Data)
	}
}

func TestNodeCloneIsDeep(t *testing.T) {
	original := Node{
		ID:   "v1",
		Type: NodeVideo,
		Data: &VideoData{
			MediaID: "asset-1",
			Choices: []Choice{{ID: "c1", Label: "Yes"}},
		},
	}

	clone := original.Clone()
	cloneVideo := clone.Video()
	cloneVideo.MediaID = "asset-2"
	cloneVideo.Choices[0].Label = "No"

	originalVideo := original.Video()
	if originalVideo.MediaID != "asset-1" {
		t.Fatalf("clone shares media reference: %s", originalVideo.MediaID)
	}
	if originalVideo.Choices[0].Label != "Yes" {
		t.Fatalf("clone shares choices slice: %+v", originalVideo.Choices)
	}
}

func TestParseNodeTypeNormalizes(t *testing.T) {
	if got, ok := ParseNodeType("  Video "); !ok || got != NodeVideo {
		t.Fatalf("ParseNodeType(\"  Video \") = %q, %v", got, ok)
	}
	if _, ok := ParseNodeType("banner"); ok {
		t.Fatal("unexpected acceptance of unknown type")
	}
}
