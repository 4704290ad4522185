package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeType tags the behavior of a node and selects its payload shape.
type NodeType string

const (
	NodeVideo  NodeType = "video"
	NodeButton NodeType = "button"
)

var knownNodeTypes = map[NodeType]struct{}{
	NodeVideo:  {},
	NodeButton: {},
}

// ParseNodeType converts a string into a known NodeType.
func ParseNodeType(value string) (NodeType, bool) {
	normalized := NodeType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := knownNodeTypes[normalized]
	return normalized, ok
}

// Position is a presentation-only 2D coordinate. No semantic invariant.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload variant selected by the node type.
type NodeData interface {
	nodeType() NodeType
	clone() NodeData
}

// Choice is a selectable branch on a video node. Edges reference choices by
// id through their sourceHandle.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// VideoData is the payload of a video node. MediaID is the durable reference
// into the asset store; VideoURL carries an external or archive-scoped
// (resource://) location and is never a playback handle.
type VideoData struct {
	MediaID  string   `json:"mediaId,omitempty"`
	VideoURL string   `json:"videoUrl,omitempty"`
	Choices  []Choice `json:"choices,omitempty"`
}

func (*VideoData) nodeType() NodeType { return NodeVideo }

func (d *VideoData) clone() NodeData {
	cp := *d
	if len(d.Choices) > 0 {
		cp.Choices = make([]Choice, len(d.Choices))
		copy(cp.Choices, d.Choices)
	}
	return &cp
}

// HasMedia reports whether the node carries a resolvable asset reference.
func (d *VideoData) HasMedia() bool {
	return d != nil && strings.TrimSpace(d.MediaID) != ""
}

// ButtonData is the payload of a button/choice node.
type ButtonData struct {
	Text   string `json:"text,omitempty"`
	Style  string `json:"style,omitempty"`
	Target string `json:"target,omitempty"`
}

func (*ButtonData) nodeType() NodeType { return NodeButton }

func (d *ButtonData) clone() NodeData {
	cp := *d
	return &cp
}

// Node is a vertex in the scenario graph.
type Node struct {
	ID       string
	Type     NodeType
	Position Position
	Data     NodeData
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	cp := n
	if n.Data != nil {
		cp.Data = n.Data.clone()
	}
	return cp
}

// Video returns the video payload, or nil when the node is not a video node.
func (n *Node) Video() *VideoData {
	data, _ := n.Data.(*VideoData)
	return data
}

type nodeEnvelope struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Position Position        `json:"position"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON serializes the node with its typed payload. This is one half of
// the single dispatch point for the data union.
func (n Node) MarshalJSON() ([]byte, error) {
	envelope := nodeEnvelope{ID: n.ID, Type: n.Type, Position: n.Position}
	if n.Data != nil {
		if got := n.Data.nodeType(); got != n.Type {
			return nil, fmt.Errorf("node %s: payload is for type %q, node is %q", n.ID, got, n.Type)
		}
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return nil, fmt.Errorf("node %s: marshal data: %w", n.ID, err)
		}
		envelope.Data = raw
	}
	return json.Marshal(envelope)
}

// UnmarshalJSON decodes the payload variant selected by the type tag. This is
// the other half of the dispatch point; unknown types are rejected here so
// the stores and the codec never see an untyped payload.
func (n *Node) UnmarshalJSON(data []byte) error {
	var envelope nodeEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	nodeType, ok := ParseNodeType(string(envelope.Type))
	if !ok {
		return fmt.Errorf("node %s: unknown type %q", envelope.ID, envelope.Type)
	}

	n.ID = envelope.ID
	n.Type = nodeType
	n.Position = envelope.Position
	n.Data = nil

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}

	switch nodeType {
	case NodeVideo:
		payload := &VideoData{}
		if err := json.Unmarshal(envelope.Data, payload); err != nil {
			return fmt.Errorf("node %s: decode video data: %w", envelope.ID, err)
		}
		n.Data = payload
	case NodeButton:
		payload := &ButtonData{}
		if err := json.Unmarshal(envelope.Data, payload); err != nil {
			return fmt.Errorf("node %s: decode button data: %w", envelope.ID, err)
		}
		n.Data = payload
	}
	return nil
}
