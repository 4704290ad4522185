package scenario

import "fmt"

// WarningCode classifies a graph validation finding.
type WarningCode string

const (
	WarnDanglingEdge    WarningCode = "dangling_edge"
	WarnDuplicateNodeID WarningCode = "duplicate_node_id"
	WarnUnknownHandle   WarningCode = "unknown_handle"
	WarnMissingPayload  WarningCode = "missing_payload"
)

// Warning is an advisory validation finding. The persistence layer never
// fails a save or an import on warnings; the editor decides how to surface
// them.
type Warning struct {
	Code    WarningCode
	Subject string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %s", w.Code, w.Subject, w.Message)
}

// Validate inspects the project graph and reports soft-invariant violations:
// edges referencing absent nodes, duplicate node ids, choice handles that do
// not exist on their source node, and nodes without a payload.
func Validate(p *Project) []Warning {
	var warnings []Warning

	nodes := make(map[string]*Node, len(p.Nodes))
	for i := range p.Nodes {
		node := &p.Nodes[i]
		if _, dup := nodes[node.ID]; dup {
			warnings = append(warnings, Warning{
				Code:    WarnDuplicateNodeID,
				Subject: node.ID,
				Message: "node id appears more than once",
			})
			continue
		}
		nodes[node.ID] = node
		if node.Data == nil {
			warnings = append(warnings, Warning{
				Code:    WarnMissingPayload,
				Subject: node.ID,
				Message: fmt.Sprintf("%s node has no data payload", node.Type),
			})
		}
	}

	for _, edge := range p.Edges {
		source, sourceOK := nodes[edge.Source]
		if !sourceOK {
			warnings = append(warnings, Warning{
				Code:    WarnDanglingEdge,
				Subject: edge.ID,
				Message: fmt.Sprintf("source node %s does not exist", edge.Source),
			})
		}
		if _, ok := nodes[edge.Target]; !ok {
			warnings = append(warnings, Warning{
				Code:    WarnDanglingEdge,
				Subject: edge.ID,
				Message: fmt.Sprintf("target node %s does not exist", edge.Target),
			})
		}
		if edge.SourceHandle == "" || !sourceOK {
			continue
		}
		if video := source.Video(); video == nil || !hasChoice(video.Choices, edge.SourceHandle) {
			warnings = append(warnings, Warning{
				Code:    WarnUnknownHandle,
				Subject: edge.ID,
				Message: fmt.Sprintf("source node %s has no choice %q", edge.Source, edge.SourceHandle),
			})
		}
	}

	return warnings
}

func hasChoice(choices []Choice, id string) bool {
	for _, choice := range choices {
		if choice.ID == id {
			return true
		}
	}
	return false
}
