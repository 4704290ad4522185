package scenario

// Edge is a directed connection between two nodes. SourceHandle, when set,
// names the Choice on the source node that triggers this edge; multiple edges
// may share a source as long as they hang off distinct choices.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
}
