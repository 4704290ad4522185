package scenario

import "time"

// Project is the persisted unit: a scenario graph plus user-facing metadata.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectMetadata is the listing view of a project. It is cheap to produce:
// the store materializes it without touching the node/edge payloads.
type ProjectMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Metadata returns the listing view of the project.
func (p *Project) Metadata() ProjectMetadata {
	return ProjectMetadata{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NodeByID returns the node with the given id, or nil when absent.
func (p *Project) NodeByID(id string) *Node {
	for i := range p.Nodes {
		if p.Nodes[i].ID == id {
			return &p.Nodes[i]
		}
	}
	return nil
}

// CloneGraph returns deep copies of the project's nodes and edges. The archive
// codec rewrites media references on the copies so the live project is never
// mutated by an export.
func (p *Project) CloneGraph() ([]Node, []Edge) {
	nodes := make([]Node, len(p.Nodes))
	for i := range p.Nodes {
		nodes[i] = p.Nodes[i].Clone()
	}
	edges := make([]Edge, len(p.Edges))
	copy(edges, p.Edges)
	return nodes, edges
}
