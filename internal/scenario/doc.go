// Package scenario defines the branching-video graph model: projects, nodes,
// edges, and the per-type node payloads.
//
// A Project is the unit of persistence. Its graph is a directed set of nodes
// connected by optionally choice-keyed edges; node order is preserved for
// stable rendering but carries no semantics. Node payloads are a tagged union
// over the node type with a single (de)serialization dispatch point in
// node.go; shape checks never leak into the stores or the archive codec.
//
// Validation here is advisory: dangling edges and unresolved media references
// are reported as warnings, not errors, because the editor tolerates both.
package scenario
