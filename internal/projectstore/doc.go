// Package projectstore persists scenario projects in the library catalog.
//
// The store owns the canonical project documents: create, load, save,
// delete, list, and rename. Graphs are stored as JSON payload columns next
// to the metadata columns so listing never deserializes node or edge data.
// Saves are last-writer-wins and force updatedAt; createdAt is written once
// and never modified afterwards.
package projectstore
