// Package archive converts between a live project plus its binary assets and
// a single portable .pov file.
//
// The archive is JSON: an envelope carrying the codec version, the project
// metadata, the scenario graph, and a resource list. Full exports inline
// each asset's bytes as base64 and rewrite node references to
// resource://<id> so the file is self-contained; metadata-only exports emit
// resource records with empty payloads for lightweight structural backups.
//
// Import is a pure transform: it parses, re-mints the project id and every
// asset id, restores embedded payloads into the asset store, rewrites node
// references, and returns a hydrated project that the caller persists
// explicitly. Both directions follow a partial-success policy for resources:
// one unreadable asset degrades the result, it never aborts it.
package archive
