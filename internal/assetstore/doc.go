// Package assetstore provides content-agnostic blob storage for video and
// image payloads, keyed by asset id.
//
// Payload bytes live as files under the library's assets directory; the
// catalog database carries the id, content type, display filename, size, and
// a SHA-256 digest recorded at write time. Payload files are written via a
// temp file and rename so a reader never observes a half-written asset.
//
// Assets are independent of projects: nodes hold non-owning references by
// id, deleting a project never deletes assets, and deleting an asset leaves
// referencing nodes dangling by design. Playback handles produced by this
// package are ephemeral capabilities; only the asset id is durable.
package assetstore
