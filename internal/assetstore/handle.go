package assetstore

import (
	"context"
	"time"
)

// Handle is an ephemeral, non-owning playback capability for one asset. It
// resolves to the payload on local disk at the moment it was issued and is
// revoked when the asset is deleted. Handles must be treated as a cache:
// request a fresh one per playback, and never persist one inside a project —
// only the asset id is durable.
type Handle struct {
	assetID  string
	path     string
	mimeType string
	issuedAt time.Time
}

// Playback issues a handle for the asset. Fails with the store's NotFound
// classification when the id has no backing asset.
func (s *Store) Playback(ctx context.Context, id string) (Handle, error) {
	info, err := s.Stat(ctx, id)
	if err != nil {
		return Handle{}, err
	}
	return Handle{
		assetID:  id,
		path:     s.payloadPath(id),
		mimeType: info.MimeType,
		issuedAt: time.Now(),
	}, nil
}

// AssetID returns the durable identifier the handle was issued for.
func (h Handle) AssetID() string { return h.assetID }

// Path returns the local payload location. Valid only while the asset
// exists; callers re-request a handle rather than caching this value.
func (h Handle) Path() string { return h.path }

// MimeType returns the content type recorded for the asset.
func (h Handle) MimeType() string { return h.mimeType }

// IssuedAt returns when the handle was minted.
func (h Handle) IssuedAt() time.Time { return h.issuedAt }
