package ports

import (
	"context"

	"github.com/aretw0/trove/pkg/domain"
)

// AssetSource defines how the registry retrieves raw asset documents.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type AssetSource interface {
	// ListAssets returns the names of every asset of the given kind.
	ListAssets(ctx context.Context, kind domain.Kind) ([]string, error)

	// ReadAsset returns the raw document (JSON or YAML) of one asset.
	// It returns domain.ErrAssetNotFound if the asset does not exist.
	ReadAsset(ctx context.Context, id domain.Identity) ([]byte, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying assets change.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
