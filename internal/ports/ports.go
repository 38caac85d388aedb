package ports

import (
	"context"
	"errors"

	"svw.info/cardle/internal/domain"
)

// ErrNotFound is returned by a BlobStore when the key has never been written.
var ErrNotFound = errors.New("blob not found")

// Selector deterministically maps a seed to an index in [0, n).
type Selector interface {
	Index(seed string, n int) (int, error)
	// IndexAt skips iteration draws before picking.
	IndexAt(seed string, n, iteration int) (int, error)
}

// BlobStore reads and writes a single named blob per key.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	// Keys lists the keys that hold data, sorted.
	Keys(ctx context.Context) ([]string, error)
}

// CatalogSource delivers the ordered card list.
type CatalogSource interface {
	Load(ctx context.Context) ([]domain.Card, error)
}

// Preferences exposes the process-wide language choice.
type Preferences interface {
	German() bool
}
