package blob

import (
	"context"
	"time"

	"github.com/mkrupp/storefront/internal/domain"
)

// Repository caches blobs by id.
type Repository interface {
	// Exists reports whether a blob with the given id is cached.
	Exists(ctx context.Context, id domain.BlobID) bool

	// Store writes blob, replacing any previous content under its id.
	Store(ctx context.Context, blob *domain.Blob) error

	// Fetch returns the blob with the given id, or domain.ErrBlobNotFound.
	Fetch(ctx context.Context, id domain.BlobID) (*domain.Blob, error)

	// Delete removes the blob with the given id. Missing blobs are not an error.
	Delete(ctx context.Context, id domain.BlobID) error

	// Prune removes blobs last written before the given time and returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int, error)
}

// RepositoryFactory creates a Repository for the named bucket.
type RepositoryFactory func(ctx context.Context, bucket string) (Repository, error)
