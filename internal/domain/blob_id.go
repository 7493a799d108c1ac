package domain

import (
	"crypto/sha256"
	"fmt"

	"github.com/mkrupp/storefront/internal/util/encoding"
)

// BlobID identifies a cached blob. It is a lowercase Crockford Base32 digest,
// which keeps it safe to use as a file name.
type BlobID string

// NewBlobID derives a BlobID from the given parts.
func NewBlobID(parts ...any) BlobID {
	hash := sha256.New()
	for _, part := range parts {
		_, _ = fmt.Fprintf(hash, "%v\x00", part)
	}

	return BlobID(encoding.EncodeCrockfordB32LC(hash.Sum(nil)))
}

func (id BlobID) String() string {
	return string(id)
}
