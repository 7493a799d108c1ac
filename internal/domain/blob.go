package domain

import (
	"errors"
	"io"
	"time"
)

// ErrBlobNotFound is returned when a cached blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is a cached binary object, such as a rendered thumbnail.
type Blob struct {
	ID       BlobID
	Body     []byte
	Modified time.Time
}

// NewBlob creates a new Blob with the given ID and content.
func NewBlob(id BlobID, body []byte) *Blob {
	return &Blob{ID: id, Body: body}
}

// Size returns the size of the blob's content in bytes.
func (blob *Blob) Size() int64 {
	return int64(len(blob.Body))
}

// WriteTo implements io.WriterTo.
func (blob *Blob) WriteTo(writer io.Writer) (int64, error) {
	n, err := writer.Write(blob.Body)

	return int64(n), err //nolint:wrapcheck
}
