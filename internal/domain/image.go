package domain

import "errors"

var (
	ErrImageTypeNotSupported = errors.New("image type not supported")
	ErrImageTooLarge         = errors.New("image too large")
)

// Thumbnail is a product cover image scaled to a requested width.
type Thumbnail struct {
	ProductID string
	SourceURL string
	MIMEType  string
	Width     int
	Height    int
	Data      []byte
}
