package catalogsvc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"strings"

	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/mkrupp/storefront/internal/domain"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeTIFF = "image/tiff"
	MIMETypeWebP = "image/webp"
)

//nolint:gochecknoglobals
var (
	imageMagicHeaders = map[string][]string{
		MIMETypeJPEG: {"\xFF\xD8"},
		MIMETypePNG:  {"\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"},
		MIMETypeTIFF: {"\x49\x49\x2A\x00", "\x4D\x4D\x00\x2A"},
	}

	imageDecoders = map[string]func(io.Reader) (image.Image, error){
		MIMETypeJPEG: jpeg.Decode,
		MIMETypePNG:  png.Decode,
		MIMETypeTIFF: tiff.Decode,
		MIMETypeWebP: webp.Decode,
	}

	// WebP has no encoder in x/image; thumbnails of WebP covers are written as PNG.
	imageEncoders = map[string]func(io.Writer, image.Image) error{
		MIMETypeJPEG: func(w io.Writer, i image.Image) error { return jpeg.Encode(w, i, &jpeg.Options{Quality: 85}) },
		MIMETypePNG:  png.Encode,
		MIMETypeTIFF: func(w io.Writer, i image.Image) error { return tiff.Encode(w, i, nil) },
	}
)

// detectMIMEType sniffs the image format from its leading bytes and falls back
// to the declared content type.
func detectMIMEType(data []byte, declared string) (string, error) {
	for mimeType, headers := range imageMagicHeaders {
		for _, header := range headers {
			if bytes.HasPrefix(data, []byte(header)) {
				return mimeType, nil
			}
		}
	}

	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return MIMETypeWebP, nil
	}

	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		if _, ok := imageDecoders[strings.ToLower(mediaType)]; ok {
			return strings.ToLower(mediaType), nil
		}
	}

	return "", fmt.Errorf("%w: %q", domain.ErrImageTypeNotSupported, declared)
}

// outputMIMEType returns the format a thumbnail of the given source format is written in.
func outputMIMEType(source string) string {
	if _, ok := imageEncoders[source]; ok {
		return source
	}

	return MIMETypePNG
}

func decodeImage(data []byte, mimeType string) (image.Image, error) {
	decoder, ok := imageDecoders[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrImageTypeNotSupported, mimeType)
	}

	img, err := decoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mimeType, err)
	}

	return img, nil
}

func encodeImage(img image.Image, mimeType string) ([]byte, error) {
	encoder, ok := imageEncoders[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrImageTypeNotSupported, mimeType)
	}

	var buf bytes.Buffer
	if err := encoder(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s: %w", mimeType, err)
	}

	return buf.Bytes(), nil
}
