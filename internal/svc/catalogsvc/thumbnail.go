package catalogsvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
)

// ThumbnailConfig holds configuration for thumbnail rendering.
type ThumbnailConfig struct {
	// Interpolator specifies the image scaling algorithm to use.
	// Valid values are: "nearestneighbor", "catmullrom", "bilinear", "approxbilinear"
	Interpolator string `env:"INTERPOLATOR" default:"catmullrom"`

	// MaxWidth is the largest width a thumbnail may be requested at.
	MaxWidth int `env:"MAX_WIDTH" default:"1024"`

	// MaxBytes limits the size of downloaded cover images.
	MaxBytes int64 `env:"MAX_BYTES" default:"10485760"`

	// CacheTTL is how long rendered thumbnails are served from the cache.
	CacheTTL time.Duration `env:"CACHE_TTL" default:"168h"`
}

// Thumbnail renders the cover image of a product scaled to width.
// Covers narrower than width keep their size. Rendered thumbnails are cached when
// a cache is configured.
func (s *CatalogService) Thumbnail(ctx context.Context, productID string, width int) (thumb domain.Thumbnail, err error) {
	log := s.Log.With(logging.Group("thumbnail", "productId", productID, "width", width))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "thumbnail failed", "error", err)
		} else {
			log.DebugContext(ctx, "thumbnail rendered", "type", thumb.MIMEType, "size", len(thumb.Data))
		}
	}()

	if width <= 0 || (s.Config.MaxWidth > 0 && width > s.Config.MaxWidth) {
		return thumb, fmt.Errorf("%w: width must be between 1 and %d", domain.ErrValidation, s.Config.MaxWidth)
	}

	interpol, err := getInterpolatorByName(s.Config.Interpolator)
	if err != nil {
		return thumb, err
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return thumb, err
	}

	if product.ImageCover == "" {
		return thumb, fmt.Errorf("%w: product %q has no cover image", domain.ErrNotFound, productID)
	}

	cacheID := domain.NewBlobID(product.ImageCover, width, s.Config.Interpolator)

	if data, ok := s.cached(ctx, cacheID); ok {
		log = log.With(logging.Group("thumbnail", "cached", true))

		return newThumbnail(product, data)
	}

	source, declared, err := s.Images.Fetch(ctx, product.ImageCover)
	if err != nil {
		return thumb, fmt.Errorf("fetch cover: %w", err)
	}

	mimeType, err := detectMIMEType(source, declared)
	if err != nil {
		return thumb, err
	}

	img, err := decodeImage(source, mimeType)
	if err != nil {
		return thumb, err
	}

	data, err := encodeImage(scaleToWidth(img, width, interpol), outputMIMEType(mimeType))
	if err != nil {
		return thumb, err
	}

	if s.Cache != nil {
		if err := s.Cache.Store(ctx, domain.NewBlob(cacheID, data)); err != nil {
			log.WarnContext(ctx, "thumbnail not cached", "error", err)
		}
	}

	return newThumbnail(product, data)
}

func (s *CatalogService) cached(ctx context.Context, id domain.BlobID) ([]byte, bool) {
	if s.Cache == nil {
		return nil, false
	}

	cached, err := s.Cache.Fetch(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			s.Log.WarnContext(ctx, "thumbnail cache unreadable", "id", id, "error", err)
		}

		return nil, false
	}

	if s.Config.CacheTTL > 0 && time.Since(cached.Modified) > s.Config.CacheTTL {
		return nil, false
	}

	return cached.Body, true
}

func newThumbnail(product domain.Product, data []byte) (domain.Thumbnail, error) {
	mimeType, err := detectMIMEType(data, "")
	if err != nil {
		return domain.Thumbnail{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Thumbnail{}, fmt.Errorf("decode config: %w", err)
	}

	return domain.Thumbnail{
		ProductID: product.ID,
		SourceURL: product.ImageCover,
		MIMEType:  mimeType,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Data:      data,
	}, nil
}

// PruneThumbnails drops cached thumbnails older than the configured TTL.
func (s *CatalogService) PruneThumbnails(ctx context.Context) (int, error) {
	if s.Cache == nil || s.Config.CacheTTL <= 0 {
		return 0, nil
	}

	pruned, err := s.Cache.Prune(ctx, time.Now().Add(-s.Config.CacheTTL))
	if err != nil {
		return pruned, fmt.Errorf("prune thumbnails: %w", err)
	}

	return pruned, nil
}
