package catalogsvc_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
	"github.com/mkrupp/storefront/internal/repo/blob"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/apiclient"
	"github.com/mkrupp/storefront/internal/svc/apiclient/apitest"
	"github.com/mkrupp/storefront/internal/svc/catalogsvc"
)

func testConfig() catalogsvc.ThumbnailConfig {
	return catalogsvc.ThumbnailConfig{
		Interpolator: "catmullrom",
		MaxWidth:     256,
		MaxBytes:     1 << 20,
		CacheTTL:     time.Hour,
	}
}

func newService(t *testing.T, api *apitest.Server, cache blob.Repository) *catalogsvc.CatalogService {
	t.Helper()

	client, err := apiclient.New(api.Config(), session.NewMemoryStore())
	require.NoError(t, err)

	svc := catalogsvc.NewCatalogService(client, catalogsvc.NewHTTPImageFetcher(nil, testConfig().MaxBytes), cache, testConfig())
	svc.Log = logging.NewNopLogger()

	return svc
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255}) //nolint:gosec
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

// newImageServer serves body at /cover and counts the downloads.
func newImageServer(t *testing.T, contentType string, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cover" {
			http.NotFound(w, r)

			return
		}

		hits.Add(1)
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestCatalogService_Listings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	api := apitest.NewServer(t)
	svc := newService(t, api, nil)

	api.AddProduct(domain.Product{ID: "p1", Title: "Laptop", Price: 100})
	api.AddProduct(domain.Product{ID: "p2", Title: "Phone", Price: 50})

	products, err := svc.ListProducts(ctx, domain.ProductsQuery{Keyword: "lap"})
	require.NoError(t, err)
	require.Len(t, products.Data, 1)
	assert.Equal(t, "Laptop", products.Data[0].Title)

	product, err := svc.GetProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Phone", product.Title)

	_, err = svc.GetProduct(ctx, "missing")
	assert.True(t, domain.IsStatus(err, http.StatusNotFound))

	categories, err := svc.ListCategories(ctx, domain.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, categories.Data, 2)

	category, err := svc.GetCategory(ctx, "cat-2")
	require.NoError(t, err)
	assert.Equal(t, "Women's Fashion", category.Name)

	subs, err := svc.ListCategorySubCategories(ctx, "cat-1", domain.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, subs.Data, 2)

	allSubs, err := svc.ListSubCategories(ctx, domain.ListQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, allSubs.Data, 1)

	sub, err := svc.GetSubCategory(ctx, "sub-3")
	require.NoError(t, err)
	assert.Equal(t, "cat-2", sub.Category)

	brands, err := svc.ListBrands(ctx, domain.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, brands.Data, 2)

	brand, err := svc.GetBrand(ctx, "brand-2")
	require.NoError(t, err)
	assert.Equal(t, "Puma", brand.Name)
}

func TestCatalogService_FeaturedProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns live products", func(t *testing.T) {
		t.Parallel()

		api := apitest.NewServer(t)
		svc := newService(t, api, nil)

		for _, title := range []string{"a", "b", "c"} {
			api.AddProduct(domain.Product{Title: title})
		}

		featured, err := svc.FeaturedProducts(ctx, 2)
		require.NoError(t, err)
		assert.False(t, featured.Placeholder)
		assert.Len(t, featured.Products, 2)
	})

	t.Run("falls back when the catalog is empty", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, apitest.NewServer(t), nil)

		featured, err := svc.FeaturedProducts(ctx, 0)
		require.NoError(t, err)
		assert.True(t, featured.Placeholder)
		assert.Len(t, featured.Products, 6)
	})

	t.Run("falls back when the API is unhealthy", func(t *testing.T) {
		t.Parallel()

		api := apitest.NewServer(t)
		api.AddProduct(domain.Product{Title: "live"})
		api.FailNext(http.MethodGet, "/api/v1/categories", http.StatusServiceUnavailable, "down")

		svc := newService(t, api, nil)

		featured, err := svc.FeaturedProducts(ctx, 3)
		require.NoError(t, err)
		assert.True(t, featured.Placeholder)
		assert.Len(t, featured.Products, 3)
		assert.Zero(t, api.Hits(http.MethodGet, "/api/v1/products"))
	})

	t.Run("falls back when listing fails", func(t *testing.T) {
		t.Parallel()

		api := apitest.NewServer(t)
		api.AddProduct(domain.Product{Title: "live"})
		api.FailNext(http.MethodGet, "/api/v1/products", http.StatusInternalServerError, "boom")

		svc := newService(t, api, nil)

		featured, err := svc.FeaturedProducts(ctx, 3)
		require.NoError(t, err)
		assert.True(t, featured.Placeholder)
	})
}

func TestPlaceholderProducts(t *testing.T) {
	t.Parallel()

	all, err := catalogsvc.PlaceholderProducts(0)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for _, p := range all {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.Positive(t, p.Price)
	}

	two, err := catalogsvc.PlaceholderProducts(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	two[0].Title = "mutated"

	again, err := catalogsvc.PlaceholderProducts(2)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Title)
}

func TestCatalogService_Thumbnail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("scales the cover to width", func(t *testing.T) {
		t.Parallel()

		images, hits := newImageServer(t, "image/png", encodePNG(t, 200, 100))
		api := apitest.NewServer(t)
		api.AddProduct(domain.Product{ID: "p1", ImageCover: images.URL + "/cover"})

		cache, err := blob.NewFileSystemBlobRepository(ctx, "thumbnails",
			blob.FileSystemBlobRepositoryConfig{Basedir: t.TempDir()})
		require.NoError(t, err)

		svc := newService(t, api, cache)

		thumb, err := svc.Thumbnail(ctx, "p1", 50)
		require.NoError(t, err)
		assert.Equal(t, catalogsvc.MIMETypePNG, thumb.MIMEType)
		assert.Equal(t, 50, thumb.Width)
		assert.Equal(t, 25, thumb.Height)
		assert.Equal(t, "p1", thumb.ProductID)

		decoded, err := png.Decode(bytes.NewReader(thumb.Data))
		require.NoError(t, err)
		assert.Equal(t, 50, decoded.Bounds().Dx())

		cached, err := svc.Thumbnail(ctx, "p1", 50)
		require.NoError(t, err)
		assert.Equal(t, thumb.Data, cached.Data)
		assert.Equal(t, int32(1), hits.Load(), "second render is served from the cache")

		_, err = svc.Thumbnail(ctx, "p1", 100)
		require.NoError(t, err)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("does not upscale", func(t *testing.T) {
		t.Parallel()

		images, _ := newImageServer(t, "image/png", encodePNG(t, 40, 20))
		api := apitest.NewServer(t)
		api.AddProduct(domain.Product{ID: "p1", ImageCover: images.URL + "/cover"})

		thumb, err := newService(t, api, nil).Thumbnail(ctx, "p1", 200)
		require.NoError(t, err)
		assert.Equal(t, 40, thumb.Width)
		assert.Equal(t, 20, thumb.Height)
	})

	tests := []struct {
		name    string
		product domain.Product
		body    []byte
		width   int
		wantErr error
	}{
		{
			name:    "rejects zero width",
			product: domain.Product{ID: "p1", ImageCover: "/cover"},
			width:   0,
			wantErr: domain.ErrValidation,
		},
		{
			name:    "rejects width above maximum",
			product: domain.Product{ID: "p1", ImageCover: "/cover"},
			width:   512,
			wantErr: domain.ErrValidation,
		},
		{
			name:    "requires a cover image",
			product: domain.Product{ID: "p1"},
			width:   10,
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "rejects unknown formats",
			product: domain.Product{ID: "p1", ImageCover: "/cover"},
			body:    []byte("GIF89a not supported"),
			width:   10,
			wantErr: domain.ErrImageTypeNotSupported,
		},
		{
			name:    "rejects oversized downloads",
			product: domain.Product{ID: "p1", ImageCover: "/cover"},
			body:    bytes.Repeat([]byte{0x89}, 2<<20),
			width:   10,
			wantErr: domain.ErrImageTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			images, _ := newImageServer(t, "application/octet-stream", tt.body)
			api := apitest.NewServer(t)

			product := tt.product
			if product.ImageCover != "" {
				product.ImageCover = images.URL + product.ImageCover
			}

			api.AddProduct(product)

			_, err := newService(t, api, nil).Thumbnail(ctx, "p1", tt.width)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
