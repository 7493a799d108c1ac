package catalogsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
	"github.com/mkrupp/storefront/internal/repo/blob"
)

// DefaultFeaturedLimit is the number of featured products returned for a non-positive limit.
const DefaultFeaturedLimit = 8

// API is the part of the remote API the catalog is read from.
type API interface {
	Health(ctx context.Context) bool
	Products(ctx context.Context, query domain.ProductsQuery) (domain.ListResponse[domain.Product], error)
	Product(ctx context.Context, id string) (domain.Product, error)
	Categories(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Category], error)
	Category(ctx context.Context, id string) (domain.Category, error)
	CategorySubCategories(ctx context.Context, categoryID string, query domain.ListQuery) (domain.ListResponse[domain.SubCategory], error)
	SubCategories(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.SubCategory], error)
	SubCategory(ctx context.Context, id string) (domain.SubCategory, error)
	Brands(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Brand], error)
	Brand(ctx context.Context, id string) (domain.Brand, error)
}

// CatalogService reads the public product catalog and renders product thumbnails.
type CatalogService struct {
	Config ThumbnailConfig
	API    API
	Images ImageFetcher
	Cache  blob.Repository // optional
	Log    logging.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil, in which case
// every thumbnail is rendered from the source image.
func NewCatalogService(api API, images ImageFetcher, cache blob.Repository, cfg ThumbnailConfig) *CatalogService {
	return &CatalogService{
		Config: cfg,
		API:    api,
		Images: images,
		Cache:  cache,
		Log:    logging.GetLogger("svc.catalogsvc.catalog_service"),
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, query domain.ProductsQuery) (domain.ListResponse[domain.Product], error) {
	resp, err := s.API.Products(ctx, query)
	if err != nil {
		return resp, fmt.Errorf("list products: %w", err)
	}

	return resp, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.API.Product(ctx, id)
	if err != nil {
		return product, fmt.Errorf("get product %q: %w", id, err)
	}

	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Category], error) {
	resp, err := s.API.Categories(ctx, query)
	if err != nil {
		return resp, fmt.Errorf("list categories: %w", err)
	}

	return resp, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	category, err := s.API.Category(ctx, id)
	if err != nil {
		return category, fmt.Errorf("get category %q: %w", id, err)
	}

	return category, nil
}

func (s *CatalogService) ListSubCategories(
	ctx context.Context,
	query domain.ListQuery,
) (domain.ListResponse[domain.SubCategory], error) {
	resp, err := s.API.SubCategories(ctx, query)
	if err != nil {
		return resp, fmt.Errorf("list subcategories: %w", err)
	}

	return resp, nil
}

func (s *CatalogService) GetSubCategory(ctx context.Context, id string) (domain.SubCategory, error) {
	sub, err := s.API.SubCategory(ctx, id)
	if err != nil {
		return sub, fmt.Errorf("get subcategory %q: %w", id, err)
	}

	return sub, nil
}

func (s *CatalogService) ListCategorySubCategories(
	ctx context.Context,
	categoryID string,
	query domain.ListQuery,
) (domain.ListResponse[domain.SubCategory], error) {
	resp, err := s.API.CategorySubCategories(ctx, categoryID, query)
	if err != nil {
		return resp, fmt.Errorf("list subcategories of %q: %w", categoryID, err)
	}

	return resp, nil
}

func (s *CatalogService) ListBrands(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Brand], error) {
	resp, err := s.API.Brands(ctx, query)
	if err != nil {
		return resp, fmt.Errorf("list brands: %w", err)
	}

	return resp, nil
}

func (s *CatalogService) GetBrand(ctx context.Context, id string) (domain.Brand, error) {
	brand, err := s.API.Brand(ctx, id)
	if err != nil {
		return brand, fmt.Errorf("get brand %q: %w", id, err)
	}

	return brand, nil
}

// FeaturedProducts returns up to limit products from the remote catalog.
// When the API is unhealthy, fails, or has no products, the bundled placeholder
// products are returned instead and no error is reported.
func (s *CatalogService) FeaturedProducts(ctx context.Context, limit int) (domain.FeaturedProducts, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	if s.API.Health(ctx) {
		query := domain.ProductsQuery{ListQuery: domain.ListQuery{Limit: limit}}

		resp, err := s.API.Products(ctx, query)

		switch {
		case err != nil:
			s.Log.WarnContext(ctx, "featured products unavailable, using placeholders", "error", err)
		case len(resp.Data) == 0:
			s.Log.WarnContext(ctx, "no featured products returned, using placeholders")
		default:
			products := resp.Data
			if len(products) > limit {
				products = products[:limit]
			}

			return domain.FeaturedProducts{Products: products}, nil
		}
	} else {
		s.Log.WarnContext(ctx, "remote API unhealthy, using placeholder products")
	}

	products, err := PlaceholderProducts(limit)
	if err != nil {
		return domain.FeaturedProducts{}, err
	}

	return domain.FeaturedProducts{Products: products, Placeholder: true}, nil
}
