package apiclient

import (
	"context"
	"net/http"

	"github.com/mkrupp/storefront/internal/domain"
)

func list[T any](ctx context.Context, c *Client, path string, query domain.ListQuery) (domain.ListResponse[T], error) {
	var resp domain.ListResponse[T]

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query.Values()}, &resp)

	return resp, err
}

func item[T any](ctx context.Context, c *Client, path string) (T, error) {
	var resp domain.ItemResponse[T]

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: path}, &resp)

	return resp.Data, err
}

// Products lists products matching the query.
func (c *Client) Products(ctx context.Context, query domain.ProductsQuery) (domain.ListResponse[domain.Product], error) {
	var resp domain.ListResponse[domain.Product]

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathProducts, Query: query.Values()}, &resp)

	return resp, err
}

// Product returns a single product.
func (c *Client) Product(ctx context.Context, id string) (domain.Product, error) {
	return item[domain.Product](ctx, c, resourcePath(PathProducts, id))
}

// Categories lists categories.
func (c *Client) Categories(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Category], error) {
	return list[domain.Category](ctx, c, PathCategories, query)
}

// Category returns a single category.
func (c *Client) Category(ctx context.Context, id string) (domain.Category, error) {
	return item[domain.Category](ctx, c, resourcePath(PathCategories, id))
}

// CategorySubCategories lists the subcategories of a category.
func (c *Client) CategorySubCategories(
	ctx context.Context,
	categoryID string,
	query domain.ListQuery,
) (domain.ListResponse[domain.SubCategory], error) {
	return list[domain.SubCategory](ctx, c, resourcePath(PathCategories, categoryID)+"/"+PathSubCategories, query)
}

// SubCategories lists subcategories.
func (c *Client) SubCategories(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.SubCategory], error) {
	return list[domain.SubCategory](ctx, c, PathSubCategories, query)
}

// SubCategory returns a single subcategory.
func (c *Client) SubCategory(ctx context.Context, id string) (domain.SubCategory, error) {
	return item[domain.SubCategory](ctx, c, resourcePath(PathSubCategories, id))
}

// Brands lists brands.
func (c *Client) Brands(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Brand], error) {
	return list[domain.Brand](ctx, c, PathBrands, query)
}

// Brand returns a single brand.
func (c *Client) Brand(ctx context.Context, id string) (domain.Brand, error) {
	return item[domain.Brand](ctx, c, resourcePath(PathBrands, id))
}
