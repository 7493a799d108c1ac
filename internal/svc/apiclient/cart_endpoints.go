package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mkrupp/storefront/internal/domain"
)

// Cart returns the remote cart of the signed-in user.
func (c *Client) Cart(ctx context.Context) (domain.CartResponse, error) {
	var resp domain.CartResponse

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathCart, RequireAuth: true}, &resp)

	return resp, err
}

// AddCartItem adds one unit of a product to the remote cart.
func (c *Client) AddCartItem(ctx context.Context, productID string) (domain.CartResponse, error) {
	var resp domain.CartResponse

	err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        PathCart,
		Body:        map[string]string{"productId": productID},
		RequireAuth: true,
	}, &resp)

	return resp, err
}

// UpdateCartItem sets the count of a product in the remote cart.
// The API addresses cart entries by product id and expects the count as a string.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, count int) (domain.CartResponse, error) {
	var resp domain.CartResponse

	err := c.Do(ctx, Request{
		Method:      http.MethodPut,
		Path:        resourcePath(PathCart, productID),
		Body:        map[string]string{"count": strconv.Itoa(count)},
		RequireAuth: true,
	}, &resp)

	return resp, err
}

// RemoveCartItem removes a product from the remote cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) (domain.CartResponse, error) {
	var resp domain.CartResponse

	err := c.Do(ctx, Request{Method: http.MethodDelete, Path: resourcePath(PathCart, productID), RequireAuth: true}, &resp)

	return resp, err
}

// ClearCart empties the remote cart.
func (c *Client) ClearCart(ctx context.Context) (domain.MessageResponse, error) {
	var resp domain.MessageResponse

	err := c.Do(ctx, Request{Method: http.MethodDelete, Path: PathCart, RequireAuth: true}, &resp)

	return resp, err
}
