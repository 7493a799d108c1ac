package apiclient

import (
	"context"
	"net/http"

	"github.com/mkrupp/storefront/internal/domain"
)

// Wishlist returns the wishlisted products of the signed-in user.
func (c *Client) Wishlist(ctx context.Context) (domain.WishlistResponse, error) {
	var resp domain.WishlistResponse

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathWishlist, RequireAuth: true}, &resp)

	return resp, err
}

// AddWishlistItem adds a product to the wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, productID string) (domain.WishlistMutationResponse, error) {
	var resp domain.WishlistMutationResponse

	err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        PathWishlist,
		Body:        map[string]string{"productId": productID},
		RequireAuth: true,
	}, &resp)

	return resp, err
}

// RemoveWishlistItem removes a product from the wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID string) (domain.WishlistMutationResponse, error) {
	var resp domain.WishlistMutationResponse

	err := c.Do(ctx, Request{
		Method:      http.MethodDelete,
		Path:        resourcePath(PathWishlist, productID),
		RequireAuth: true,
	}, &resp)

	return resp, err
}

// Addresses lists the saved addresses of the signed-in user.
func (c *Client) Addresses(ctx context.Context) (domain.AddressesResponse, error) {
	var resp domain.AddressesResponse

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathAddresses, RequireAuth: true}, &resp)

	return resp, err
}

// AddAddress saves an address. The response lists all saved addresses.
func (c *Client) AddAddress(ctx context.Context, address domain.Address) (domain.AddressesResponse, error) {
	var resp domain.AddressesResponse

	address.ID = ""

	err := c.Do(ctx, Request{Method: http.MethodPost, Path: PathAddresses, Body: address, RequireAuth: true}, &resp)

	return resp, err
}

// Address returns a single saved address.
func (c *Client) Address(ctx context.Context, id string) (domain.Address, error) {
	var resp domain.AddressResponse

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: resourcePath(PathAddresses, id), RequireAuth: true}, &resp)

	return resp.Data, err
}

// RemoveAddress deletes a saved address. The response lists the remaining addresses.
func (c *Client) RemoveAddress(ctx context.Context, id string) (domain.AddressesResponse, error) {
	var resp domain.AddressesResponse

	err := c.Do(ctx, Request{Method: http.MethodDelete, Path: resourcePath(PathAddresses, id), RequireAuth: true}, &resp)

	return resp, err
}
