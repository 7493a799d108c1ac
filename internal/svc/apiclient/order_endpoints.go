package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mkrupp/storefront/internal/domain"
)

type shippingAddressBody struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// AllOrders lists every order visible to the signed-in user.
func (c *Client) AllOrders(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Order], error) {
	var resp domain.ListResponse[domain.Order]

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathOrders, Query: query.Values(), RequireAuth: true}, &resp)

	return resp, err
}

// UserOrders lists the orders of a user. The API answers either with a bare
// array or with a list envelope; both are accepted.
func (c *Client) UserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	var raw json.RawMessage

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: resourcePath(PathUserOrders, userID), RequireAuth: true}, &raw)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return []domain.Order{}, nil
	}

	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err == nil {
		return orders, nil
	}

	var envelope domain.ListResponse[domain.Order]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Join(domain.ErrMalformedResponse, fmt.Errorf("decode user orders: %w", err))
	}

	return envelope.Data, nil
}

// CreateCashOrder places a cash-on-delivery order for the given cart.
func (c *Client) CreateCashOrder(
	ctx context.Context,
	cartID string,
	address domain.ShippingAddress,
) (domain.OrderResponse, error) {
	var resp domain.OrderResponse

	err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        resourcePath("orders", cartID),
		Body:        shippingAddressBody{ShippingAddress: address},
		RequireAuth: true,
	}, &resp)

	return resp, err
}

// CreateCheckoutSession opens a hosted card payment session for the given cart.
// The payment provider redirects back to returnURL when done.
func (c *Client) CreateCheckoutSession(
	ctx context.Context,
	cartID string,
	address domain.ShippingAddress,
	returnURL string,
) (domain.CheckoutSessionResponse, error) {
	var resp domain.CheckoutSessionResponse

	err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        resourcePath(PathCheckoutSession, cartID),
		Query:       url.Values{"url": {returnURL}},
		Body:        shippingAddressBody{ShippingAddress: address},
		RequireAuth: true,
	}, &resp)

	return resp, err
}
