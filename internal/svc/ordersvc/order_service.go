package ordersvc

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
	"github.com/mkrupp/storefront/internal/repo/session"
)

// OrderConfig holds configuration for placing orders.
type OrderConfig struct {
	// ReturnURL is where the hosted card checkout redirects to when no URL is given.
	ReturnURL string `env:"RETURN_URL" default:"http://localhost:3000"`
}

// API is the part of the remote API orders are placed and read through.
type API interface {
	AllOrders(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Order], error)
	UserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	CreateCashOrder(ctx context.Context, cartID string, address domain.ShippingAddress) (domain.OrderResponse, error)
	CreateCheckoutSession(
		ctx context.Context,
		cartID string,
		address domain.ShippingAddress,
		returnURL string,
	) (domain.CheckoutSessionResponse, error)
}

// Cart is the cart session an order is placed from.
type Cart interface {
	CartID() string
	LoadCart(ctx context.Context) error
}

// OrderService places orders from the current cart and lists past orders.
type OrderService struct {
	Config OrderConfig
	API    API
	Cart   Cart
	Store  session.Store
	Log    logging.Logger
}

// NewOrderService creates a new OrderService that checks out the cart tracked by cart.
func NewOrderService(api API, cart Cart, store session.Store, cfg OrderConfig) *OrderService {
	return &OrderService{
		Config: cfg,
		API:    api,
		Cart:   cart,
		Store:  store,
		Log:    logging.GetLogger("svc.ordersvc.order_service"),
	}
}

// UserOrders lists the orders of the signed-in user.
func (s *OrderService) UserOrders(ctx context.Context) ([]domain.Order, error) {
	userID, ok, err := s.Store.Get(ctx, domain.StoreKeyUserID)
	if err != nil {
		return nil, fmt.Errorf("get user id: %w", err)
	}

	if !ok || userID == "" {
		return nil, domain.ErrAuthRequired
	}

	orders, err := s.API.UserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}

	return orders, nil
}

// AllOrders lists every order the API exposes to the signed-in user.
func (s *OrderService) AllOrders(ctx context.Context, query domain.ListQuery) (domain.ListResponse[domain.Order], error) {
	resp, err := s.API.AllOrders(ctx, query)
	if err != nil {
		return resp, fmt.Errorf("list orders: %w", err)
	}

	return resp, nil
}

// CreateCashOrder places a cash-on-delivery order for the current cart.
// The cart is reloaded afterwards, since the API empties it.
func (s *OrderService) CreateCashOrder(ctx context.Context, address domain.ShippingAddress) (order domain.Order, err error) {
	defer s.logResult(ctx, "create cash order", &err)

	cartID, err := s.checkout(address)
	if err != nil {
		return order, err
	}

	resp, err := s.API.CreateCashOrder(ctx, cartID, address)
	if err != nil {
		return order, fmt.Errorf("create cash order: %w", err)
	}

	if err := s.Cart.LoadCart(ctx); err != nil {
		s.Log.WarnContext(ctx, "cart not reloaded after order", "error", err)
	}

	return resp.Data, nil
}

// CreateCheckoutSession opens a hosted card payment for the current cart and
// returns the URL to complete it at. An empty returnURL uses the configured one.
func (s *OrderService) CreateCheckoutSession(
	ctx context.Context,
	address domain.ShippingAddress,
	returnURL string,
) (paymentURL string, err error) {
	defer s.logResult(ctx, "create checkout session", &err)

	cartID, err := s.checkout(address)
	if err != nil {
		return "", err
	}

	if returnURL == "" {
		returnURL = s.Config.ReturnURL
	}

	if u, err := url.Parse(returnURL); err != nil || !u.IsAbs() {
		return "", fmt.Errorf("%w: return url must be absolute", domain.ErrValidation)
	}

	resp, err := s.API.CreateCheckoutSession(ctx, cartID, address, returnURL)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	if resp.Session.URL == "" {
		return "", fmt.Errorf("%w: checkout session has no url", domain.ErrMalformedResponse)
	}

	return resp.Session.URL, nil
}

func (s *OrderService) checkout(address domain.ShippingAddress) (string, error) {
	if err := address.Validate(); err != nil {
		return "", err
	}

	cartID := s.Cart.CartID()
	if cartID == "" {
		return "", fmt.Errorf("%w: no cart to check out", domain.ErrNotFound)
	}

	return cartID, nil
}

func (s *OrderService) logResult(ctx context.Context, op string, err *error) {
	if *err != nil {
		s.Log.ErrorContext(ctx, op+" failed", "error", *err)
	} else {
		s.Log.DebugContext(ctx, op)
	}
}
