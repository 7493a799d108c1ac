package cartsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
)

// API is the part of the remote API the cart session manager talks to.
type API interface {
	Token(ctx context.Context) (string, bool, error)
	Cart(ctx context.Context) (domain.CartResponse, error)
	AddCartItem(ctx context.Context, productID string) (domain.CartResponse, error)
	UpdateCartItem(ctx context.Context, productID string, count int) (domain.CartResponse, error)
	RemoveCartItem(ctx context.Context, productID string) (domain.CartResponse, error)
	ClearCart(ctx context.Context) (domain.MessageResponse, error)
}

// CartService mirrors the remote cart of the signed-in user.
//
// The local lines are never patched: every successful mutation is followed by a
// full reload and the lines are replaced wholesale with what the remote API reports.
// Mutations are serialized, so back-to-back calls observe each other in issue order.
type CartService struct {
	API API
	Log logging.Logger

	state    domain.CartState
	stateM   sync.Mutex
	mutation sync.Mutex
}

// NewCartService creates a new CartService backed by api.
func NewCartService(api API) *CartService {
	return &CartService{
		API:   api,
		Log:   logging.GetLogger("svc.cartsvc.cart_service"),
		state: domain.CartState{Lines: []domain.CartLine{}},
	}
}

// State returns a snapshot of the cart.
func (s *CartService) State() domain.CartState {
	s.stateM.Lock()
	defer s.stateM.Unlock()

	state := s.state
	state.Lines = slices.Clone(s.state.Lines)

	return state
}

// Lines returns the current cart lines.
func (s *CartService) Lines() []domain.CartLine {
	return s.State().Lines
}

// TotalItems returns the sum of the line counts, computed from the current lines.
func (s *CartService) TotalItems() int {
	return s.State().TotalItems()
}

// TotalPrice returns the sum of (discounted price or unit price) * count,
// computed from the current lines.
func (s *CartService) TotalPrice() float64 {
	return s.State().TotalPrice()
}

// CartID returns the remote cart id, empty when no cart was loaded.
func (s *CartService) CartID() string {
	return s.State().CartID
}

func (s *CartService) dispatch(action Action) {
	s.stateM.Lock()
	defer s.stateM.Unlock()

	s.state = Reduce(s.state, action)
}

// Start loads the cart when a token is stored. Without one the cart stays empty
// and no request is made.
func (s *CartService) Start(ctx context.Context) error {
	_, ok, err := s.API.Token(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	if !ok {
		s.Log.DebugContext(ctx, "no session, cart not loaded")

		return nil
	}

	return s.LoadCart(ctx)
}

// LoadCart replaces the lines with the remote cart.
// A user without a remote cart has an empty one.
func (s *CartService) LoadCart(ctx context.Context) (err error) {
	defer s.logResult(ctx, "load cart", &err)

	s.mutation.Lock()
	defer s.mutation.Unlock()

	return s.load(ctx)
}

func (s *CartService) load(ctx context.Context) error {
	s.dispatch(ActionSetLoading{Loading: true})

	resp, err := s.API.Cart(ctx)
	if err != nil {
		if domain.IsStatus(err, http.StatusNotFound) {
			s.dispatch(ActionLoadSuccess{})

			return nil
		}

		return s.failed(fmt.Errorf("load cart: %w", err))
	}

	cartID := resp.CartID
	if cartID == "" {
		cartID = resp.Data.ID
	}

	s.dispatch(ActionLoadSuccess{Lines: ToCartLines(resp.Data), CartID: cartID})

	return nil
}

// failed records err. Auth-required failures collapse the cart and are
// returned as domain.ErrAuthRequired itself.
func (s *CartService) failed(err error) error {
	if errors.Is(err, domain.ErrAuthRequired) {
		err = domain.ErrAuthRequired
	}

	s.dispatch(ActionSetError{Err: err})

	return err
}

// AddToCart adds one unit of the product and reloads the cart.
// Without a valid session it fails with domain.ErrAuthRequired before any cart request.
func (s *CartService) AddToCart(ctx context.Context, productID string) (err error) {
	defer s.logResult(ctx, "add to cart", &err, "productId", productID)

	if productID == "" {
		return s.failed(fmt.Errorf("%w: product id is required", domain.ErrValidation))
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	s.dispatch(ActionSetLoading{Loading: true})

	if _, err := s.API.AddCartItem(ctx, productID); err != nil {
		return s.failed(fmt.Errorf("add to cart: %w", err))
	}

	return s.load(ctx)
}

// UpdateQuantity sets the count of a line and reloads the cart.
// A count below 1 removes the line instead.
func (s *CartService) UpdateQuantity(ctx context.Context, lineID string, count int) (err error) {
	if count < 1 {
		return s.RemoveFromCart(ctx, lineID)
	}

	defer s.logResult(ctx, "update quantity", &err, "lineId", lineID, "count", count)

	s.mutation.Lock()
	defer s.mutation.Unlock()

	line, err := s.line(lineID)
	if err != nil {
		return err
	}

	s.dispatch(ActionSetLoading{Loading: true})

	if _, err := s.API.UpdateCartItem(ctx, line.ProductID, count); err != nil {
		return s.failed(fmt.Errorf("update quantity: %w", err))
	}

	return s.load(ctx)
}

// RemoveFromCart removes a line and reloads the cart.
// A line unknown locally fails with domain.ErrNotFound without any request.
func (s *CartService) RemoveFromCart(ctx context.Context, lineID string) (err error) {
	defer s.logResult(ctx, "remove from cart", &err, "lineId", lineID)

	s.mutation.Lock()
	defer s.mutation.Unlock()

	line, err := s.line(lineID)
	if err != nil {
		return err
	}

	s.dispatch(ActionSetLoading{Loading: true})

	if _, err := s.API.RemoveCartItem(ctx, line.ProductID); err != nil {
		return s.failed(fmt.Errorf("remove from cart: %w", err))
	}

	return s.load(ctx)
}

// ClearCart empties the remote cart. The local lines are emptied directly
// since the remote cart is known to be empty. A response envelope that does not
// report success fails with a *domain.RemoteError and keeps the lines.
func (s *CartService) ClearCart(ctx context.Context) (err error) {
	defer s.logResult(ctx, "clear cart", &err)

	s.mutation.Lock()
	defer s.mutation.Unlock()

	s.dispatch(ActionSetLoading{Loading: true})

	resp, err := s.API.ClearCart(ctx)
	if err != nil {
		return s.failed(fmt.Errorf("clear cart: %w", err))
	}

	if !resp.Succeeded() {
		return s.failed(fmt.Errorf("clear cart: %w", &domain.RemoteError{Status: http.StatusOK, Message: resp.Text()}))
	}

	s.dispatch(ActionClearSuccess{})

	return nil
}

// line resolves a line by its line id, or by product id as a fallback.
func (s *CartService) line(id string) (domain.CartLine, error) {
	lines := s.Lines()

	for _, line := range lines {
		if line.LineID == id {
			return line, nil
		}
	}

	for _, line := range lines {
		if line.ProductID == id {
			return line, nil
		}
	}

	return domain.CartLine{}, s.failed(fmt.Errorf("%w: cart line %q", domain.ErrNotFound, id))
}

func (s *CartService) logResult(ctx context.Context, op string, errp *error, attrs ...any) {
	log := s.Log.With(attrs...)

	if err := *errp; err != nil {
		log.ErrorContext(ctx, op+" failed", "error", err)
	} else {
		state := s.State()
		log.DebugContext(ctx, op+" successful", logging.Group("cart",
			"id", state.CartID,
			"lines", len(state.Lines),
			"items", state.TotalItems(),
		))
	}
}
