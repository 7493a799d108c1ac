package accountsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
)

// API is the part of the remote API holding the wishlist and saved addresses.
type API interface {
	Wishlist(ctx context.Context) (domain.WishlistResponse, error)
	AddWishlistItem(ctx context.Context, productID string) (domain.WishlistMutationResponse, error)
	RemoveWishlistItem(ctx context.Context, productID string) (domain.WishlistMutationResponse, error)
	Addresses(ctx context.Context) (domain.AddressesResponse, error)
	AddAddress(ctx context.Context, address domain.Address) (domain.AddressesResponse, error)
	Address(ctx context.Context, id string) (domain.Address, error)
	RemoveAddress(ctx context.Context, id string) (domain.AddressesResponse, error)
}

// AccountService manages the wishlist and saved addresses of the signed-in user.
// It keeps no local state; every call goes to the remote API.
type AccountService struct {
	API API
	Log logging.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(api API) *AccountService {
	return &AccountService{
		API: api,
		Log: logging.GetLogger("svc.accountsvc.account_service"),
	}
}

// Wishlist returns the wishlisted products.
func (s *AccountService) Wishlist(ctx context.Context) ([]domain.Product, error) {
	resp, err := s.API.Wishlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	if resp.Data == nil {
		return []domain.Product{}, nil
	}

	return resp.Data, nil
}

// AddToWishlist adds a product and returns the wishlisted product ids.
func (s *AccountService) AddToWishlist(ctx context.Context, productID string) (ids []string, err error) {
	defer s.logResult(ctx, "add to wishlist", &err, "productId", productID)

	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrValidation)
	}

	resp, err := s.API.AddWishlistItem(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}

	return resp.Data, nil
}

// RemoveFromWishlist removes a product and returns the remaining product ids.
func (s *AccountService) RemoveFromWishlist(ctx context.Context, productID string) (ids []string, err error) {
	defer s.logResult(ctx, "remove from wishlist", &err, "productId", productID)

	resp, err := s.API.RemoveWishlistItem(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("remove wishlist item: %w", err)
	}

	return resp.Data, nil
}

// Addresses returns the saved addresses.
func (s *AccountService) Addresses(ctx context.Context) ([]domain.Address, error) {
	resp, err := s.API.Addresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("get addresses: %w", err)
	}

	if resp.Data == nil {
		return []domain.Address{}, nil
	}

	return resp.Data, nil
}

// AddAddress saves an address and returns all saved addresses.
// Incomplete addresses fail with domain.ErrValidation before any request.
func (s *AccountService) AddAddress(ctx context.Context, address domain.Address) (addresses []domain.Address, err error) {
	defer s.logResult(ctx, "add address", &err, "name", address.Name)

	if err := address.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.API.AddAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}

	return resp.Data, nil
}

// GetAddress returns a single saved address.
func (s *AccountService) GetAddress(ctx context.Context, id string) (domain.Address, error) {
	address, err := s.API.Address(ctx, id)
	if err != nil {
		return address, fmt.Errorf("get address %q: %w", id, err)
	}

	return address, nil
}

// RemoveAddress deletes a saved address and returns the remaining ones.
func (s *AccountService) RemoveAddress(ctx context.Context, id string) (addresses []domain.Address, err error) {
	defer s.logResult(ctx, "remove address", &err, "addressId", id)

	resp, err := s.API.RemoveAddress(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove address: %w", err)
	}

	return resp.Data, nil
}

func (s *AccountService) logResult(ctx context.Context, op string, err *error, args ...any) {
	log := s.Log.With(args...)

	if *err != nil {
		log.ErrorContext(ctx, op+" failed", "error", *err)
	} else {
		log.DebugContext(ctx, op)
	}
}
