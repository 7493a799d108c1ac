package accountsvc_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/logging"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/accountsvc"
	"github.com/mkrupp/storefront/internal/svc/apiclient"
	"github.com/mkrupp/storefront/internal/svc/apiclient/apitest"
)

func newService(t *testing.T, signedIn bool) (*accountsvc.AccountService, *apitest.Server) {
	t.Helper()

	api := apitest.NewServer(t)
	store := session.NewMemoryStore()

	if signedIn {
		user := api.AddUser("Ada", "ada@example.com", "secret123")
		require.NoError(t, store.SetAll(context.Background(), map[string]string{
			domain.StoreKeyToken:  api.IssueToken(user.ID, time.Hour),
			domain.StoreKeyUser:   `{"name":"Ada"}`,
			domain.StoreKeyUserID: user.ID,
		}))
	}

	client, err := apiclient.New(api.Config(), store)
	require.NoError(t, err)

	svc := accountsvc.NewAccountService(client)
	svc.Log = logging.NewNopLogger()

	return svc, api
}

func TestAccountService_Wishlist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, api := newService(t, true)

	laptop := api.AddProduct(domain.Product{Title: "Laptop", Price: 900})
	phone := api.AddProduct(domain.Product{Title: "Phone", Price: 400})

	products, err := svc.Wishlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	ids, err := svc.AddToWishlist(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{laptop.ID}, ids)

	ids, err = svc.AddToWishlist(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{laptop.ID, phone.ID}, ids)

	products, err = svc.Wishlist(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Title)

	ids, err = svc.RemoveFromWishlist(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{phone.ID}, ids)

	_, err = svc.AddToWishlist(ctx, "missing")
	assert.True(t, domain.IsStatus(err, http.StatusNotFound))

	_, err = svc.AddToWishlist(ctx, " ")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccountService_Addresses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, api := newService(t, true)

	addresses, err := svc.Addresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, addresses)

	home := domain.Address{Name: "Home", Details: "1 Main St", Phone: "01000000000", City: "Cairo"}

	addresses, err = svc.AddAddress(ctx, home)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.NotEmpty(t, addresses[0].ID)

	got, err := svc.GetAddress(ctx, addresses[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Cairo", got.City)

	addresses, err = svc.RemoveAddress(ctx, got.ID)
	require.NoError(t, err)
	assert.Empty(t, addresses)

	_, err = svc.GetAddress(ctx, got.ID)
	assert.True(t, domain.IsStatus(err, http.StatusNotFound))

	hits := api.TotalHits()

	_, err = svc.AddAddress(ctx, domain.Address{Name: "Work", City: "Giza"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, hits, api.TotalHits(), "invalid addresses are not sent")
}

func TestAccountService_RequiresAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, api := newService(t, false)

	calls := map[string]func() error{
		"wishlist": func() error { _, err := svc.Wishlist(ctx); return err },
		"add":      func() error { _, err := svc.AddToWishlist(ctx, "p1"); return err },
		"remove":   func() error { _, err := svc.RemoveFromWishlist(ctx, "p1"); return err },
		"list":     func() error { _, err := svc.Addresses(ctx); return err },
		"get":      func() error { _, err := svc.GetAddress(ctx, "a1"); return err },
		"delete":   func() error { _, err := svc.RemoveAddress(ctx, "a1"); return err },
	}

	for name, call := range calls {
		require.ErrorIs(t, call(), domain.ErrAuthRequired, name)
	}

	assert.Zero(t, api.TotalHits())
}
