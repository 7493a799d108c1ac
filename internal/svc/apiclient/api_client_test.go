package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/domain"
	http_ "github.com/mkrupp/storefront/internal/infra/transport/http"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/apiclient"
	"github.com/mkrupp/storefront/internal/svc/apiclient/apitest"
)

type fixture struct {
	api    *apitest.Server
	store  *session.MemoryStore
	client *apiclient.Client
	user   domain.UserProfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	api := apitest.NewServer(t)
	store := session.NewMemoryStore()

	client, err := apiclient.New(api.Config(), store)
	require.NoError(t, err)

	return &fixture{
		api:    api,
		store:  store,
		client: client,
		user:   api.AddUser("Ada", "ada@example.com", "secret123"),
	}
}

func (f *fixture) signIn(t *testing.T, ttl time.Duration) string {
	t.Helper()

	token := f.api.IssueToken(f.user.ID, ttl)
	require.NoError(t, f.store.SetAll(context.Background(), map[string]string{
		domain.StoreKeyToken:  token,
		domain.StoreKeyUser:   `{"name":"Ada","email":"ada@example.com"}`,
		domain.StoreKeyUserID: f.user.ID,
	}))

	return token
}

func (f *fixture) assertStoreCleared(t *testing.T) {
	t.Helper()

	for _, key := range domain.SessionKeys {
		_, ok, err := f.store.Get(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, ok, "key %q should be cleared", key)
	}
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	_, err := apiclient.New(http_.HTTPTransportConfig{BaseURL: "/api"}, session.NewMemoryStore())
	require.Error(t, err)
}

func TestDo_RequireAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing token fails without network call", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.client.Cart(ctx)
		require.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Equal(t, 0, f.api.TotalHits())
	})

	t.Run("expired token fails without network call and clears store", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.signIn(t, -time.Minute)

		_, err := f.client.AddCartItem(ctx, "p1")
		require.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Equal(t, "authentication required: please log in", err.Error())
		assert.Equal(t, 0, f.api.TotalHits())
		f.assertStoreCleared(t)
	})

	t.Run("malformed token fails closed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		require.NoError(t, f.store.SetAll(ctx, map[string]string{
			domain.StoreKeyToken: "not-a-jwt",
			domain.StoreKeyUser:  `{"name":"Ada"}`,
		}))

		_, err := f.client.Wishlist(ctx)
		require.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Equal(t, 0, f.api.TotalHits())
		f.assertStoreCleared(t)
	})

	t.Run("server 401 clears store", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.signIn(t, time.Hour)
		f.api.RevokeTokens()

		_, err := f.client.Cart(ctx)
		require.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Equal(t, 1, f.api.Hits(http.MethodGet, "/api/v1/cart"))
		f.assertStoreCleared(t)
	})

	t.Run("valid token is attached", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.signIn(t, time.Hour)

		resp, err := f.client.Wishlist(ctx)
		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
	})
}

func TestDo_ErrorTranslation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("401 on anonymous call keeps server message", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.client.SignIn(ctx, domain.Credentials{Email: "ada@example.com", Password: "wrong"})

		var remoteErr *domain.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
		assert.Equal(t, "Incorrect email or password", remoteErr.Message)
		assert.NotErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("validation message is extracted", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.client.SignUp(ctx, domain.SignupData{
			Name: "Bob", Email: "bob@example.com", Password: "a", RePassword: "b",
		})

		var remoteErr *domain.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "Password confirmation is incorrect", remoteErr.Message)
	})

	t.Run("other status carries status code", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.api.FailNext(http.MethodGet, "/api/v1/categories", http.StatusServiceUnavailable, "maintenance")

		_, err := f.client.Categories(ctx, domain.ListQuery{})
		assert.True(t, domain.IsStatus(err, http.StatusServiceUnavailable))
		assert.True(t, f.client.Health(ctx), "forced failure is consumed by the first call")
	})

	t.Run("no response is a network error", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.api.Close()

		_, err := f.client.Categories(ctx, domain.ListQuery{})

		var netErr *domain.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.False(t, f.client.Health(ctx))
	})
}

func TestDo_MalformedResponse(t *testing.T) {
	t.Parallel()

	server := newRawServer(t, http.StatusOK, "{not json")

	client, err := apiclient.New(http_.HTTPTransportConfig{BaseURL: server.URL, Timeout: time.Second}, session.NewMemoryStore())
	require.NoError(t, err)

	_, err = client.Categories(context.Background(), domain.ListQuery{})
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestDo_Timeout(t *testing.T) {
	t.Parallel()

	server := newSlowServer(t, 500*time.Millisecond)

	client, err := apiclient.New(http_.HTTPTransportConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, session.NewMemoryStore())
	require.NoError(t, err)

	err = client.Do(context.Background(), apiclient.Request{Path: apiclient.PathCategories}, nil)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client.Categories(ctx, domain.ListQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEndpoints_CartRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, time.Hour)

	product := f.api.AddProduct(domain.Product{Title: "Lamp", Price: 10})

	_, err := f.client.Cart(ctx)
	assert.True(t, domain.IsStatus(err, http.StatusNotFound), "no cart yet")

	added, err := f.client.AddCartItem(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, added.Data.Products, 1)
	assert.NotEmpty(t, added.CartID)

	updated, err := f.client.UpdateCartItem(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Data.Products[0].Count)
	assert.InDelta(t, 30.0, updated.Data.TotalCartPrice, 0.001)

	removed, err := f.client.RemoveCartItem(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Data.Products)

	cleared, err := f.client.ClearCart(ctx)
	require.NoError(t, err)
	assert.True(t, cleared.Succeeded())
}

func TestEndpoints_Orders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, time.Hour)

	product := f.api.AddProduct(domain.Product{Title: "Lamp", Price: 12.5})

	cart, err := f.client.AddCartItem(ctx, product.ID)
	require.NoError(t, err)

	address := domain.ShippingAddress{Details: "Main St 1", Phone: "01010700700", City: "Cairo"}

	checkout, err := f.client.CreateCheckoutSession(ctx, cart.CartID, address, "http://localhost:3000")
	require.NoError(t, err)
	assert.Contains(t, checkout.Session.URL, cart.CartID)
	assert.Equal(t, "http://localhost:3000/allorders", checkout.Session.SuccessURL)

	order, err := f.client.CreateCashOrder(ctx, cart.CartID, address)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodCash, order.Data.PaymentMethodType)
	assert.InDelta(t, 12.5, order.Data.TotalOrderPrice, 0.001)

	orders, err := f.client.UserOrders(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.Data.ID, orders[0].ID)

	all, err := f.client.AllOrders(ctx, domain.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 1)
}

func TestEndpoints_AccountAndProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, time.Hour)

	product := f.api.AddProduct(domain.Product{Title: "Lamp", Price: 10})

	added, err := f.client.AddWishlistItem(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{product.ID}, added.Data)

	removed, err := f.client.RemoveWishlistItem(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Data)

	addresses, err := f.client.AddAddress(ctx, domain.Address{Name: "Home", Details: "Main St 1", City: "Cairo"})
	require.NoError(t, err)
	require.Len(t, addresses.Data, 1)

	address, err := f.client.Address(ctx, addresses.Data[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", address.Name)

	profile, err := f.client.UpdateMe(ctx, domain.ProfileUpdate{Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", profile.User.Name)

	changed, err := f.client.ChangeMyPassword(ctx, domain.PasswordChange{
		CurrentPassword: "secret123", Password: "secret456", Confirm: "secret456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, changed.Token)
}
