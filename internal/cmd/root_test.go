package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/storefront/internal/cmd"
	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/format"
	"github.com/mkrupp/storefront/internal/repo/blob"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/apiclient/apitest"
	"github.com/mkrupp/storefront/internal/svc/authsvc"
	"github.com/mkrupp/storefront/internal/svc/catalogsvc"
	"github.com/mkrupp/storefront/internal/svc/ordersvc"
)

type harness struct {
	app *cmd.App
	api *apitest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := apitest.NewServer(t)

	app, err := cmd.NewApp(context.Background(), cmd.Config{
		API:     api.Config(),
		Session: session.StoreConfig{Driver: "memory"},
		Auth:    authsvc.AuthConfig{SweepInterval: time.Minute},
		Thumbnail: catalogsvc.ThumbnailConfig{
			Interpolator: "bilinear",
			MaxWidth:     512,
			MaxBytes:     1 << 20,
			CacheTTL:     time.Hour,
		},
		Cache: blob.FileSystemBlobRepositoryConfig{Basedir: t.TempDir()},
		Order: ordersvc.OrderConfig{ReturnURL: "http://localhost:3000"},
		Price: format.PriceConfig{Locale: "en-US", Symbol: "$"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	api.AddUser("Ada", "ada@example.com", "secret123")

	return &harness{app: app, api: api}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := cmd.NewRootCommand(h.app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()

	_, err := h.run(t, "", "login", "--email", "ada@example.com", "--password", "secret123")
	require.NoError(t, err)
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCommand(newHarness(t).app)

	want := []string{
		"health", "login", "signup", "logout", "whoami", "profile", "password", "products",
		"categories", "subcategories", "brands", "cart", "wishlist", "addresses", "orders",
		"checkout", "cache",
	}

	for _, name := range want {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}

	for _, flag := range []string{"output", "compact", "trace-id"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestSessionCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	out, err := h.run(t, "secret123\n", "login", "--email", "ada@example.com", "--password", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada <ada@example.com>")

	out, err = h.run(t, "", "whoami", "-o", "json")
	require.NoError(t, err)

	var who struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &who))
	assert.Equal(t, "Ada", who.Name)
	assert.NotEmpty(t, who.UserID)

	out, err = h.run(t, "", "profile", "update", "--name", "Ada L.")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada L.")

	_, err = h.run(t, "", "logout")
	require.NoError(t, err)

	_, err = h.run(t, "", "whoami")
	require.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = h.run(t, "", "login", "--email", "ada@example.com", "--password", "wrong")

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Incorrect email or password", remoteErr.Message)
}

func TestCartCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	laptop := h.api.AddProduct(domain.Product{Title: "Laptop", Price: 100})

	hits := h.api.TotalHits()
	_, err := h.run(t, "", "cart", "add", laptop.ID)
	require.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Equal(t, hits, h.api.TotalHits(), "no request without a session")

	h.login(t)

	_, err = h.run(t, "", "cart", "add", laptop.ID)
	require.NoError(t, err)

	out, err := h.run(t, "", "cart", "update", "-o", "json", "--trace-id", "0O1I-l", laptop.ID, "3")
	require.NoError(t, err)

	var cart struct {
		Lines []struct {
			ProductID string `json:"productId"`
			Count     int    `json:"count"`
		} `json:"lines"`
		TotalItems int     `json:"totalItems"`
		TotalPrice float64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cart))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Count)
	assert.Equal(t, 3, cart.TotalItems)
	assert.InDelta(t, 300.0, cart.TotalPrice, 0.001)

	out, err = h.run(t, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "3 items, total $300.00")

	out, err = h.run(t, "", "cart", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")

	_, err = h.run(t, "", "cart", "update", laptop.ID, "many")
	require.Error(t, err)

	for _, count := range []string{"-1", "0"} {
		_, err = h.run(t, "", "cart", "add", laptop.ID)
		require.NoError(t, err)

		out, err = h.run(t, "", "cart", "update", laptop.ID, count)
		require.NoError(t, err, "count %s", count)
		assert.Contains(t, out, "Your cart is empty", "count %s", count)

		remote, ok := h.api.RemoteCart(h.app.Auth.State().UserID)
		if ok {
			assert.Empty(t, remote.Products, "count %s", count)
		}
	}
}

func TestCartAddDoesNotPreload(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.login(t)

	laptop := h.api.AddProduct(domain.Product{Title: "Laptop", Price: 100})

	gets := h.api.Hits(http.MethodGet, "/api/v1/cart")

	_, err := h.run(t, "", "cart", "add", laptop.ID)
	require.NoError(t, err)

	assert.Equal(t, gets+1, h.api.Hits(http.MethodGet, "/api/v1/cart"), "only the reload after adding")
}

func TestCheckoutCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.login(t)

	laptop := h.api.AddProduct(domain.Product{Title: "Laptop", Price: 100})

	out, err := h.run(t, "", "addresses", "add", "--name", "Home", "--details", "1 Main St",
		"--phone", "01000000000", "--city", "Cairo", "-o", "json")
	require.NoError(t, err)

	var addresses []domain.Address
	require.NoError(t, json.Unmarshal([]byte(out), &addresses))
	require.Len(t, addresses, 1)

	_, err = h.run(t, "", "checkout", "cash", "--address", addresses[0].ID)
	require.ErrorIs(t, err, domain.ErrNotFound, "empty cart")

	_, err = h.run(t, "", "cart", "add", laptop.ID)
	require.NoError(t, err)

	out, err = h.run(t, "", "checkout", "card", "--address", addresses[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Complete the payment at https://checkout.example.test/pay/")

	out, err = h.run(t, "", "checkout", "cash", "--details", "2 Side St", "--phone", "01111111111", "--city", "Giza")
	require.NoError(t, err)
	assert.Contains(t, out, "1 items, total $100.00")

	out, err = h.run(t, "", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "cash")
	assert.Contains(t, out, "pending")

	out, err = h.run(t, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestCatalogCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	out, err := h.run(t, "", "products", "featured", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "API unavailable, showing sample products")

	discounted := 80.0
	h.api.AddProduct(domain.Product{ID: "p1", Title: "Laptop", Price: 100, PriceAfterDiscount: &discounted})

	out, err = h.run(t, "", "products", "list", "--keyword", "lap")
	require.NoError(t, err)
	assert.Contains(t, out, "$80.00 (was $100.00)")
	assert.Contains(t, out, "1 results")

	out, err = h.run(t, "", "products", "get", "p1", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Laptop")

	out, err = h.run(t, "", "brands", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Puma")

	out, err = h.run(t, "", "categories", "subcategories", "cat-1", "-o", "json", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"Laptops"`)

	out, err = h.run(t, "", "health", "-o", "json", "--compact")
	require.NoError(t, err)
	assert.JSONEq(t, `{"healthy":true}`, out)

	_, err = h.run(t, "", "products", "list", "-o", "xml")
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestThumbnailCommand(t *testing.T) {
	t.Parallel()

	var cover bytes.Buffer
	require.NoError(t, png.Encode(&cover, image.NewRGBA(image.Rect(0, 0, 120, 60))))

	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(cover.Bytes())
	}))
	t.Cleanup(images.Close)

	h := newHarness(t)
	h.api.AddProduct(domain.Product{ID: "p1", Title: "Laptop", ImageCover: images.URL + "/cover.png"})

	path := filepath.Join(t.TempDir(), "thumb.png")

	out, err := h.run(t, "", "products", "thumbnail", "p1", "--width", "60", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 60x30 image/png")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Width)

	out, err = h.run(t, "", "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 cached thumbnails")
}

func TestPasswordResetCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	_, err := h.run(t, "", "password", "forgot", "--email", "ada@example.com")
	require.NoError(t, err)

	_, err = h.run(t, "", "password", "verify", "--code", "123456")
	require.NoError(t, err)

	out, err := h.run(t, "n3w-secret\n", "password", "reset", "--email", "ada@example.com", "--new", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Password reset")

	_, err = h.run(t, "", "login", "--email", "ada@example.com", "--password", "n3w-secret")
	require.NoError(t, err)
}
