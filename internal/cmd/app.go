package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mkrupp/storefront/internal/infra/config"
	"github.com/mkrupp/storefront/internal/infra/format"
	"github.com/mkrupp/storefront/internal/infra/logging"
	http_ "github.com/mkrupp/storefront/internal/infra/transport/http"
	"github.com/mkrupp/storefront/internal/repo/blob"
	"github.com/mkrupp/storefront/internal/repo/session"
	"github.com/mkrupp/storefront/internal/svc/accountsvc"
	"github.com/mkrupp/storefront/internal/svc/apiclient"
	"github.com/mkrupp/storefront/internal/svc/authsvc"
	"github.com/mkrupp/storefront/internal/svc/cartsvc"
	"github.com/mkrupp/storefront/internal/svc/catalogsvc"
	"github.com/mkrupp/storefront/internal/svc/ordersvc"
)

// Config is the configuration of the storefront CLI.
type Config struct {
	config.EnvConfig

	Log       logging.LoggerConfig                `envPrefix:"LOG_"`
	API       http_.HTTPTransportConfig           `envPrefix:"API_"`
	Session   session.StoreConfig                 `envPrefix:"SESSION_"`
	Auth      authsvc.AuthConfig                  `envPrefix:"AUTH_"`
	Thumbnail catalogsvc.ThumbnailConfig          `envPrefix:"THUMBNAIL_"`
	Cache     blob.FileSystemBlobRepositoryConfig `envPrefix:"CACHE_"`
	Order     ordersvc.OrderConfig                `envPrefix:"ORDER_"`
	Price     format.PriceConfig                  `envPrefix:"PRICE_"`
}

// App holds the services the commands operate on.
type App struct {
	Config  Config
	Store   session.Store
	Client  *apiclient.Client
	Auth    *authsvc.AuthService
	Cart    *cartsvc.CartService
	Catalog *catalogsvc.CatalogService
	Account *accountsvc.AccountService
	Orders  *ordersvc.OrderService
	Prices  *format.PriceFormatter
	Log     logging.Logger

	stopSweep func()
	sweepM    sync.Mutex
}

// NewApp wires the services from cfg.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	storeFactory, err := session.NewStoreFactory(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("new store factory: %w", err)
	}

	store, err := storeFactory()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	app, err := newApp(ctx, cfg, store)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	return app, nil
}

func newApp(ctx context.Context, cfg Config, store session.Store) (*App, error) {
	client, err := apiclient.New(cfg.API, store)
	if err != nil {
		return nil, fmt.Errorf("new api client: %w", err)
	}

	cache, err := blob.NewFileSystemBlobRepository(ctx, "thumbnails", cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("new thumbnail cache: %w", err)
	}

	prices, err := format.NewPriceFormatter(cfg.Price)
	if err != nil {
		return nil, fmt.Errorf("new price formatter: %w", err)
	}

	images := catalogsvc.NewHTTPImageFetcher(http_.NewHTTPClient(cfg.API, nil), cfg.Thumbnail.MaxBytes)
	cart := cartsvc.NewCartService(client)

	return &App{
		Config:  cfg,
		Store:   store,
		Client:  client,
		Auth:    authsvc.NewAuthService(client, store, cfg.Auth),
		Cart:    cart,
		Catalog: catalogsvc.NewCatalogService(client, images, cache, cfg.Thumbnail),
		Account: accountsvc.NewAccountService(client),
		Orders:  ordersvc.NewOrderService(client, cart, store, cfg.Order),
		Prices:  prices,
		Log:     logging.GetLogger("cmd.app"),
	}, nil
}

// startSweep starts the session consistency sweep unless it is already running.
func (app *App) startSweep(ctx context.Context) {
	app.sweepM.Lock()
	defer app.sweepM.Unlock()

	if app.stopSweep == nil {
		app.stopSweep = app.Auth.StartConsistencySweep(ctx, app.Config.Auth.SweepInterval)
	}
}

// Close stops the consistency sweep and releases the session store.
func (app *App) Close() error {
	app.sweepM.Lock()
	if app.stopSweep != nil {
		app.stopSweep()
		app.stopSweep = nil
	}
	app.sweepM.Unlock()

	if err := app.Store.Close(); err != nil {
		return fmt.Errorf("close session store: %w", err)
	}

	return nil
}
