package di

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/cart"
	"github.com/goliatone/go-storefront/internal/catalog"
	storefronthttp "github.com/goliatone/go-storefront/internal/http"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/logging/console"
	"github.com/goliatone/go-storefront/internal/logging/gologger"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/runtimeconfig"
	"github.com/goliatone/go-storefront/internal/storage"
	"github.com/goliatone/go-storefront/internal/views"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Container wires the storefront: storage, repositories, services, session
// resolution, cart registry, renderer and the HTTP handler.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	productRepo catalog.ProductRepository
	pageRepo    pages.PageRepository
	profileRepo auth.ProfileRepository

	catalogSvc catalog.Service
	pageSvc    pages.Service

	sessions  interfaces.SessionResolver
	cart      *cart.Registry
	renderer  interfaces.TemplateRenderer
	navigator *storefronthttp.Navigator
	handler   http.Handler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB reuses an open database instead of opening one from config.
// The container never closes an injected database.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithProductRepository(repo catalog.ProductRepository) Option {
	return func(c *Container) {
		c.productRepo = repo
	}
}

func WithPageRepository(repo pages.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

func WithProfileRepository(repo auth.ProfileRepository) Option {
	return func(c *Container) {
		c.profileRepo = repo
	}
}

// WithSessionResolver replaces the cookie session resolver.
func WithSessionResolver(resolver interfaces.SessionResolver) Option {
	return func(c *Container) {
		c.sessions = resolver
	}
}

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// NewContainer validates cfg and builds every collaborator not supplied
// through options.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	c.catalogSvc = catalog.NewService(c.productRepo,
		catalog.WithFeaturedLimit(cfg.Catalog.FeaturedLimit),
		catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)),
	)
	c.pageSvc = pages.NewService(c.pageRepo, pages.WithLogger(logging.PagesLogger(c.loggerProvider)))

	if c.sessions == nil {
		c.sessions = auth.NewCookieResolver(auth.CookieConfig{
			Name:   cfg.Session.Name,
			Secret: cfg.Session.Secret,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
		}, c.profileRepo, logging.AuthLogger(c.loggerProvider))
	}

	if cfg.Features.Cart {
		c.cart = cart.NewRegistry(cfg.Cart.Capacity, cfg.Cart.TTL, logging.CartLogger(c.loggerProvider))
	}

	if c.renderer == nil {
		renderer, err := views.NewRenderer(nil)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.renderer = renderer
	}

	c.navigator = storefronthttp.NewNavigator(cfg.Navigation.RouteConfig, cfg.Navigation.Group)

	storefront := storefronthttp.NewStorefront(
		storefronthttp.WithCatalogService(c.catalogSvc),
		storefronthttp.WithPageService(c.pageSvc),
		storefronthttp.WithSessionResolver(c.sessions),
		storefronthttp.WithCart(c.cart),
		storefronthttp.WithRenderer(c.renderer),
		storefronthttp.WithNavigator(c.navigator),
		storefronthttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		storefronthttp.WithPlaceholder(cfg.Catalog.Placeholder),
		storefronthttp.WithAPI(cfg.Features.API),
		storefronthttp.WithHealthCheck(c.ping),
	)
	handler, err := storefront.Handler()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.handler = handler

	logging.ModuleLogger(c.loggerProvider, "").Debug("container.configured",
		"driver", runtimeconfig.NormalizeDriver(cfg.Storage.Driver),
		"cache", c.cacheService != nil,
		"cart", c.cart != nil,
		"api", cfg.Features.API,
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := NewLoggerProvider(c.Config)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

// NewLoggerProvider selects the go-logger adapter when the logger feature is
// on with provider "gologger", otherwise console output on stderr at INFO or
// at the configured level when the feature is on.
func NewLoggerProvider(cfg runtimeconfig.Config) (interfaces.LoggerProvider, error) {
	logCfg := cfg.Logging
	if cfg.Features.Logger && strings.EqualFold(strings.TrimSpace(logCfg.Provider), "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	}

	level := console.LevelInfo
	if cfg.Features.Logger {
		if parsed, err := console.ParseLevel(logCfg.Level); err == nil {
			level = parsed
		}
	}
	return console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level}), nil
}

// configureStorage opens the DataStore unless a database or every repository
// it would back was injected.
func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	if c.productRepo != nil && c.pageRepo != nil && (c.profileRepo != nil || c.sessions != nil) {
		return nil
	}
	db, err := storage.Open(context.Background(), storage.Config{
		Driver: c.Config.Storage.Driver,
		DSN:    c.Config.Storage.DSN,
		Debug:  c.Config.Storage.Debug,
		Logger: logging.ModuleLogger(c.loggerProvider, "storefront.storage"),
	})
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.productRepo == nil {
		c.productRepo = catalog.NewBunProductRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.pageRepo == nil {
		c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.profileRepo == nil && c.bunDB != nil {
		c.profileRepo = auth.NewBunProfileRepository(c.bunDB)
	}
}

func (c *Container) ping(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return c.bunDB.PingContext(ctx)
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) CatalogService() catalog.Service {
	return c.catalogSvc
}

func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

func (c *Container) SessionResolver() interfaces.SessionResolver {
	return c.sessions
}

// CartRegistry is nil when the cart feature is off.
func (c *Container) CartRegistry() *cart.Registry {
	return c.cart
}

func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.renderer
}

func (c *Container) Navigator() *storefronthttp.Navigator {
	return c.navigator
}

// Handler serves every storefront route.
func (c *Container) Handler() http.Handler {
	return c.handler
}
