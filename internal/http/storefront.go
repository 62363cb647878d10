package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/cart"
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/views"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// HealthCheck reports whether the DataStore answers.
type HealthCheck func(ctx context.Context) error

// Storefront registers the public storefront routes.
type Storefront struct {
	catalog     catalog.Service
	pages       pages.Service
	sessions    interfaces.SessionResolver
	cart        *cart.Registry
	renderer    interfaces.TemplateRenderer
	nav         *Navigator
	logger      interfaces.Logger
	health      HealthCheck
	placeholder string
	cartEnabled bool
	apiEnabled  bool
}

// Option mutates the Storefront configuration.
type Option func(*Storefront)

// NewStorefront constructs the route set. Catalog, pages and renderer are
// required before Register.
func NewStorefront(opts ...Option) *Storefront {
	s := &Storefront{
		sessions:    auth.StaticResolver{Session: auth.Anonymous()},
		nav:         NewNavigator(nil, ""),
		logger:      logging.NoOp(),
		placeholder: views.DefaultPlaceholder,
		apiEnabled:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func WithCatalogService(service catalog.Service) Option {
	return func(s *Storefront) { s.catalog = service }
}

func WithPageService(service pages.Service) Option {
	return func(s *Storefront) { s.pages = service }
}

// WithSessionResolver overrides the anonymous default.
func WithSessionResolver(resolver interfaces.SessionResolver) Option {
	return func(s *Storefront) {
		if resolver != nil {
			s.sessions = resolver
		}
	}
}

// WithCart enables the home page add-to-cart controls backed by registry.
func WithCart(registry *cart.Registry) Option {
	return func(s *Storefront) {
		s.cart = registry
		s.cartEnabled = registry != nil
	}
}

func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(s *Storefront) { s.renderer = renderer }
}

func WithNavigator(nav *Navigator) Option {
	return func(s *Storefront) {
		if nav != nil {
			s.nav = nav
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Storefront) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithHealthCheck(check HealthCheck) Option {
	return func(s *Storefront) { s.health = check }
}

// WithPlaceholder sets the image used for products without one.
func WithPlaceholder(path string) Option {
	return func(s *Storefront) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.placeholder = trimmed
		}
	}
}

// WithAPI toggles the JSON routes under /api.
func WithAPI(enabled bool) Option {
	return func(s *Storefront) { s.apiEnabled = enabled }
}

// Register attaches the storefront endpoints to the provided mux.
func (s *Storefront) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if s == nil {
		return fmt.Errorf("http: storefront is nil")
	}
	if s.catalog == nil || s.pages == nil {
		return fmt.Errorf("http: catalog and page services are required")
	}
	if s.renderer == nil {
		return fmt.Errorf("http: renderer is required")
	}

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /sale", s.handleSale)
	mux.HandleFunc("GET /pages/{slug}", s.handlePage)
	mux.HandleFunc("POST /cart/{instance}/items", s.handleCartAdd)
	mux.HandleFunc("POST /auth/signout", s.handleSignOut)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	if s.apiEnabled {
		mux.HandleFunc("GET /api/products", s.handleAPIProducts)
		mux.HandleFunc("GET /api/sale", s.handleAPISale)
		mux.HandleFunc("GET /api/pages/{slug}", s.handleAPIPage)
	}
	return nil
}

// Handler returns a mux with every route registered behind the request
// correlation middleware.
func (s *Storefront) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := s.Register(mux); err != nil {
		return nil, err
	}
	return withRequestContext(mux, s.logger), nil
}
