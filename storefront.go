package storefront

import (
	"net/http"

	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/di"
	"github.com/goliatone/go-storefront/internal/pages"
)

// CatalogService exports the product listing contract.
type CatalogService = catalog.Service

// PageService exports the published page contract.
type PageService = pages.Service

// Module represents the top level storefront runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a storefront module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Handler serves the storefront pages, the JSON API and the health probe.
func (m *Module) Handler() http.Handler {
	return m.container.Handler()
}

func (m *Module) Catalog() CatalogService {
	return m.container.CatalogService()
}

func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Close releases the database connection when the module opened it.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
