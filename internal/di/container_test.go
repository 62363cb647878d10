package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/logging/gologger"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/runtimeconfig"
	"github.com/goliatone/go-storefront/internal/storage"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = fmt.Sprintf("file:di-%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	return cfg
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Catalog.FeaturedLimit = 0
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrFeaturedLimitInvalid) {
		t.Fatalf("expected ErrFeaturedLimitInvalid, got %v", err)
	}
}

func TestContainerWithInjectedRepositoriesSkipsStorage(t *testing.T) {
	products := catalog.NewMemoryProductRepository()
	products.Add(&catalog.Product{ID: uuid.New(), Name: "Lantern", Price: 15, StockQuantity: 1, IsActive: true})
	pageRepo := pages.NewMemoryPageRepository()
	pageRepo.Put(&pages.Page{ID: uuid.New(), Slug: "faq", Title: "FAQ", Content: "Ask away", IsPublished: true})

	container, err := NewContainer(runtimeconfig.DefaultConfig(),
		WithProductRepository(products),
		WithPageRepository(pageRepo),
		WithSessionResolver(auth.StaticResolver{}),
		WithLoggerProvider(testsupport.NewRecordingLogger()),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() != nil {
		t.Fatalf("expected no database when repositories are injected")
	}

	home := get(t, container.Handler(), "/")
	if home.Code != http.StatusOK || !strings.Contains(home.Body.String(), "Lantern") {
		t.Fatalf("expected Lantern on home page, got %d", home.Code)
	}
	if !strings.Contains(home.Body.String(), `name="product_id"`) {
		t.Fatalf("expected cart controls with cart feature on")
	}

	page := get(t, container.Handler(), "/pages/faq")
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), "Ask away") {
		t.Fatalf("expected faq page, got %d", page.Code)
	}
}

func TestContainerOpensSQLiteFromConfig(t *testing.T) {
	ctx := context.Background()
	container, err := NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() == nil {
		t.Fatal("expected container to open the configured database")
	}
	if _, err := storage.Migrate(ctx, container.DB(), os.DirFS("../../data/sql/migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	testsupport.Insert(t, container.DB(), &catalog.Product{ID: uuid.New(), Name: "Compass", Price: 8, IsActive: true, IsSale: true})

	sale := get(t, container.Handler(), "/api/sale")
	if sale.Code != http.StatusOK || !strings.Contains(sale.Body.String(), "Compass") {
		t.Fatalf("expected Compass in sale api, got %d %s", sale.Code, sale.Body.String())
	}
	if health := get(t, container.Handler(), "/healthz"); health.Code != http.StatusOK {
		t.Fatalf("expected healthy store, got %d", health.Code)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if container.DB() != nil {
		t.Fatalf("expected Close to release the database")
	}
}

func TestContainerDoesNotCloseInjectedDB(t *testing.T) {
	db := testsupport.NewBunDB(t, (*catalog.Category)(nil), (*catalog.Product)(nil), (*pages.Page)(nil), (*auth.ProfileRecord)(nil))

	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("expected injected db to stay open, got %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	provider, ok := container.loggerProvider.(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.loggerProvider)
	}
	if logger := provider.GetLogger("storefront.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestContainerLogsConfiguration(t *testing.T) {
	rec := testsupport.NewRecordingLogger()
	container, err := NewContainer(memoryConfig(), WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	entries := rec.Find("debug", "container.configured")
	if len(entries) != 1 {
		t.Fatalf("expected container.configured entry, got %d", len(entries))
	}
	if got := entries[0].Fields["module"]; got != "storefront" {
		t.Fatalf("expected module storefront, got %v", got)
	}
}

func TestContainerCacheAndCartToggles(t *testing.T) {
	cfg := memoryConfig()
	cfg.Cache.Enabled = true
	cfg.Features.Cart = false

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.cacheService == nil || container.keySerializer == nil {
		t.Fatalf("expected repository cache to be configured")
	}
	if container.CartRegistry() != nil {
		t.Fatalf("expected no cart registry with cart disabled")
	}
}

func newCachedContainer(t *testing.T) *Container {
	t.Helper()
	cfg := memoryConfig()
	cfg.Cache.Enabled = true

	container, err := NewContainer(cfg, WithLoggerProvider(testsupport.NewRecordingLogger()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	if _, err := storage.Migrate(context.Background(), container.DB(), os.DirFS("../../data/sql/migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return container
}

func TestCachedPageLookupsAreKeyedBySlug(t *testing.T) {
	container := newCachedContainer(t)
	testsupport.Insert(t, container.DB(),
		&pages.Page{ID: uuid.New(), Slug: "about", Title: "About", Content: "About us body", IsPublished: true},
		&pages.Page{ID: uuid.New(), Slug: "contact", Title: "Contact", Content: "Contact body", IsPublished: true},
	)

	for _, tc := range []struct {
		slug string
		want string
	}{
		{"about", "About us body"},
		{"contact", "Contact body"},
		{"about", "About us body"},
	} {
		rec := get(t, container.Handler(), "/pages/"+tc.slug)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("/pages/%s: expected %q, got %d %s", tc.slug, tc.want, rec.Code, rec.Body.String())
		}
	}

	page, err := container.PageService().Published(context.Background(), "contact")
	if err != nil || page.Slug != "contact" {
		t.Fatalf("expected cached contact page, got %+v (%v)", page, err)
	}
	if _, err := container.PageService().Published(context.Background(), "missing"); !pages.IsNotFound(err) {
		t.Fatalf("expected not found for unknown slug, got %v", err)
	}
}

func TestCachedListingsAreKeyedByQuery(t *testing.T) {
	container := newCachedContainer(t)
	testsupport.Insert(t, container.DB(),
		&catalog.Product{ID: uuid.New(), Name: "Bucket", Price: 5, IsActive: true},
		&catalog.Product{ID: uuid.New(), Name: "Spade", Price: 12, IsActive: true, IsSale: true},
	)
	ctx := context.Background()
	svc := container.CatalogService()

	featured, err := svc.List(ctx, catalog.FeaturedQuery(0))
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 2 {
		t.Fatalf("expected both active products, got %d", len(featured))
	}

	sale, err := svc.Sale(ctx)
	if err != nil {
		t.Fatalf("sale: %v", err)
	}
	if len(sale) != 1 || sale[0].Name != "Spade" {
		t.Fatalf("expected only Spade on sale, got %d products", len(sale))
	}

	sale[0].Name = "mutated"
	again, err := svc.Sale(ctx)
	if err != nil {
		t.Fatalf("sale again: %v", err)
	}
	if again[0].Name != "Spade" {
		t.Fatalf("expected cached rows to be isolated from callers, got %q", again[0].Name)
	}
}
