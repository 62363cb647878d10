package http

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/cart"
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/listing"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/views"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

var cartActionPattern = regexp.MustCompile(`action="(/cart/[^"]+/items)"`)

type fixture struct {
	products *catalog.MemoryProductRepository
	pages    *pages.MemoryPageRepository
	logger   *testsupport.RecordingLogger
	handler  http.Handler

	hammer *catalog.Product
	saw    *catalog.Product
	drill  *catalog.Product
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		products: catalog.NewMemoryProductRepository(),
		pages:    pages.NewMemoryPageRepository(),
		logger:   testsupport.NewRecordingLogger(),
	}
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.hammer = &catalog.Product{ID: uuid.New(), Name: "Hammer", Price: 20, StockQuantity: 3, IsActive: true, CreatedAt: base}
	f.saw = &catalog.Product{ID: uuid.New(), Name: "Saw", Price: 30, StockQuantity: 0, IsActive: true, IsSale: true, CreatedAt: base.Add(time.Hour)}
	f.drill = &catalog.Product{ID: uuid.New(), Name: "Drill", Price: 90, StockQuantity: 5, IsActive: true, IsSale: true, CreatedAt: base.Add(2 * time.Hour)}
	f.products.Add(f.hammer, f.saw, f.drill)
	f.pages.Put(&pages.Page{ID: uuid.New(), Slug: "about", Title: "About Us", Content: "We sell tools.\n\nSince <1999>.", IsPublished: true})

	renderer, err := views.NewRenderer(nil)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	baseOpts := []Option{
		WithCatalogService(catalog.NewService(f.products)),
		WithPageService(pages.NewService(f.pages)),
		WithRenderer(renderer),
		WithCart(cart.NewRegistry(100, time.Minute, nil)),
		WithLogger(f.logger),
	}
	storefront := NewStorefront(append(baseOpts, opts...)...)
	handler, err := storefront.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	f.handler = handler
	return f
}

func (f *fixture) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func cartCount(t *testing.T, body string) string {
	t.Helper()
	m := regexp.MustCompile(`data-cart-count="(\d+)"`).FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("cart badge not rendered")
	}
	return m[1]
}

func TestHomeListsActiveProductsWithCartControls(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := html.UnescapeString(rec.Body.String())
	for _, want := range []string{"Featured Products", "Hammer", "Saw", "Drill", "Stock: 3", "No description available", "Out of Stock"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in home page", want)
		}
	}
	if strings.Contains(body, "badge-sale") {
		t.Fatalf("home page must not render SALE badges")
	}
	if got := cartCount(t, body); got != "0" {
		t.Fatalf("expected empty cart, got %s", got)
	}
	if forms := strings.Count(body, `name="product_id"`); forms != 2 {
		t.Fatalf("expected forms for the two in-stock products, got %d", forms)
	}
}

func TestCartAddCountsOncePerClickForInStockProducts(t *testing.T) {
	f := newFixture(t)

	body := f.do(t, http.MethodGet, "/", nil).Body.String()
	m := cartActionPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("cart form not rendered")
	}
	action := m[1]
	instance := strings.TrimSuffix(strings.TrimPrefix(action, "/cart/"), "/items")

	rec := f.do(t, http.MethodPost, action, url.Values{"product_id": {f.hammer.ID.String()}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	if location != "/?view="+instance {
		t.Fatalf("unexpected redirect %q", location)
	}

	f.do(t, http.MethodPost, action, url.Values{"product_id": {f.hammer.ID.String()}})
	f.do(t, http.MethodPost, action, url.Values{"product_id": {f.saw.ID.String()}})
	f.do(t, http.MethodPost, action, url.Values{"product_id": {"not-a-uuid"}})

	page := f.do(t, http.MethodGet, location, nil).Body.String()
	if got := cartCount(t, page); got != "2" {
		t.Fatalf("expected two counted clicks, got %s", got)
	}
	for _, want := range []string{"Stock: 3", "Stock: 5"} {
		if !strings.Contains(html.UnescapeString(page), want) {
			t.Fatalf("expected %q after adding to cart", want)
		}
	}
	stored, err := f.products.List(context.Background(), catalog.ListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, p := range stored {
		if p.ID == f.hammer.ID && p.StockQuantity != 3 {
			t.Fatalf("expected Hammer stock to stay 3, got %d", p.StockQuantity)
		}
	}

	fresh := f.do(t, http.MethodGet, "/", nil).Body.String()
	if got := cartCount(t, fresh); got != "0" {
		t.Fatalf("expected a fresh page to start at zero, got %s", got)
	}
}

func TestCartAddWithUnknownInstanceStartsOver(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/cart/"+uuid.NewString()+"/items", url.Values{"product_id": {uuid.NewString()}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestSaleListsSaleProductsNewestFirst(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/sale", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := html.UnescapeString(rec.Body.String())
	if !strings.Contains(body, "Sale Items") || !strings.Contains(body, "Don't miss these amazing deals") {
		t.Fatalf("expected sale heading")
	}
	if strings.Contains(body, "Hammer") {
		t.Fatalf("non-sale product rendered on sale page")
	}
	drill := strings.Index(body, "Drill")
	saw := strings.Index(body, "Saw")
	if drill < 0 || saw < 0 || drill > saw {
		t.Fatalf("expected Drill before Saw, got %d and %d", drill, saw)
	}
	if !strings.Contains(body, "badge-sale") {
		t.Fatalf("expected SALE badge on sale page")
	}
	if strings.Contains(body, `name="product_id"`) {
		t.Fatalf("sale page cart control must not submit")
	}
}

func TestListingFailureRendersEmptyStateAndLogs(t *testing.T) {
	f := newFixture(t)
	f.products.FailWith(errors.New("connection refused"))

	rec := f.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No Products Yet") {
		t.Fatalf("expected empty state after failure")
	}
	entries := f.logger.Find("error", "listing.load.failed")
	if len(entries) != 1 {
		t.Fatalf("expected one failure log, got %d", len(entries))
	}
	if entries[0].Fields["operation"] != operationFeatured {
		t.Fatalf("expected operation field, got %+v", entries[0].Fields)
	}
}

func TestContentPageStatuses(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/pages/about", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<1999>") {
		t.Fatalf("content must be escaped")
	}
	if !strings.Contains(html.UnescapeString(body), "We sell tools.\n\nSince <1999>.") {
		t.Fatalf("expected verbatim content")
	}

	missing := f.do(t, http.MethodGet, "/pages/missing", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}

	f.pages.FailWith(errors.New("timeout"))
	failed := f.do(t, http.MethodGet, "/pages/about", nil)
	if failed.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", failed.Code)
	}
	if failed.Body.String() != missing.Body.String() {
		t.Fatalf("expected failed and missing pages to render the same body")
	}
}

func TestAPIReportsViewState(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/sale", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		State string `json:"state"`
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var names []string
	for _, item := range list.Items {
		names = append(names, item.Name)
	}
	if list.State != string(listing.StateSuccess) {
		t.Fatalf("unexpected state %q", list.State)
	}
	if diff := cmp.Diff([]string{"Drill", "Saw"}, names); diff != "" {
		t.Fatalf("sale items mismatch (-want +got):\n%s", diff)
	}

	found := f.do(t, http.MethodGet, "/api/pages/about", nil)
	if found.Code != http.StatusOK || !strings.Contains(found.Body.String(), `"path":"/pages/about"`) {
		t.Fatalf("expected page with canonical path, got %d %s", found.Code, found.Body.String())
	}

	page := f.do(t, http.MethodGet, "/api/pages/nope", nil)
	if page.Code != http.StatusNotFound || !strings.Contains(page.Body.String(), `"state":"not_found"`) {
		t.Fatalf("expected not_found state, got %d %s", page.Code, page.Body.String())
	}

	f.products.FailWith(errors.New("down"))
	failed := f.do(t, http.MethodGet, "/api/products", nil)
	if failed.Code != http.StatusServiceUnavailable || !strings.Contains(failed.Body.String(), `"items":[]`) {
		t.Fatalf("expected failed state with no items, got %d %s", failed.Code, failed.Body.String())
	}
}

func TestAPIDisabled(t *testing.T) {
	f := newFixture(t, WithAPI(false))
	if rec := f.do(t, http.MethodGet, "/api/products", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when API disabled, got %d", rec.Code)
	}
}

type signOutRecorder struct {
	*auth.Static
	calls int
}

func (s *signOutRecorder) SignOut(context.Context) error {
	s.calls++
	return nil
}

func TestSignOutRedirectsHome(t *testing.T) {
	session := &signOutRecorder{Static: auth.NewStatic(&interfaces.User{ID: "u1", Email: "ada@example.com"}, nil)}
	f := newFixture(t, WithSessionResolver(auth.StaticResolver{Session: session}))

	home := html.UnescapeString(f.do(t, http.MethodGet, "/", nil).Body.String())
	if !strings.Contains(home, "ada@example.com") {
		t.Fatalf("expected greeting with email")
	}

	rec := f.do(t, http.MethodPost, "/auth/signout", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if session.calls != 1 {
		t.Fatalf("expected one sign out call, got %d", session.calls)
	}
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, WithHealthCheck(func(context.Context) error { return errors.New("db down") }))
	if rec := f.do(t, http.MethodGet, "/healthz", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	ok := newFixture(t)
	if rec := ok.do(t, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	generated := f.do(t, http.MethodGet, "/healthz", nil).Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", generated)
	}
}

func TestRegisterRequiresServices(t *testing.T) {
	if err := NewStorefront().Register(http.NewServeMux()); err == nil {
		t.Fatal("expected error without services")
	}
}

func TestNavigatorUsesRouteGroupWithFallbacks(t *testing.T) {
	nav := NewNavigator(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name: "frontend",
				Paths: map[string]string{
					"sale": "/deals",
					"page": "/p/:slug",
				},
			},
		},
	}, "frontend")

	links := nav.Links()
	if links.Sale != "/deals" {
		t.Fatalf("expected configured sale path, got %q", links.Sale)
	}
	if links.Home != "/" || links.SignOut != "/auth/signout" {
		t.Fatalf("expected fallbacks for missing routes, got %+v", links)
	}
	if got := nav.PagePath("about"); got != "/p/about" {
		t.Fatalf("unexpected page path %q", got)
	}
}

func TestNavigatorFallbacksWithoutConfig(t *testing.T) {
	nav := NewNavigator(nil, "frontend")
	if got := nav.CartAddPath("abc"); got != "/cart/abc/items" {
		t.Fatalf("unexpected cart path %q", got)
	}
	if got := nav.HomeView("abc"); got != "/?view=abc" {
		t.Fatalf("unexpected home view %q", got)
	}
	if got := nav.PagePath("a b"); got != "/pages/a%20b" {
		t.Fatalf("unexpected escaped page path %q", got)
	}
	if diff := cmp.Diff(views.Links{Home: "/", Sale: "/sale", Admin: "/admin", SignIn: "/auth", SignOut: "/auth/signout"}, nav.Links()); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
}
