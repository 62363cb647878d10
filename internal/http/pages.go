package http

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/cart"
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/listing"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/views"
)

const (
	operationFeatured = "catalog.featured"
	operationSale     = "catalog.sale"
	operationPage     = "pages.published"
)

func (s *Storefront) handleHome(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, operationFeatured, "/")
	snap := s.loadList(r, operationFeatured, s.catalog.Featured)

	session := s.sessions.Resolve(w, r)
	opts := views.HomeListing(s.cartEnabled, "", s.placeholder)
	opts.Session = session
	opts.Links = s.nav.Links()

	if s.cartEnabled {
		instance, count := s.cart.Resume(r.URL.Query().Get("view"), addableProducts(snap.Items))
		opts.Card.CartAction = s.nav.CartAddPath(instance)
		opts.CartCount = count
	}

	view := views.BuildListingView(snap, opts)
	writeHTML(w, logger.WithContext(r.Context()), http.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderListing(s.renderer, buf, view)
	})
}

func (s *Storefront) handleSale(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, operationSale, "/sale")
	snap := s.loadList(r, operationSale, s.catalog.Sale)

	opts := views.SaleListing(s.placeholder)
	opts.Session = s.sessions.Resolve(w, r)
	opts.Links = s.nav.Links()

	view := views.BuildListingView(snap, opts)
	writeHTML(w, logger.WithContext(r.Context()), http.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderListing(s.renderer, buf, view)
	})
}

func (s *Storefront) handlePage(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, operationPage, "/pages/{slug}")
	snap := s.loadPage(r)

	view := views.BuildDocumentView(snap, s.sessions.Resolve(w, r), s.nav.Links())
	writeHTML(w, logger.WithContext(r.Context()), documentStatus(snap.State), func(buf *bytes.Buffer) error {
		return views.RenderDocument(s.renderer, buf, view)
	})
}

// handleCartAdd counts one add-to-cart click and sends the browser back to
// the same page instance.
func (s *Storefront) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	instance := strings.TrimSpace(r.PathValue("instance"))
	if !s.cartEnabled {
		seeOther(w, r, s.nav.HomeView(""))
		return
	}

	logger := logging.WithFields(logging.WithOperation(s.logger, "cart.add", "/cart/{instance}/items"), map[string]any{
		"instance": instance,
	}).WithContext(r.Context())

	productID, err := uuid.Parse(strings.TrimSpace(r.FormValue("product_id")))
	if err != nil {
		logger.Debug("cart.add.invalid_product", "error", err)
		seeOther(w, r, s.nav.HomeView(instance))
		return
	}

	count, err := s.cart.Add(instance, productID)
	switch {
	case errors.Is(err, cart.ErrUnknownInstance):
		logger.Debug("cart.add.unknown_instance")
		seeOther(w, r, s.nav.HomeView(""))
		return
	case err != nil:
		logger.Debug("cart.add.ignored", "error", err)
	default:
		logger.Debug("cart.add.counted", "count", count)
	}
	seeOther(w, r, s.nav.HomeView(instance))
}

func (s *Storefront) handleSignOut(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.Resolve(w, r)
	if err := session.SignOut(r.Context()); err != nil {
		logging.WithOperation(s.logger, "auth.signout", "/auth/signout").
			WithContext(r.Context()).Error("auth.signout.failed", "error", err)
	}
	seeOther(w, r, s.nav.Links().Home)
}

func (s *Storefront) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.WithContext(r.Context()).Error("http.health.failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadList mounts a fresh controller for the request and runs one load.
func (s *Storefront) loadList(r *http.Request, operation string, fetch listing.ListFetch[*catalog.Product]) listing.ListSnapshot[*catalog.Product] {
	ctrl := listing.NewListController[*catalog.Product](operation, s.logger)
	ctrl.Mount()
	defer ctrl.Unmount()
	return ctrl.Load(r.Context(), fetch)
}

func (s *Storefront) loadPage(r *http.Request) listing.DocumentSnapshot[*pages.Page] {
	ctrl := listing.NewDocumentController[*pages.Page](operationPage, s.logger,
		listing.WithNotFound[*pages.Page](pages.IsNotFound),
	)
	ctrl.Mount()
	defer ctrl.Unmount()
	return ctrl.Load(r.Context(), r.PathValue("slug"), s.pages.Published)
}

func documentStatus(state listing.State) int {
	switch state {
	case listing.StateSuccess:
		return http.StatusOK
	case listing.StateNotFound:
		return http.StatusNotFound
	case listing.StateFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

func addableProducts(items []*catalog.Product) map[uuid.UUID]bool {
	addable := make(map[uuid.UUID]bool, len(items))
	for _, p := range items {
		if p.InStock() {
			addable[p.ID] = true
		}
	}
	return addable
}
