package http

import (
	"net/http"

	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/listing"
	"github.com/goliatone/go-storefront/internal/pages"
)

type listResponse struct {
	State listing.State      `json:"state"`
	Items []*catalog.Product `json:"items"`
}

type pageResponse struct {
	State listing.State `json:"state"`
	Page  *pages.Page   `json:"page,omitempty"`
	Path  string        `json:"path,omitempty"`
}

func (s *Storefront) handleAPIProducts(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.loadList(r, operationFeatured, s.catalog.Featured))
}

func (s *Storefront) handleAPISale(w http.ResponseWriter, r *http.Request) {
	writeList(w, s.loadList(r, operationSale, s.catalog.Sale))
}

func (s *Storefront) handleAPIPage(w http.ResponseWriter, r *http.Request) {
	snap := s.loadPage(r)
	resp := pageResponse{State: snap.State}
	if snap.Found() {
		resp.Page = snap.Item
		resp.Path = s.nav.PagePath(snap.Item.Slug)
	}
	writeJSON(w, documentStatus(snap.State), resp)
}

func writeList(w http.ResponseWriter, snap listing.ListSnapshot[*catalog.Product]) {
	items := snap.Items
	if items == nil {
		items = []*catalog.Product{}
	}
	status := http.StatusOK
	if snap.State == listing.StateFailed {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, listResponse{State: snap.State, Items: items})
}
