package views

import (
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/listing"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Branch selects which part of a page template renders.
type Branch string

const (
	BranchLoading   Branch = "loading"
	BranchEmpty     Branch = "empty"
	BranchPopulated Branch = "populated"
	BranchFound     Branch = "found"
	BranchNotFound  Branch = "not_found"
)

// Links are the navigation targets rendered in the header.
type Links struct {
	Home    string
	Sale    string
	Admin   string
	SignIn  string
	SignOut string
}

// Header is the shared page header: greeting, admin link and cart badge.
type Header struct {
	Links     Links
	SignedIn  bool
	Greeting  string
	ShowAdmin bool
	CartCount int
	ShowCart  bool
}

// EmptyPanel is the empty-state copy of a listing.
type EmptyPanel struct {
	Heading      string
	Message      string
	ShowAdminCTA bool
	AdminCTA     string
	AdminCTAHref string
}

// ListingView is everything a listing template needs.
type ListingView struct {
	Title          string
	Subtitle       string
	Branch         Branch
	IsLoading      bool
	IsEmpty        bool
	IsPopulated    bool
	LoadingMessage string
	Cards          []ProductCard
	EmptyState     EmptyPanel
	Header         Header
}

// ListingOptions carries the page-level inputs of BuildListingView.
type ListingOptions struct {
	Title    string
	Subtitle string
	Card     CardOptions
	Session  interfaces.AuthSession
	Links    Links
	// CartCount is shown when Card.CartEnabled is set.
	CartCount int
}

// HomeListing returns the options for the featured products page.
func HomeListing(cart bool, action, placeholder string) ListingOptions {
	return ListingOptions{
		Title: "Featured Products",
		Card: CardOptions{
			ShowStock:        true,
			CartEnabled:      cart,
			CartAction:       action,
			Placeholder:      placeholder,
			EmptyDescription: NoDescriptionFallback,
		},
	}
}

// SaleListing returns the options for the sale page.
func SaleListing(placeholder string) ListingOptions {
	return ListingOptions{
		Title:    "Sale Items",
		Subtitle: "Don't miss these amazing deals",
		Card: CardOptions{
			ShowSaleBadge: true,
			Placeholder:   placeholder,
		},
	}
}

// BuildHeader derives the header from the session.
func BuildHeader(session interfaces.AuthSession, links Links) Header {
	h := Header{Links: links}
	if session != nil && session.User() != nil {
		h.SignedIn = true
		h.Greeting = interfaces.DisplayName(session)
		h.ShowAdmin = interfaces.IsAdmin(session)
	}
	return h
}

// BuildListingView maps a list snapshot onto the loading, empty and
// populated branches. A failed load renders whatever items it kept.
func BuildListingView(snap listing.ListSnapshot[*catalog.Product], opts ListingOptions) ListingView {
	view := ListingView{
		Title:          opts.Title,
		Subtitle:       opts.Subtitle,
		LoadingMessage: "Loading products...",
		Header:         BuildHeader(opts.Session, opts.Links),
	}
	if opts.Card.CartEnabled {
		view.Header.ShowCart = true
		view.Header.CartCount = opts.CartCount
	}

	switch {
	case snap.Loading() || snap.State == listing.StateIdle:
		view.Branch = BranchLoading
		view.IsLoading = true
	case len(snap.Items) == 0:
		view.Branch = BranchEmpty
		view.IsEmpty = true
		view.EmptyState = EmptyPanel{
			Heading: "No Products Yet",
			Message: "Products will appear here once they're added to the store.",
		}
		if interfaces.IsAdmin(opts.Session) {
			view.EmptyState.ShowAdminCTA = true
			view.EmptyState.AdminCTA = "Add Products"
			view.EmptyState.AdminCTAHref = opts.Links.Admin
		}
	default:
		view.Branch = BranchPopulated
		view.IsPopulated = true
		view.Cards = make([]ProductCard, 0, len(snap.Items))
		for _, p := range snap.Items {
			view.Cards = append(view.Cards, BuildProductCard(p, opts.Card))
		}
	}
	return view
}

// DocumentView is everything the content page template needs.
type DocumentView struct {
	Branch         Branch
	IsLoading      bool
	IsFound        bool
	IsNotFound     bool
	Title          string
	Content        string
	Heading        string
	Message        string
	LoadingMessage string
	Header         Header
}

// BuildDocumentView renders not-found and failed lookups identically.
func BuildDocumentView(snap listing.DocumentSnapshot[*pages.Page], session interfaces.AuthSession, links Links) DocumentView {
	view := DocumentView{
		LoadingMessage: "Loading...",
		Header:         BuildHeader(session, links),
	}
	switch {
	case snap.Loading() || snap.State == listing.StateIdle:
		view.Branch = BranchLoading
		view.IsLoading = true
	case snap.Found() && snap.Item != nil:
		view.Branch = BranchFound
		view.IsFound = true
		view.Title = snap.Item.Title
		view.Content = snap.Item.Content
	default:
		view.Branch = BranchNotFound
		view.IsNotFound = true
		view.Heading = "Page Not Found"
		view.Message = "The page you're looking for doesn't exist."
	}
	return view
}
