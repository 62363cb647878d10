package http

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-storefront/internal/views"
)

// Route names looked up in the navigation route group.
const (
	RouteHome    = "home"
	RouteSale    = "sale"
	RoutePage    = "page"
	RouteCartAdd = "cart_add"
	RouteAdmin   = "admin"
	RouteSignIn  = "sign_in"
	RouteSignOut = "sign_out"
)

var fallbackPaths = map[string]string{
	RouteHome:    "/",
	RouteSale:    "/sale",
	RoutePage:    "/pages/:slug",
	RouteCartAdd: "/cart/:instance/items",
	RouteAdmin:   "/admin",
	RouteSignIn:  "/auth",
	RouteSignOut: "/auth/signout",
}

// Navigator builds storefront links from a go-urlkit route group. Routes
// missing from the group, or a missing manager, use the built-in paths.
type Navigator struct {
	manager   *urlkit.RouteManager
	groupPath string

	mu    sync.RWMutex
	group *urlkit.Group
}

// NewNavigator binds the navigator to groupPath (dot separated) of cfg.
func NewNavigator(cfg *urlkit.Config, groupPath string) *Navigator {
	n := &Navigator{groupPath: strings.TrimSpace(groupPath)}
	if cfg != nil {
		n.manager = urlkit.NewRouteManager(cfg)
	}
	return n
}

// Links returns the header targets.
func (n *Navigator) Links() views.Links {
	return views.Links{
		Home:    n.build(RouteHome, nil, nil),
		Sale:    n.build(RouteSale, nil, nil),
		Admin:   n.build(RouteAdmin, nil, nil),
		SignIn:  n.build(RouteSignIn, nil, nil),
		SignOut: n.build(RouteSignOut, nil, nil),
	}
}

// PagePath links to a content page.
func (n *Navigator) PagePath(slug string) string {
	return n.build(RoutePage, map[string]string{"slug": slug}, nil)
}

// CartAddPath is the add-to-cart form target of a page instance.
func (n *Navigator) CartAddPath(instance string) string {
	return n.build(RouteCartAdd, map[string]string{"instance": instance}, nil)
}

// HomeView links back to the home page while keeping the cart instance.
func (n *Navigator) HomeView(instance string) string {
	if instance == "" {
		return n.build(RouteHome, nil, nil)
	}
	return n.build(RouteHome, nil, map[string]string{"view": instance})
}

func (n *Navigator) build(route string, params, query map[string]string) string {
	if n != nil && n.manager != nil {
		if link, err := n.buildWithManager(route, params, query); err == nil && link != "" {
			return link
		}
	}
	return fallback(route, params, query)
}

func (n *Navigator) buildWithManager(route string, params, query map[string]string) (link string, err error) {
	group, err := n.resolveGroup()
	if err != nil {
		return "", err
	}
	defer func() {
		if rec := recover(); rec != nil {
			link, err = "", fmt.Errorf("http: urlkit route %q: %v", route, rec)
		}
	}()
	builder := group.Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, value := range query {
		builder.WithQuery(key, value)
	}
	return builder.Build()
}

func (n *Navigator) resolveGroup() (*urlkit.Group, error) {
	n.mu.RLock()
	group := n.group
	n.mu.RUnlock()
	if group != nil {
		return group, nil
	}
	if n.groupPath == "" {
		return nil, fmt.Errorf("http: navigation group not configured")
	}

	parts := strings.Split(n.groupPath, ".")
	group, err := lookupGroup(n.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if group, err = lookupChildGroup(group, part); err != nil {
			return nil, err
		}
	}

	n.mu.Lock()
	n.group = group
	n.mu.Unlock()
	return group, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("http: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		return nil, fmt.Errorf("http: route group %q not found", name)
	}
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("http: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	if group == nil {
		return nil, fmt.Errorf("http: child group %q not found", name)
	}
	return group, nil
}

func fallback(route string, params, query map[string]string) string {
	path, ok := fallbackPaths[route]
	if !ok {
		return "/"
	}
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, url.PathEscape(value))
	}
	if len(query) == 0 {
		return path
	}
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	return path + "?" + values.Encode()
}
