// Package http serves the storefront pages and their JSON counterparts.
//
// Routes mount at the root of the supplied mux:
//   - Pages: GET /, GET /sale, GET /pages/{slug}
//   - Cart: POST /cart/{instance}/items
//   - Session: POST /auth/signout
//   - API: GET /api/products, GET /api/sale, GET /api/pages/{slug}
//   - Health: GET /healthz
//
// Host applications can register the handlers on their own mux.
package http
