package views

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateListing  = "listing"
	TemplateDocument = "document"
)

// TemplatesFS exposes the embedded page templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("views: embedded templates: %v", err))
	}
	return sub
}

// Renderer renders page views through the django (pongo2) engine.
type Renderer struct {
	engine *django.Engine
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// NewRenderer loads templates from fsys, or the embedded set when fsys is nil.
// Auto-escaping stays on so product and page text is never interpreted as markup.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	if fsys == nil {
		fsys = TemplatesFS()
	}
	engine := django.NewFileSystem(http.FS(fsys), ".html")
	engine.SetAutoEscape(true)
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("views: load templates: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

// Render implements interfaces.TemplateRenderer.
func (r *Renderer) Render(out io.Writer, name string, data map[string]any) error {
	if err := r.engine.Render(out, name, data); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	return nil
}

// RenderListing writes a listing page.
func RenderListing(r interfaces.TemplateRenderer, out io.Writer, view ListingView) error {
	return r.Render(out, TemplateListing, map[string]any{"view": view})
}

// RenderDocument writes a content page.
func RenderDocument(r interfaces.TemplateRenderer, out io.Writer, view DocumentView) error {
	return r.Render(out, TemplateDocument, map[string]any{"view": view})
}
