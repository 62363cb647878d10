package interfaces

import (
	"io"
)

// TemplateRenderer renders a named page template with the supplied bindings.
type TemplateRenderer interface {
	Render(out io.Writer, name string, data map[string]any) error
}
