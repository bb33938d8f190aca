// Package render defines the rendering seam of the form engine. Renderers
// turn an instantiated form into a byte representation (HTML, text, etc.) and
// register themselves by name; callers pick one at request time.
package render

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/forms"
)

// Renderer converts a FormInstance into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, instance *forms.FormInstance, options RenderOptions) ([]byte, error)
}
