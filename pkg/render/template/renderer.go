// Package template defines the template engine seam renderers rely on. The
// contract mirrors the github.com/goliatone/go-template engine surface; the
// gotemplate subpackage provides the pongo2-backed implementation.
package template

import (
	"io"
)

// TemplateRenderer renders named or inline templates against arbitrary data.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
