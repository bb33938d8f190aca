package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TemplatesFS exposes the built-in template bundle.
func TemplatesFS() fs.FS {
	return templatesFS
}
