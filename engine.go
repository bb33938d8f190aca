// Package formengine is the top-level entry point of the form engine: dynamic
// configuration templates, form instantiation and binding, submit validation,
// and payload assembly. The root package re-exports the types most callers
// need; the pkg subpackages carry the full surface.
package formengine

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/editor"
	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
)

// EntityType is the closed category a configuration template is scoped to.
type EntityType = model.EntityType

// FieldType enumerates the form-friendly field kinds.
type FieldType = model.FieldType

// ConfigurationTemplate is a stored form definition.
type ConfigurationTemplate = model.ConfigurationTemplate

// TemplateSummary is the list-view projection of a template.
type TemplateSummary = model.TemplateSummary

// FormInstance is a live, editable copy of a template bound to one asset.
type FormInstance = forms.FormInstance

// RenderOptions describes per-request overrides renderers can use to prefill
// values or surface validation errors.
type RenderOptions = render.RenderOptions

// NewEditor opens an editing session for a brand-new template draft.
func NewEditor(entityType EntityType, options ...editor.Option) *editor.Editor {
	return editor.New(entityType, options...)
}

// EditTemplate opens an editing session over an existing template. The
// session works on a deep copy; the stored template is untouched until
// Submit succeeds.
func EditTemplate(tpl ConfigurationTemplate, options ...editor.Option) *editor.Editor {
	return editor.Edit(tpl, options...)
}

// Instantiate produces a blank editable form instance from a template.
func Instantiate(tpl ConfigurationTemplate) *FormInstance {
	return forms.Instantiate(tpl)
}

// Validate decides submit-readiness for an instance bound to the asset named
// entityName, collecting every violation.
func Validate(instance *FormInstance, entityName string) forms.Result {
	return forms.Validate(instance, entityName)
}

// Assemble flattens a completed instance plus asset metadata into the
// asset-store payload and the pending image batches.
func Assemble(instance *FormInstance, meta forms.Metadata) (forms.AssetPayload, map[string][]forms.ImageUpload) {
	return forms.Assemble(instance, meta)
}

// RenderHTML instantiates a template and renders it with the given renderer.
// It is the simplest entry point for callers that just want HTML output.
func RenderHTML(ctx context.Context, renderer render.Renderer, tpl ConfigurationTemplate, options RenderOptions) ([]byte, error) {
	return renderer.Render(ctx, forms.Instantiate(tpl), options)
}
