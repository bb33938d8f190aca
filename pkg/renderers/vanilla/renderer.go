// Package vanilla renders a form instance as dependency-free HTML. Field
// markup comes from pongo2 partials resolved through the theme configuration,
// so themes can override any slot without forking the renderer.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	rendertemplate "github.com/goliatone/go-formengine/pkg/render/template"
	gotemplate "github.com/goliatone/go-formengine/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer is the built-in HTML renderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render walks the instance section by section, rendering each field through
// its themed partial slot and composing the results into the form layout.
func (r *Renderer) Render(ctx context.Context, instance *forms.FormInstance, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if instance == nil {
		return nil, fmt.Errorf("vanilla renderer: form instance is nil")
	}

	partials := render.DefaultThemeFallbacks()
	var cssVars map[string]string
	if options.Theme != nil {
		if len(options.Theme.Partials) > 0 {
			partials = options.Theme.Partials
		}
		cssVars = options.Theme.CSSVars
	}

	sectionsHTML := make([]string, 0, len(instance.Sections))
	for _, section := range instance.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		html, err := r.renderSection(section, partials, options)
		if err != nil {
			return nil, err
		}
		sectionsHTML = append(sectionsHTML, html)
	}

	method, hiddenMethod := submitMethod(options.Method)
	result, err := r.templates.RenderTemplate(partials["form.layout"], map[string]any{
		"entity_name":   options.EntityName,
		"action":        options.Action,
		"method":        method,
		"hidden_method": hiddenMethod,
		"sections":      sectionsHTML,
		"css_vars":      cssVars,
		"form_errors":   options.Errors[""],
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form layout: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderSection(section forms.InstanceSection, partials map[string]string, options render.RenderOptions) (string, error) {
	fieldsHTML := make([]string, 0, len(section.Fields))
	for _, field := range section.Fields {
		html, err := r.renderField(section, field, partials, options)
		if err != nil {
			return "", err
		}
		fieldsHTML = append(fieldsHTML, html)
	}
	return r.templates.RenderTemplate(partials["form.section"], map[string]any{
		"id":     section.ID,
		"name":   sanitizeLabel(section.Name),
		"fields": fieldsHTML,
	})
}

func (r *Renderer) renderField(section forms.InstanceSection, field forms.InstanceField, partials map[string]string, options render.RenderOptions) (string, error) {
	slot, ok := fieldSlots[field.Type]
	if !ok {
		return "", fmt.Errorf("vanilla renderer: no partial slot for field type %q", field.Type)
	}
	path, ok := partials[slot]
	if !ok {
		return "", fmt.Errorf("vanilla renderer: partial %q not configured", slot)
	}

	ctx := map[string]any{
		"id":       field.ID,
		"name":     sanitizeLabel(field.Name),
		"type":     string(field.Type),
		"required": field.Required,
		"errors":   options.Errors[section.Name+" > "+field.Name],
	}
	switch value := field.Value.(type) {
	case model.ImageValue:
		refs := make([]string, len(value))
		copy(refs, value)
		ctx["refs"] = refs
	default:
		ctx["value"] = model.RawValue(field.Value)
	}
	if field.Type == model.FieldTypeSelect {
		ctx["options"] = append([]string(nil), field.Options...)
	}

	html, err := r.templates.RenderTemplate(path, ctx)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render field %q: %w", field.Name, err)
	}
	return html, nil
}

var fieldSlots = map[model.FieldType]string{
	model.FieldTypeText:   "field.text",
	model.FieldTypeNumber: "field.number",
	model.FieldTypeDate:   "field.date",
	model.FieldTypeSelect: "field.select",
	model.FieldTypeImage:  "field.image",
}

// submitMethod maps the requested verb onto what a browser form can actually
// submit: anything beyond GET/POST becomes a POST with a hidden _method input.
func submitMethod(requested string) (method, hiddenMethod string) {
	verb := strings.ToUpper(strings.TrimSpace(requested))
	switch verb {
	case "", http.MethodPost:
		return http.MethodPost, ""
	case http.MethodGet:
		return http.MethodGet, ""
	default:
		return http.MethodPost, verb
	}
}
