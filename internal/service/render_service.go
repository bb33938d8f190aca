package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/goliatone/go-formengine/internal/pkg/errors"
	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/repository"
)

// RenderService serves template previews: it instantiates a blank form from
// a stored template and renders it through a named renderer from the
// registry, applying the theme resolved at startup.
type RenderService struct {
	templates       repository.TemplateRepository
	registry        *render.Registry
	defaultRenderer string
	theme           *render.ThemeConfig
	log             *zap.Logger
}

// NewRenderService creates a RenderService. A nil theme means unthemed
// previews.
func NewRenderService(
	templates repository.TemplateRepository,
	registry *render.Registry,
	defaultRenderer string,
	themeCfg *render.ThemeConfig,
	log *zap.Logger,
) *RenderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RenderService{
		templates:       templates,
		registry:        registry,
		defaultRenderer: defaultRenderer,
		theme:           themeCfg,
		log:             log,
	}
}

// Renderers lists the registered renderer names.
func (s *RenderService) Renderers() []string {
	return s.registry.List()
}

// Preview renders a blank form instance of one template and returns the
// bytes plus their content type. An empty renderer name falls back to the
// configured default.
func (s *RenderService) Preview(ctx context.Context, templateID, rendererName string) ([]byte, string, error) {
	name := rendererName
	if name == "" {
		name = s.defaultRenderer
	}
	renderer, err := s.registry.Get(name)
	if err != nil {
		return nil, "", apperrors.BadRequest(apperrors.CodeUnknownRenderer, "unknown renderer: "+name)
	}

	tpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, "", mapRepositoryError(err)
	}

	out, err := renderer.Render(ctx, forms.Instantiate(tpl), render.RenderOptions{
		Method: http.MethodPost,
		Action: "/api/v1/assets",
		Theme:  s.theme,
	})
	if err != nil {
		s.log.Error("preview render failed",
			zap.String("template", templateID),
			zap.String("renderer", name),
			zap.Error(err),
		)
		return nil, "", apperrors.Wrap(err, apperrors.CodeInternal, "preview rendering failed", http.StatusInternalServerError)
	}
	return out, renderer.ContentType(), nil
}
