// Package service implements the application services behind the REST API:
// template lifecycle on one side, form submission and asset persistence on
// the other. Services translate repository and engine errors into the
// structured AppError surface handlers render.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/goliatone/go-formengine/internal/pkg/errors"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/repository"
)

// TemplateService handles configuration template lifecycle.
type TemplateService struct {
	templates repository.TemplateRepository
	log       *zap.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templates repository.TemplateRepository, log *zap.Logger) *TemplateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TemplateService{templates: templates, log: log}
}

// List returns template summaries, filtered by entity type when given.
func (s *TemplateService) List(ctx context.Context, entityType string) ([]model.TemplateSummary, error) {
	filter := model.EntityType(entityType)
	if entityType != "" && !filter.Valid() {
		return nil, apperrors.BadRequest(apperrors.CodeUnknownEntity, "unknown entity type: "+entityType)
	}
	summaries, err := s.templates.ListTemplates(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return summaries, nil
}

// Get fetches one template by id.
func (s *TemplateService) Get(ctx context.Context, id string) (model.ConfigurationTemplate, error) {
	tpl, err := s.templates.GetTemplate(ctx, id)
	if err != nil {
		return model.ConfigurationTemplate{}, mapRepositoryError(err)
	}
	return tpl, nil
}

// Create persists a new template.
func (s *TemplateService) Create(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	created, err := s.templates.CreateTemplate(ctx, tpl)
	if err != nil {
		return model.ConfigurationTemplate{}, mapRepositoryError(err)
	}
	s.log.Info("template created",
		zap.String("id", created.ID),
		zap.String("entityType", string(created.EntityType)),
		zap.String("name", created.ConfigurationName),
		zap.Bool("default", created.DefaultConfig),
	)
	return created, nil
}

// Update fully replaces a stored template's sections and metadata.
func (s *TemplateService) Update(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	updated, err := s.templates.UpdateTemplate(ctx, tpl)
	if err != nil {
		return model.ConfigurationTemplate{}, mapRepositoryError(err)
	}
	s.log.Info("template updated",
		zap.String("id", updated.ID),
		zap.Int("sections", updated.SectionCount),
		zap.Int("fields", updated.TotalFieldCount),
	)
	return updated, nil
}

// Toggle switches a template's active flag.
func (s *TemplateService) Toggle(ctx context.Context, id string, active bool) (model.ConfigurationTemplate, error) {
	toggled, err := s.templates.ToggleTemplate(ctx, id, active)
	if err != nil {
		return model.ConfigurationTemplate{}, mapRepositoryError(err)
	}
	s.log.Info("template toggled", zap.String("id", id), zap.Bool("active", active))
	return toggled, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.templates.DeleteTemplate(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.log.Info("template deleted", zap.String("id", id))
	return nil
}

// mapRepositoryError converts repository sentinels into the AppError surface.
func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.Wrap(err, apperrors.CodeNotFound, "resource not found", 404)
	case errors.Is(err, repository.ErrDefaultTemplate):
		return apperrors.Wrap(err, apperrors.CodeDefaultTemplate, "the default template cannot be deactivated or deleted", 409)
	case errors.Is(err, repository.ErrTemplateInUse):
		return apperrors.Wrap(err, apperrors.CodeTemplateInUse, "template is bound to existing assets", 409)
	case errors.Is(err, repository.ErrEntityTypeFixed):
		return apperrors.Wrap(err, apperrors.CodeEntityTypeFixed, "entity type is fixed at creation", 400)
	case errors.Is(err, repository.ErrNoSections):
		return apperrors.Wrap(err, apperrors.CodeNoSections, "template needs at least one section", 400)
	case errors.Is(err, repository.ErrInvalidTemplate):
		return apperrors.Wrap(err, apperrors.CodeValidationError, err.Error(), 400)
	default:
		return apperrors.Wrap(err, apperrors.CodeInternal, "internal error", 500)
	}
}
