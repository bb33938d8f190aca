package service

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/goliatone/go-formengine/internal/pkg/errors"
	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/repository"
)

// SubmitAssetRequest is the service-level submission contract. Values are
// keyed by field id; image fields carry their reference lists as produced by
// the upload step.
type SubmitAssetRequest struct {
	Name            string
	EntityType      string
	ConfigurationID string
	Description     string
	Values          map[string]any
}

// AssetService validates submissions against their template, assembles the
// asset payload, and persists it.
type AssetService struct {
	templates repository.TemplateRepository
	assets    repository.AssetRepository
	usage     repository.UsageRecorder
	log       *zap.Logger
}

// NewAssetService creates a new AssetService. The usage recorder may be nil
// when the backing store tracks usage itself.
func NewAssetService(templates repository.TemplateRepository, assets repository.AssetRepository, usage repository.UsageRecorder, log *zap.Logger) *AssetService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssetService{templates: templates, assets: assets, usage: usage, log: log}
}

// List returns stored assets, filtered by entity type when given.
func (s *AssetService) List(ctx context.Context, entityType string) ([]repository.AssetRecord, error) {
	filter := model.EntityType(entityType)
	if entityType != "" && !filter.Valid() {
		return nil, apperrors.BadRequest(apperrors.CodeUnknownEntity, "unknown entity type: "+entityType)
	}
	records, err := s.assets.ListAssets(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return records, nil
}

// Get fetches one asset by id.
func (s *AssetService) Get(ctx context.Context, id string) (repository.AssetRecord, error) {
	record, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return repository.AssetRecord{}, mapRepositoryError(err)
	}
	return record, nil
}

// Create validates the submission against its template, assembles the
// payload, stores the asset, and records one use of the template.
func (s *AssetService) Create(ctx context.Context, req SubmitAssetRequest) (repository.AssetRecord, error) {
	entityType := model.EntityType(req.EntityType)
	if !entityType.Valid() {
		return repository.AssetRecord{}, apperrors.BadRequest(apperrors.CodeUnknownEntity, "unknown entity type: "+req.EntityType)
	}

	instance, err := s.buildInstance(ctx, req)
	if err != nil {
		return repository.AssetRecord{}, err
	}
	if instance.EntityType != entityType {
		return repository.AssetRecord{}, apperrors.BadRequest(apperrors.CodeValidationError, "submission entity type does not match the template")
	}
	if err := s.validate(instance, req.Name); err != nil {
		return repository.AssetRecord{}, err
	}

	payload, _ := forms.Assemble(instance, forms.Metadata{
		Name:            req.Name,
		Type:            entityType,
		ConfigurationID: req.ConfigurationID,
		Description:     req.Description,
	})

	record, err := s.assets.CreateAsset(ctx, payload)
	if err != nil {
		return repository.AssetRecord{}, mapRepositoryError(err)
	}
	if s.usage != nil {
		if err := s.usage.RecordTemplateUse(ctx, req.ConfigurationID); err != nil {
			// The asset is already stored; a failed usage bump is logged,
			// not surfaced.
			s.log.Warn("record template use failed",
				zap.String("templateId", req.ConfigurationID),
				zap.Error(err),
			)
		}
	}
	s.log.Info("asset created",
		zap.String("id", record.ID),
		zap.String("templateId", req.ConfigurationID),
		zap.String("entityType", string(record.Type)),
	)
	return record, nil
}

// Update revalidates the submission and replaces the stored asset's form
// snapshot. The entity type stays as stored; the request leaves it empty.
func (s *AssetService) Update(ctx context.Context, id string, req SubmitAssetRequest) (repository.AssetRecord, error) {
	instance, err := s.buildInstance(ctx, req)
	if err != nil {
		return repository.AssetRecord{}, err
	}
	if err := s.validate(instance, req.Name); err != nil {
		return repository.AssetRecord{}, err
	}

	payload, _ := forms.Assemble(instance, forms.Metadata{
		Name:            req.Name,
		ConfigurationID: req.ConfigurationID,
		Description:     req.Description,
	})

	record, err := s.assets.UpdateAsset(ctx, id, payload)
	if err != nil {
		return repository.AssetRecord{}, mapRepositoryError(err)
	}
	s.log.Info("asset updated", zap.String("id", id))
	return record, nil
}

// Delete removes one asset.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	if err := s.assets.DeleteAsset(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.log.Info("asset deleted", zap.String("id", id))
	return nil
}

// buildInstance instantiates the bound template and binds every submitted
// value onto it. Unknown field ids are rejected rather than dropped.
func (s *AssetService) buildInstance(ctx context.Context, req SubmitAssetRequest) (*forms.FormInstance, error) {
	tpl, err := s.templates.GetTemplate(ctx, req.ConfigurationID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	instance := forms.Instantiate(tpl)
	bound := make(map[string]struct{}, len(req.Values))
	for _, section := range instance.Sections {
		for _, field := range section.Fields {
			raw, ok := req.Values[field.ID]
			if !ok {
				continue
			}
			value, err := model.ValueFromRaw(field.Type, raw)
			if err != nil {
				return nil, apperrors.BadRequest(apperrors.CodeValidationError, err.Error()).
					WithFieldErrors([]apperrors.FieldError{{
						Field: section.Name + " > " + field.Name,
						Code:  apperrors.CodeValidationError,
					}})
			}
			if err := instance.SetFieldValue(section.ID, field.ID, value); err != nil {
				return nil, apperrors.BadRequest(apperrors.CodeValidationError, err.Error())
			}
			bound[field.ID] = struct{}{}
		}
	}
	if len(bound) != len(req.Values) {
		for fieldID := range req.Values {
			if _, ok := bound[fieldID]; !ok {
				return nil, apperrors.BadRequest(apperrors.CodeValidationError, "unknown field id: "+fieldID)
			}
		}
	}
	return instance, nil
}

// validate turns a failed validation result into a field-level AppError.
func (s *AssetService) validate(instance *forms.FormInstance, name string) error {
	result := forms.Validate(instance, name)
	if result.Valid() {
		return nil
	}
	var fieldErrors []apperrors.FieldError
	if result.NameMissing {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Field:   "name",
			Code:    apperrors.CodeValidationError,
			Message: "name is required",
		})
	}
	for _, path := range result.MissingFields {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Field:   path,
			Code:    apperrors.CodeValidationError,
			Message: "required field is empty",
		})
	}
	return apperrors.BadRequest(apperrors.CodeValidationError, "submission is incomplete").
		WithFieldErrors(fieldErrors)
}
