// Package memory provides the in-memory reference implementation of the
// repository contracts. It is the default store for tests and single-process
// deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/repository"
)

// Option customises a Store before first use.
type Option func(*Store)

// WithIDGenerator overrides the id generator. Useful for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps templates and assets in process memory behind one mutex.
type Store struct {
	mu        sync.RWMutex
	templates map[string]model.ConfigurationTemplate
	assets    map[string]repository.AssetRecord
	order     []string // template insertion order, for stable listings

	newID func() string
	now   func() time.Time
}

var (
	_ repository.TemplateRepository = (*Store)(nil)
	_ repository.AssetRepository    = (*Store)(nil)
	_ repository.UsageRecorder      = (*Store)(nil)
)

// New constructs an empty store.
func New(options ...Option) *Store {
	s := &Store{
		templates: make(map[string]model.ConfigurationTemplate),
		assets:    make(map[string]repository.AssetRecord),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// ListTemplates returns summaries in insertion order, filtered by entity type
// when one is given.
func (s *Store) ListTemplates(ctx context.Context, entityType model.EntityType) ([]model.TemplateSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TemplateSummary, 0, len(s.order))
	for _, id := range s.order {
		tpl := s.templates[id]
		if entityType != "" && tpl.EntityType != entityType {
			continue
		}
		out = append(out, tpl.Summary())
	}
	return out, nil
}

// GetTemplate fetches a deep copy of one template.
func (s *Store) GetTemplate(ctx context.Context, id string) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[id]
	if !ok {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: template %q", repository.ErrNotFound, id)
	}
	return model.CloneTemplate(tpl), nil
}

// CreateTemplate inserts a new template, granting DefaultConfig to the first
// template of its entity type.
func (s *Store) CreateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prepared, err := repository.PrepareCreate(tpl, s.hasDefaultLocked(tpl.EntityType), s.now())
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	prepared.ID = s.newID()
	s.templates[prepared.ID] = prepared
	s.order = append(s.order, prepared.ID)
	return model.CloneTemplate(prepared), nil
}

// UpdateTemplate fully replaces the stored sections and metadata.
func (s *Store) UpdateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.templates[tpl.ID]
	if !ok {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: template %q", repository.ErrNotFound, tpl.ID)
	}
	prepared, err := repository.PrepareUpdate(stored, tpl, s.now())
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.templates[prepared.ID] = prepared
	return model.CloneTemplate(prepared), nil
}

// ToggleTemplate switches the active flag, protecting the default template.
func (s *Store) ToggleTemplate(ctx context.Context, id string, active bool) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[id]
	if !ok {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: template %q", repository.ErrNotFound, id)
	}
	if !active {
		if err := repository.CanDeactivate(tpl); err != nil {
			return model.ConfigurationTemplate{}, err
		}
	}
	tpl.Active = active
	tpl.UpdatedAt = s.now()
	s.templates[id] = tpl
	return model.CloneTemplate(tpl), nil
}

// DeleteTemplate removes a template unless it is the default for its entity
// type or still bound to assets.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[id]
	if !ok {
		return fmt.Errorf("%w: template %q", repository.ErrNotFound, id)
	}
	if err := repository.CanDelete(tpl); err != nil {
		return err
	}
	delete(s.templates, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// RecordTemplateUse increments the usage count of one template.
func (s *Store) RecordTemplateUse(ctx context.Context, templateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[templateID]
	if !ok {
		return fmt.Errorf("%w: template %q", repository.ErrNotFound, templateID)
	}
	tpl.UsageCount++
	s.templates[templateID] = tpl
	return nil
}

func (s *Store) hasDefaultLocked(entityType model.EntityType) bool {
	for _, tpl := range s.templates {
		if tpl.EntityType == entityType && tpl.DefaultConfig {
			return true
		}
	}
	return false
}

// cloneAsset copies a record so the stored form snapshot shares no slices
// with what callers receive, mirroring the template-side CloneTemplate.
func cloneAsset(record repository.AssetRecord) repository.AssetRecord {
	record.FormData = record.FormData.Clone()
	return record
}

// ListAssets returns stored assets sorted by creation time, filtered by
// entity type when one is given.
func (s *Store) ListAssets(ctx context.Context, entityType model.EntityType) ([]repository.AssetRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]repository.AssetRecord, 0, len(s.assets))
	for _, record := range s.assets {
		if entityType != "" && record.Type != entityType {
			continue
		}
		out = append(out, cloneAsset(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetAsset fetches one asset by id.
func (s *Store) GetAsset(ctx context.Context, id string) (repository.AssetRecord, error) {
	if err := ctx.Err(); err != nil {
		return repository.AssetRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.assets[id]
	if !ok {
		return repository.AssetRecord{}, fmt.Errorf("%w: asset %q", repository.ErrNotFound, id)
	}
	return cloneAsset(record), nil
}

// CreateAsset stores an assembled payload as a new asset.
func (s *Store) CreateAsset(ctx context.Context, payload forms.AssetPayload) (repository.AssetRecord, error) {
	if err := ctx.Err(); err != nil {
		return repository.AssetRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record := repository.AssetRecord{
		ID:              s.newID(),
		Name:            payload.Name,
		Type:            payload.Type,
		ConfigurationID: payload.ConfigurationID,
		Description:     payload.Description,
		FormData:        payload.FormData.Clone(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.assets[record.ID] = record
	return cloneAsset(record), nil
}

// UpdateAsset replaces the stored asset's metadata and form snapshot. The
// entity type is preserved from the stored record; updates never carry one.
func (s *Store) UpdateAsset(ctx context.Context, id string, payload forms.AssetPayload) (repository.AssetRecord, error) {
	if err := ctx.Err(); err != nil {
		return repository.AssetRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.assets[id]
	if !ok {
		return repository.AssetRecord{}, fmt.Errorf("%w: asset %q", repository.ErrNotFound, id)
	}
	record.Name = payload.Name
	record.ConfigurationID = payload.ConfigurationID
	record.Description = payload.Description
	record.FormData = payload.FormData.Clone()
	record.UpdatedAt = s.now()
	s.assets[id] = record
	return cloneAsset(record), nil
}

// DeleteAsset removes one asset.
func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return fmt.Errorf("%w: asset %q", repository.ErrNotFound, id)
	}
	delete(s.assets, id)
	return nil
}
