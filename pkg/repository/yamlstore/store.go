// Package yamlstore persists configuration templates as YAML documents, one
// file per template, inside a single directory. It is the durable single-node
// store used by the CLI and small deployments.
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/repository"
)

const fileExt = ".yaml"

// Option customises a Store before first use.
type Option func(*Store)

// WithIDGenerator overrides the id generator.
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

// Store reads and writes template documents under one directory. A process
// level mutex serialises writers; cross-process coordination is out of scope.
type Store struct {
	dir   string
	mu    sync.Mutex
	newID func() string
	now   func() time.Time
}

var (
	_ repository.TemplateRepository = (*Store)(nil)
	_ repository.UsageRecorder      = (*Store)(nil)
)

// Open prepares a store rooted at dir, creating the directory when missing.
func Open(dir string, options ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("yamlstore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("yamlstore: create directory: %w", err)
	}
	s := &Store{
		dir:   dir,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// ListTemplates scans the directory and returns summaries ordered by
// creation time.
func (s *Store) ListTemplates(ctx context.Context, entityType model.EntityType) ([]model.TemplateSummary, error) {
	templates, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.TemplateSummary, 0, len(templates))
	for _, tpl := range templates {
		if entityType != "" && tpl.EntityType != entityType {
			continue
		}
		out = append(out, tpl.Summary())
	}
	return out, nil
}

// GetTemplate loads one template document.
func (s *Store) GetTemplate(ctx context.Context, id string) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return s.read(id)
}

// CreateTemplate writes a new template document, granting DefaultConfig to
// the first template of its entity type.
func (s *Store) CreateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	hasDefault, err := s.hasDefault(ctx, tpl.EntityType)
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	prepared, err := repository.PrepareCreate(tpl, hasDefault, s.now())
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	prepared.ID = s.newID()
	if err := s.write(prepared); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return prepared, nil
}

// UpdateTemplate fully replaces the stored document.
func (s *Store) UpdateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read(tpl.ID)
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	prepared, err := repository.PrepareUpdate(stored, tpl, s.now())
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	if err := s.write(prepared); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return prepared, nil
}

// ToggleTemplate switches the active flag, protecting the default template.
func (s *Store) ToggleTemplate(ctx context.Context, id string, active bool) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, err := s.read(id)
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}
	if !active {
		if err := repository.CanDeactivate(tpl); err != nil {
			return model.ConfigurationTemplate{}, err
		}
	}
	tpl.Active = active
	tpl.UpdatedAt = s.now()
	if err := s.write(tpl); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	return tpl, nil
}

// DeleteTemplate removes the document unless lifecycle rules forbid it.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, err := s.read(id)
	if err != nil {
		return err
	}
	if err := repository.CanDelete(tpl); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		return fmt.Errorf("yamlstore: remove template %q: %w", id, err)
	}
	return nil
}

// RecordTemplateUse increments the usage count of one template document.
func (s *Store) RecordTemplateUse(ctx context.Context, templateID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, err := s.read(templateID)
	if err != nil {
		return err
	}
	tpl.UsageCount++
	return s.write(tpl)
}

func (s *Store) hasDefault(ctx context.Context, entityType model.EntityType) (bool, error) {
	templates, err := s.loadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, tpl := range templates {
		if tpl.EntityType == entityType && tpl.DefaultConfig {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) loadAll(ctx context.Context) ([]model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("yamlstore: scan directory: %w", err)
	}
	var out []model.ConfigurationTemplate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), fileExt)
		if !validID(id) {
			continue
		}
		tpl, err := s.read(id)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// validID accepts only the id alphabet this store generates (uuid and test
// shapes). Anything else, path separators included, must never reach the
// filesystem: the server passes request path parameters straight through.
func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func (s *Store) read(id string) (model.ConfigurationTemplate, error) {
	if !validID(id) {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: template %q", repository.ErrNotFound, id)
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.ConfigurationTemplate{}, fmt.Errorf("%w: template %q", repository.ErrNotFound, id)
		}
		return model.ConfigurationTemplate{}, fmt.Errorf("yamlstore: read template %q: %w", id, err)
	}
	var tpl model.ConfigurationTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return model.ConfigurationTemplate{}, fmt.Errorf("yamlstore: decode template %q: %w", id, err)
	}
	return tpl, nil
}

func (s *Store) write(tpl model.ConfigurationTemplate) error {
	data, err := yaml.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("yamlstore: encode template %q: %w", tpl.ID, err)
	}
	tmp := s.path(tpl.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("yamlstore: write template %q: %w", tpl.ID, err)
	}
	if err := os.Rename(tmp, s.path(tpl.ID)); err != nil {
		return fmt.Errorf("yamlstore: publish template %q: %w", tpl.ID, err)
	}
	return nil
}

// LoadTemplateFile decodes one template document from an arbitrary path,
// outside any store directory. Used by the CLI to fill ad-hoc templates.
func LoadTemplateFile(path string) (model.ConfigurationTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ConfigurationTemplate{}, fmt.Errorf("yamlstore: read %q: %w", path, err)
	}
	var tpl model.ConfigurationTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return model.ConfigurationTemplate{}, fmt.Errorf("yamlstore: decode %q: %w", path, err)
	}
	if tpl.SectionCount == 0 && tpl.TotalFieldCount == 0 {
		tpl.RecomputeCounts()
	}
	return tpl, nil
}
