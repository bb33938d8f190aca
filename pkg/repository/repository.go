// Package repository defines the persistence contracts of the form engine.
// Implementations are injected; nothing in the engine reaches for a hidden
// global store. The in-memory and YAML-backed stores in the subpackages are
// the single-node implementations; the httpclient store delegates to a remote
// configuration/asset service speaking the same REST contract.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Sentinel errors shared by every store implementation.
var (
	ErrNotFound        = errors.New("repository: not found")
	ErrDefaultTemplate = errors.New("repository: default template cannot be deactivated or deleted")
	ErrTemplateInUse   = errors.New("repository: template is bound to existing assets")
	ErrEntityTypeFixed = errors.New("repository: entity type is fixed at creation")
	ErrNoSections      = errors.New("repository: template needs at least one section")
	ErrInvalidTemplate = errors.New("repository: invalid template")
)

// TemplateRepository stores configuration templates and enforces their
// lifecycle invariants (default-template protection, usage-count gating,
// derived-count recomputation).
type TemplateRepository interface {
	// ListTemplates returns summaries for one entity type, or for all entity
	// types when entityType is empty.
	ListTemplates(ctx context.Context, entityType model.EntityType) ([]model.TemplateSummary, error)

	// GetTemplate fetches one template by id.
	GetTemplate(ctx context.Context, id string) (model.ConfigurationTemplate, error)

	// CreateTemplate persists a new template. The store assigns the id,
	// recomputes derived counts, and grants DefaultConfig to the first
	// template of its entity type. A template without sections is rejected.
	CreateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error)

	// UpdateTemplate fully replaces the stored sections and metadata and
	// recomputes derived counts. EntityType, DefaultConfig, and UsageCount
	// are immutable through this operation. An emptied section list is
	// tolerated here, unlike at creation.
	UpdateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error)

	// ToggleTemplate switches the active flag. Deactivating the default
	// template of an entity type is rejected.
	ToggleTemplate(ctx context.Context, id string, active bool) (model.ConfigurationTemplate, error)

	// DeleteTemplate removes a template. Rejected while the template is the
	// default for its entity type or is bound to existing assets.
	DeleteTemplate(ctx context.Context, id string) error
}

// UsageRecorder is implemented by stores that track template usage locally.
// Asset creation records one use of the bound template. Remote stores omit
// it; the remote service tracks usage itself.
type UsageRecorder interface {
	RecordTemplateUse(ctx context.Context, templateID string) error
}

// AssetRecord is the stored representation of an asset produced from an
// assembled payload.
type AssetRecord struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            model.EntityType `json:"type"`
	ConfigurationID string           `json:"configurationId"`
	Description     string           `json:"description"`
	FormData        forms.FormData   `json:"formData"`
	CreatedAt       time.Time        `json:"createdAt,omitempty"`
	UpdatedAt       time.Time        `json:"updatedAt,omitempty"`
}

// AssetRepository stores assets assembled by the form engine.
type AssetRepository interface {
	ListAssets(ctx context.Context, entityType model.EntityType) ([]AssetRecord, error)
	GetAsset(ctx context.Context, id string) (AssetRecord, error)
	CreateAsset(ctx context.Context, payload forms.AssetPayload) (AssetRecord, error)
	UpdateAsset(ctx context.Context, id string, payload forms.AssetPayload) (AssetRecord, error)
	DeleteAsset(ctx context.Context, id string) error
}
