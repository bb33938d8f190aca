package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formengine/pkg/model"
)

// PrepareCreate normalises a template for insertion and applies the creation
// invariants shared by the single-node stores: valid entity type, non-empty
// configuration name, at least one section, derived counts recomputed, and
// DefaultConfig granted when the entity type has no default yet. The returned
// template still lacks an id; the store assigns one.
func PrepareCreate(tpl model.ConfigurationTemplate, hasDefault bool, now time.Time) (model.ConfigurationTemplate, error) {
	if !tpl.EntityType.Valid() {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: unknown entity type %q", ErrInvalidTemplate, tpl.EntityType)
	}
	if strings.TrimSpace(tpl.ConfigurationName) == "" {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: configuration name is required", ErrInvalidTemplate)
	}
	if len(tpl.Sections) == 0 {
		return model.ConfigurationTemplate{}, ErrNoSections
	}

	out := model.CloneTemplate(tpl)
	if out.DisplayName == "" {
		out.DisplayName = out.ConfigurationName
	}
	out.DefaultConfig = !hasDefault
	out.UsageCount = 0
	out.RecomputeCounts()
	out.CreatedAt = now
	out.UpdatedAt = now
	return out, nil
}

// PrepareUpdate merges an incoming template over its stored version: sections
// and metadata are fully replaced, derived counts recomputed, and the
// immutable attributes (entity type, default flag, usage count, creation
// time) carried over from the stored copy. An entity type that differs from
// the stored one is rejected rather than silently ignored.
func PrepareUpdate(stored, incoming model.ConfigurationTemplate, now time.Time) (model.ConfigurationTemplate, error) {
	if incoming.EntityType != "" && incoming.EntityType != stored.EntityType {
		return model.ConfigurationTemplate{}, ErrEntityTypeFixed
	}
	if strings.TrimSpace(incoming.ConfigurationName) == "" {
		return model.ConfigurationTemplate{}, fmt.Errorf("%w: configuration name is required", ErrInvalidTemplate)
	}

	out := model.CloneTemplate(incoming)
	out.ID = stored.ID
	out.EntityType = stored.EntityType
	out.DefaultConfig = stored.DefaultConfig
	out.UsageCount = stored.UsageCount
	out.CreatedAt = stored.CreatedAt
	out.RecomputeCounts()
	out.UpdatedAt = now
	return out, nil
}

// CanDeactivate reports whether the template's active flag may be cleared.
func CanDeactivate(tpl model.ConfigurationTemplate) error {
	if tpl.DefaultConfig {
		return ErrDefaultTemplate
	}
	return nil
}

// CanDelete reports whether the template may be removed.
func CanDelete(tpl model.ConfigurationTemplate) error {
	if tpl.DefaultConfig {
		return ErrDefaultTemplate
	}
	if tpl.UsageCount > 0 {
		return ErrTemplateInUse
	}
	return nil
}
