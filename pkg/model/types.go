package model

import "time"

// EntityType is the closed category a configuration template is scoped to.
// A template is created for exactly one entity type and never changes it.
type EntityType string

const (
	EntityTypeProduct   EntityType = "PRODUCT"
	EntityTypeSupplier  EntityType = "SUPPLIER"
	EntityTypeEquipment EntityType = "EQUIPMENT"
)

// EntityTypes lists every legal entity type in declaration order.
func EntityTypes() []EntityType {
	return []EntityType{EntityTypeProduct, EntityTypeSupplier, EntityTypeEquipment}
}

// Valid reports whether the entity type is one of the known categories.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeProduct, EntityTypeSupplier, EntityTypeEquipment:
		return true
	default:
		return false
	}
}

// FieldType is the closed enumeration of form-friendly field kinds. The type
// determines the accepted value shape: every kind carries a plain string
// except image, which carries an ordered sequence of image references.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
	FieldTypeSelect FieldType = "select"
	FieldTypeImage  FieldType = "image"
)

// Valid reports whether the field type is part of the enumeration.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSelect, FieldTypeImage:
		return true
	default:
		return false
	}
}

// Field is the atomic schema unit of a template section. Template fields carry
// no value; values only exist on form-instance fields.
type Field struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`

	// Options defines the legal value domain for select fields. The sequence
	// is ordered and holds no duplicate strings (case-sensitive); duplicates
	// are rejected at insertion time, not at submission.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Section is a named, ordered group of fields. Field order is insertion order.
type Section struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Order controls render/storage order on the template side. Form
	// instances inherit ordering through sequence position and drop it.
	// Removing a section does not renumber the survivors.
	Order  int     `json:"order,omitempty" yaml:"order,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// ConfigurationTemplate is a reusable schema (sections of fields) scoped to
// one entity type, used to generate form instances.
type ConfigurationTemplate struct {
	ID string `json:"id" yaml:"id"`

	// ConfigurationName is the user-authored technical name. Required,
	// non-empty at submission.
	ConfigurationName string `json:"configurationName" yaml:"configurationName"`

	// DisplayName is the user-facing label. The editor keeps it synchronized
	// with ConfigurationName until it is edited independently.
	DisplayName string `json:"displayName" yaml:"displayName"`

	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	EntityType  EntityType `json:"entityType" yaml:"entityType"`
	Sections    []Section  `json:"sections" yaml:"sections"`

	// Active governs whether the template is offered for instantiation.
	Active bool `json:"active" yaml:"active"`

	// DefaultConfig marks the one template per entity type that cannot be
	// deactivated or deleted. It is assigned to the first template ever
	// created for its entity type and is immutable afterwards.
	DefaultConfig bool `json:"defaultConfig" yaml:"defaultConfig"`

	// SectionCount and TotalFieldCount are derived from Sections on every
	// create/update. They are never independently settable.
	SectionCount    int `json:"sectionCount" yaml:"sectionCount"`
	TotalFieldCount int `json:"totalFieldCount" yaml:"totalFieldCount"`

	// UsageCount tracks how many assets were created against this template.
	// Deletion requires a zero usage count.
	UsageCount int `json:"usageCount" yaml:"usageCount"`

	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// RecomputeCounts refreshes SectionCount and TotalFieldCount from Sections.
func (t *ConfigurationTemplate) RecomputeCounts() {
	t.SectionCount = len(t.Sections)
	total := 0
	for _, section := range t.Sections {
		total += len(section.Fields)
	}
	t.TotalFieldCount = total
}

// Summary projects the template into its list representation.
func (t ConfigurationTemplate) Summary() TemplateSummary {
	return TemplateSummary{
		ID:                t.ID,
		ConfigurationName: t.ConfigurationName,
		DisplayName:       t.DisplayName,
		Description:       t.Description,
		EntityType:        t.EntityType,
		Active:            t.Active,
		DefaultConfig:     t.DefaultConfig,
		SectionCount:      t.SectionCount,
		TotalFieldCount:   t.TotalFieldCount,
		UsageCount:        t.UsageCount,
	}
}

// TemplateSummary is the section-free projection returned by list operations.
type TemplateSummary struct {
	ID                string     `json:"id"`
	ConfigurationName string     `json:"configurationName"`
	DisplayName       string     `json:"displayName"`
	Description       string     `json:"description,omitempty"`
	EntityType        EntityType `json:"entityType"`
	Active            bool       `json:"active"`
	DefaultConfig     bool       `json:"defaultConfig"`
	SectionCount      int        `json:"sectionCount"`
	TotalFieldCount   int        `json:"totalFieldCount"`
	UsageCount        int        `json:"usageCount"`
}
