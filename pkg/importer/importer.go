// Package importer bootstraps configuration templates from OpenAPI documents.
// An object schema becomes a template draft: nested object properties map to
// sections, scalar properties to fields. The draft still goes through the
// editor and the repository lifecycle like any hand-built template.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Options tune the import.
type Options struct {
	// SectionName names the catch-all section holding top-level scalar
	// properties. Defaults to "Informations".
	SectionName string

	// IDGenerator overrides section/field id generation.
	IDGenerator func() string
}

// Importer converts OpenAPI component schemas into template drafts.
type Importer struct {
	sectionName string
	newID       func() string
}

// New constructs an Importer.
func New(opts Options) *Importer {
	imp := &Importer{
		sectionName: opts.SectionName,
		newID:       opts.IDGenerator,
	}
	if imp.sectionName == "" {
		imp.sectionName = "Informations"
	}
	if imp.newID == nil {
		imp.newID = uuid.NewString
	}
	return imp
}

// ImportSchema loads an OpenAPI document from raw bytes and converts the named
// component schema into a template draft for the given entity type. The draft
// carries no id, counts, or timestamps; the repository assigns those.
func (imp *Importer) ImportSchema(ctx context.Context, raw []byte, schemaName string, entityType model.EntityType) (model.ConfigurationTemplate, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	if len(raw) == 0 {
		return model.ConfigurationTemplate{}, errors.New("importer: document payload is empty")
	}
	if !entityType.Valid() {
		return model.ConfigurationTemplate{}, fmt.Errorf("importer: unknown entity type %q", entityType)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return model.ConfigurationTemplate{}, fmt.Errorf("importer: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return model.ConfigurationTemplate{}, errors.New("importer: document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return model.ConfigurationTemplate{}, fmt.Errorf("importer: schema %q not found", schemaName)
	}
	schema := ref.Value
	if !schema.Type.Is("object") {
		return model.ConfigurationTemplate{}, fmt.Errorf("importer: schema %q is not an object", schemaName)
	}

	tpl := model.ConfigurationTemplate{
		ConfigurationName: schemaName,
		EntityType:        entityType,
		Active:            true,
	}
	if schema.Title != "" {
		tpl.ConfigurationName = schema.Title
	}
	tpl.DisplayName = tpl.ConfigurationName
	tpl.Description = schema.Description

	catchAll := model.Section{
		ID:   imp.newID(),
		Name: imp.sectionName,
	}

	for _, name := range sortedKeys(schema.Properties) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		if prop.Value.Type.Is("object") && len(prop.Value.Properties) > 0 {
			section := imp.sectionFromObject(name, prop.Value)
			tpl.Sections = append(tpl.Sections, section)
			continue
		}
		field, ok := imp.fieldFromSchema(name, prop.Value, contains(schema.Required, name))
		if !ok {
			continue
		}
		catchAll.Fields = append(catchAll.Fields, field)
	}

	if len(catchAll.Fields) > 0 {
		// Catch-all section leads; nested object sections follow.
		tpl.Sections = append([]model.Section{catchAll}, tpl.Sections...)
	}
	if len(tpl.Sections) == 0 {
		return model.ConfigurationTemplate{}, fmt.Errorf("importer: schema %q yields no sections", schemaName)
	}
	for i := range tpl.Sections {
		tpl.Sections[i].Order = i + 1
	}
	tpl.RecomputeCounts()
	return tpl, nil
}

func (imp *Importer) sectionFromObject(name string, schema *openapi3.Schema) model.Section {
	section := model.Section{
		ID:   imp.newID(),
		Name: sectionTitle(name, schema),
	}
	for _, propName := range sortedKeys(schema.Properties) {
		prop := schema.Properties[propName]
		if prop == nil || prop.Value == nil {
			continue
		}
		field, ok := imp.fieldFromSchema(propName, prop.Value, contains(schema.Required, propName))
		if !ok {
			continue
		}
		section.Fields = append(section.Fields, field)
	}
	return section
}

// fieldFromSchema maps one scalar or binary-array property onto a field.
// Properties without a usable mapping (nested objects without properties,
// arrays of objects) are skipped.
func (imp *Importer) fieldFromSchema(name string, schema *openapi3.Schema, required bool) (model.Field, bool) {
	field := model.Field{
		ID:       imp.newID(),
		Name:     fieldTitle(name, schema),
		Required: required,
	}

	switch {
	case len(schema.Enum) > 0:
		field.Type = model.FieldTypeSelect
		for _, value := range schema.Enum {
			field.Options = append(field.Options, fmt.Sprint(value))
		}
	case schema.Type.Is("string") && (schema.Format == "date" || schema.Format == "date-time"):
		field.Type = model.FieldTypeDate
	case schema.Type.Is("string") && (schema.Format == "binary" || schema.Format == "base64"):
		field.Type = model.FieldTypeImage
	case schema.Type.Is("string"):
		field.Type = model.FieldTypeText
	case schema.Type.Is("number") || schema.Type.Is("integer"):
		field.Type = model.FieldTypeNumber
	case schema.Type.Is("boolean"):
		// Booleans render as a two-option select.
		field.Type = model.FieldTypeSelect
		field.Options = []string{"true", "false"}
	case schema.Type.Is("array"):
		items := schema.Items
		if items == nil || items.Value == nil {
			return model.Field{}, false
		}
		if items.Value.Type.Is("string") && (items.Value.Format == "binary" || items.Value.Format == "base64" || items.Value.Format == "uri") {
			field.Type = model.FieldTypeImage
			break
		}
		return model.Field{}, false
	default:
		return model.Field{}, false
	}
	return field, true
}

func sectionTitle(name string, schema *openapi3.Schema) string {
	if schema.Title != "" {
		return schema.Title
	}
	return humanise(name)
}

func fieldTitle(name string, schema *openapi3.Schema) string {
	if schema.Title != "" {
		return schema.Title
	}
	return humanise(name)
}

// humanise turns a property key into a label: "purchaseDate" and
// "purchase_date" both become "Purchase date".
func humanise(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return name
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

func sortedKeys(properties openapi3.Schemas) []string {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
