// Package forms materialises editable form instances from configuration
// templates, applies user edits, validates submit-readiness, and assembles
// the payload handed to the asset store.
package forms

import (
	"github.com/goliatone/go-formengine/pkg/model"
)

// InstanceField is a live field inside a form instance. Unlike template
// fields it always carries a value, possibly empty.
type InstanceField struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     model.FieldType `json:"type"`
	Required bool            `json:"required"`
	Options  []string        `json:"options,omitempty"`
	Value    model.FieldValue
}

// InstanceSection groups instance fields. Ordering is carried by sequence
// position; the template-side Order attribute is dropped here.
type InstanceSection struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Fields []InstanceField `json:"fields"`
}

// FormInstance is a live, editable copy of a template's structure bound to
// one asset being created or edited. It is owned by a single editing session;
// no concurrent mutation path exists.
type FormInstance struct {
	TemplateID string
	EntityType model.EntityType
	Sections   []InstanceSection

	// uploads tracks the raw image batches keyed by field id, in parallel
	// with the reference lists stored in field values. They are forwarded
	// untouched to the persistence step; the engine never uploads.
	uploads map[string][]ImageUpload
}

// ImageUpload is one not-yet-uploaded image in a field's current batch.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// Instantiate produces a blank editable form instance from a template. Every
// section and field is deep-copied and each field receives its zero value
// (an empty reference list for image fields, an empty string otherwise).
// The result shares no mutable references with the template. Callers are
// trusted to pass an active template; no defensive check is made here.
func Instantiate(tpl model.ConfigurationTemplate) *FormInstance {
	instance := &FormInstance{
		TemplateID: tpl.ID,
		EntityType: tpl.EntityType,
		Sections:   make([]InstanceSection, len(tpl.Sections)),
		uploads:    make(map[string][]ImageUpload),
	}
	for i, section := range tpl.Sections {
		fields := make([]InstanceField, len(section.Fields))
		for j, field := range section.Fields {
			fields[j] = InstanceField{
				ID:       field.ID,
				Name:     field.Name,
				Type:     field.Type,
				Required: field.Required,
				Options:  append([]string(nil), field.Options...),
				Value:    model.ZeroValue(field.Type),
			}
		}
		instance.Sections[i] = InstanceSection{
			ID:     section.ID,
			Name:   section.Name,
			Fields: fields,
		}
	}
	return instance
}

// Section returns the section with the given id, or nil.
func (f *FormInstance) Section(sectionID string) *InstanceSection {
	for i := range f.Sections {
		if f.Sections[i].ID == sectionID {
			return &f.Sections[i]
		}
	}
	return nil
}

// Field returns the field addressed by the (section, field) id pair, or nil.
func (f *FormInstance) Field(sectionID, fieldID string) *InstanceField {
	section := f.Section(sectionID)
	if section == nil {
		return nil
	}
	for i := range section.Fields {
		if section.Fields[i].ID == fieldID {
			return &section.Fields[i]
		}
	}
	return nil
}

// Uploads exposes the raw image batches keyed by field id. The map is the
// live side channel, not a copy; it is consumed once at persistence time.
func (f *FormInstance) Uploads() map[string][]ImageUpload {
	if f.uploads == nil {
		f.uploads = make(map[string][]ImageUpload)
	}
	return f.uploads
}
