// Package editor builds and mutates configuration templates ahead of
// persistence. All operations are local and synchronous; nothing reaches the
// backing store until Submit, and a failed Submit leaves the draft exactly as
// it was so the user can correct and resubmit.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Default labels applied to freshly created sections and fields. The platform
// ships with French authoring labels; override them with WithLabels.
const (
	DefaultSectionName = "Nouvelle section"
	DefaultFieldName   = "Nouveau champ"
)

// ErrDuplicateOption rejects inserting an option string that already exists in
// the field's sequence (case-sensitive exact match).
var ErrDuplicateOption = errors.New("editor: option already exists")

// ErrNotFound reports that a section or field id did not resolve.
var ErrNotFound = errors.New("editor: not found")

// Saver persists submitted templates. The repository package satisfies this
// contract; tests can substitute a recorder.
type Saver interface {
	CreateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error)
	UpdateTemplate(ctx context.Context, tpl model.ConfigurationTemplate) (model.ConfigurationTemplate, error)
}

// Labels configures the names given to freshly added sections and fields.
type Labels struct {
	SectionName string
	FieldName   string
}

// Option customises an editor before first use.
type Option func(*Editor)

// WithLabels overrides the default authoring labels.
func WithLabels(labels Labels) Option {
	return func(e *Editor) {
		if labels.SectionName != "" {
			e.labels.SectionName = labels.SectionName
		}
		if labels.FieldName != "" {
			e.labels.FieldName = labels.FieldName
		}
	}
}

// WithSaver injects the store Submit forwards to.
func WithSaver(saver Saver) Option {
	return func(e *Editor) {
		e.saver = saver
	}
}

// WithIDGenerator overrides the id generator used for new sections and
// fields. Useful for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Editor is a single-owner draft of one configuration template. It is not
// safe for concurrent use; each editing session owns exactly one editor.
type Editor struct {
	draft    model.ConfigurationTemplate
	existing bool

	// displayLinked keeps DisplayName mirroring ConfigurationName until the
	// display name receives its first independent edit. Tracking the link
	// explicitly avoids a false unlink when a user retypes identical text.
	displayLinked bool

	labels Labels
	saver  Saver
	newID  func() string
}

// New starts a blank draft scoped to the given entity type.
func New(entityType model.EntityType, options ...Option) *Editor {
	e := &Editor{
		draft: model.ConfigurationTemplate{
			EntityType: entityType,
			Active:     true,
		},
		displayLinked: true,
		labels: Labels{
			SectionName: DefaultSectionName,
			FieldName:   DefaultFieldName,
		},
		newID: uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Edit starts a draft from an existing template. The draft is a deep copy;
// the source template is never mutated. The display-name link is restored
// only when the two names still match.
func Edit(tpl model.ConfigurationTemplate, options ...Option) *Editor {
	e := New(tpl.EntityType, options...)
	e.draft = model.CloneTemplate(tpl)
	e.existing = tpl.ID != ""
	e.displayLinked = tpl.DisplayName == tpl.ConfigurationName
	return e
}

// Template returns a deep-copied snapshot of the current draft.
func (e *Editor) Template() model.ConfigurationTemplate {
	return model.CloneTemplate(e.draft)
}

// SetConfigurationName updates the technical name. While the display name is
// still linked it follows along.
func (e *Editor) SetConfigurationName(name string) {
	e.draft.ConfigurationName = name
	if e.displayLinked {
		e.draft.DisplayName = name
	}
}

// SetDisplayName sets the user-facing label and breaks the link to the
// technical name, even when the text happens to match it.
func (e *Editor) SetDisplayName(name string) {
	e.draft.DisplayName = name
	e.displayLinked = false
}

// SetDescription replaces the free-text description.
func (e *Editor) SetDescription(description string) {
	e.draft.Description = description
}

// SetActive flips the draft's active flag.
func (e *Editor) SetActive(active bool) {
	e.draft.Active = active
}

// AddSection appends a new section with a generated id, the default section
// label, order = current section count + 1, and no fields. There is no upper
// bound on section count. Returns the new section's id.
func (e *Editor) AddSection() string {
	section := model.Section{
		ID:    e.newID(),
		Name:  e.labels.SectionName,
		Order: len(e.draft.Sections) + 1,
	}
	e.draft.Sections = append(e.draft.Sections, section)
	return section.ID
}

// RemoveSection deletes the section with the given id. Remaining Order values
// are left untouched.
func (e *Editor) RemoveSection(sectionID string) error {
	idx := e.sectionIndex(sectionID)
	if idx < 0 {
		return fmt.Errorf("%w: section %q", ErrNotFound, sectionID)
	}
	e.draft.Sections = append(e.draft.Sections[:idx], e.draft.Sections[idx+1:]...)
	return nil
}

// RenameSection replaces the section's display label. An empty name is
// accepted.
func (e *Editor) RenameSection(sectionID, name string) error {
	idx := e.sectionIndex(sectionID)
	if idx < 0 {
		return fmt.Errorf("%w: section %q", ErrNotFound, sectionID)
	}
	e.draft.Sections[idx].Name = name
	return nil
}

// AddField appends a text field with the default label to the section and
// returns the new field's id.
func (e *Editor) AddField(sectionID string) (string, error) {
	idx := e.sectionIndex(sectionID)
	if idx < 0 {
		return "", fmt.Errorf("%w: section %q", ErrNotFound, sectionID)
	}
	field := model.Field{
		ID:   e.newID(),
		Name: e.labels.FieldName,
		Type: model.FieldTypeText,
	}
	e.draft.Sections[idx].Fields = append(e.draft.Sections[idx].Fields, field)
	return field.ID, nil
}

// RemoveField deletes exactly one field from one section.
func (e *Editor) RemoveField(sectionID, fieldID string) error {
	section, _, err := e.locate(sectionID, fieldID)
	if err != nil {
		return err
	}
	for i, field := range section.Fields {
		if field.ID == fieldID {
			section.Fields = append(section.Fields[:i], section.Fields[i+1:]...)
			e.draft.Sections[e.sectionIndex(sectionID)].Fields = section.Fields
			return nil
		}
	}
	return fmt.Errorf("%w: field %q", ErrNotFound, fieldID)
}

// FieldPatch carries a partial field update. Nil attributes are left
// untouched.
type FieldPatch struct {
	Name     *string
	Type     *model.FieldType
	Required *bool
	Options  *[]string
}

// UpdateField merges the patch into the addressed field.
func (e *Editor) UpdateField(sectionID, fieldID string, patch FieldPatch) error {
	_, field, err := e.locate(sectionID, fieldID)
	if err != nil {
		return err
	}
	if patch.Name != nil {
		field.Name = *patch.Name
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return fmt.Errorf("editor: unknown field type %q", *patch.Type)
		}
		field.Type = *patch.Type
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil {
		field.Options = append([]string(nil), (*patch.Options)...)
	}
	return nil
}

// AddOption appends an option to a select field. Insertion is rejected with
// ErrDuplicateOption when the exact string is already present; the options
// sequence is left unchanged in that case.
func (e *Editor) AddOption(sectionID, fieldID, option string) error {
	_, field, err := e.locate(sectionID, fieldID)
	if err != nil {
		return err
	}
	for _, existing := range field.Options {
		if existing == option {
			return fmt.Errorf("%w: %q", ErrDuplicateOption, option)
		}
	}
	field.Options = append(field.Options, option)
	return nil
}

// RemoveOption deletes an option string from a select field. Removing an
// absent option is a no-op.
func (e *Editor) RemoveOption(sectionID, fieldID, option string) error {
	_, field, err := e.locate(sectionID, fieldID)
	if err != nil {
		return err
	}
	for i, existing := range field.Options {
		if existing == option {
			field.Options = append(field.Options[:i], field.Options[i+1:]...)
			return nil
		}
	}
	return nil
}

func (e *Editor) sectionIndex(sectionID string) int {
	for i, section := range e.draft.Sections {
		if section.ID == sectionID {
			return i
		}
	}
	return -1
}

// locate resolves the addressed section and field, returning pointers into
// the draft so callers can mutate in place.
func (e *Editor) locate(sectionID, fieldID string) (*model.Section, *model.Field, error) {
	idx := e.sectionIndex(sectionID)
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: section %q", ErrNotFound, sectionID)
	}
	section := &e.draft.Sections[idx]
	for i := range section.Fields {
		if section.Fields[i].ID == fieldID {
			return section, &section.Fields[i], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: field %q in section %q", ErrNotFound, fieldID, sectionID)
}
