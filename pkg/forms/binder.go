package forms

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrFieldNotFound reports that a (section, field) id pair did not resolve
// inside the instance.
var ErrFieldNotFound = errors.New("forms: field not found")

// SetFieldValue replaces exactly one field's value, leaving every other field
// structurally untouched. The value variant must match the field's declared
// type. The operation is a pure replace: applying it twice with the same
// arguments yields the same field value.
func (f *FormInstance) SetFieldValue(sectionID, fieldID string, value model.FieldValue) error {
	field := f.Field(sectionID, fieldID)
	if field == nil {
		return fmt.Errorf("%w: %s/%s", ErrFieldNotFound, sectionID, fieldID)
	}
	if value == nil {
		field.Value = model.ZeroValue(field.Type)
		return nil
	}
	if value.Kind() != field.Type {
		return fmt.Errorf("forms: field %s expects a %s value, got %s", fieldID, field.Type, value.Kind())
	}
	field.Value = model.CloneValue(value)
	return nil
}

// SetStringValue is a convenience wrapper for the string-shaped field kinds.
func (f *FormInstance) SetStringValue(sectionID, fieldID, raw string) error {
	field := f.Field(sectionID, fieldID)
	if field == nil {
		return fmt.Errorf("%w: %s/%s", ErrFieldNotFound, sectionID, fieldID)
	}
	value, err := model.StringValue(field.Type, raw)
	if err != nil {
		return err
	}
	field.Value = value
	return nil
}

// RefFunc derives the session-scoped reference stored for one image of a
// batch. The default produces "upload://<fieldID>/<index>/<filename>".
type RefFunc func(fieldID string, index int, upload ImageUpload) string

func defaultRef(fieldID string, index int, upload ImageUpload) string {
	return fmt.Sprintf("upload://%s/%d/%s", fieldID, index, upload.Filename)
}

// SetImageBatch attaches a freshly selected batch of images to an image
// field. The contract is replace-not-append: any previously attached batch
// and its references are discarded, and the field value becomes one reference
// per image in batch order. The raw uploads are tracked under the field id
// for the later persistence step.
func (f *FormInstance) SetImageBatch(sectionID, fieldID string, batch []ImageUpload, ref RefFunc) error {
	field := f.Field(sectionID, fieldID)
	if field == nil {
		return fmt.Errorf("%w: %s/%s", ErrFieldNotFound, sectionID, fieldID)
	}
	if field.Type != model.FieldTypeImage {
		return fmt.Errorf("forms: field %s is %s, not image", fieldID, field.Type)
	}
	if ref == nil {
		ref = defaultRef
	}

	refs := make(model.ImageValue, 0, len(batch))
	kept := make([]ImageUpload, 0, len(batch))
	for i, upload := range batch {
		refs = append(refs, ref(fieldID, i, upload))
		kept = append(kept, upload)
	}

	field.Value = refs
	if len(kept) == 0 {
		delete(f.Uploads(), fieldID)
		return nil
	}
	f.Uploads()[fieldID] = kept
	return nil
}
