package forms

import (
	"encoding/json"

	"github.com/goliatone/go-formengine/pkg/model"
)

// PayloadField is the wire shape of one answered field. The value key is
// always present: a nil value is coalesced to the empty string so downstream
// consumers never observe a missing value.
type PayloadField struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     model.FieldType `json:"type"`
	Required bool            `json:"required"`
	Options  []string        `json:"options,omitempty"`
	Value    any             `json:"value"`
}

// PayloadSection groups answered fields in the submitted snapshot.
type PayloadSection struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Fields []PayloadField `json:"fields"`
}

// FormData is the form snapshot embedded in an asset payload.
type FormData struct {
	Sections []PayloadSection `json:"sections"`
}

// Clone deep-copies the snapshot. Stores hand out clones so callers can
// mutate returned records without reaching back into stored state.
func (d FormData) Clone() FormData {
	if d.Sections == nil {
		return FormData{}
	}
	out := FormData{Sections: make([]PayloadSection, len(d.Sections))}
	for i, section := range d.Sections {
		fields := make([]PayloadField, len(section.Fields))
		for j, field := range section.Fields {
			copied := field
			if field.Options != nil {
				copied.Options = append([]string(nil), field.Options...)
			}
			if refs, ok := field.Value.([]string); ok {
				copied.Value = append([]string(nil), refs...)
			}
			fields[j] = copied
		}
		section.Fields = fields
		out.Sections[i] = section
	}
	return out
}

// Metadata supplies the asset-level attributes merged into the payload.
// Type is only set on creation; updates leave it empty.
type Metadata struct {
	Name            string
	Type            model.EntityType
	ConfigurationID string
	Description     string
}

// AssetPayload is the exact contract the asset store expects for create and
// update calls.
type AssetPayload struct {
	Name            string           `json:"name"`
	Type            model.EntityType `json:"type,omitempty"`
	ConfigurationID string           `json:"configurationId"`
	Description     string           `json:"description"`
	FormData        FormData         `json:"formData"`
}

// MarshalJSONValue round-trips a payload through JSON, mostly useful in tests
// and debug tooling.
func (p AssetPayload) MarshalJSONValue() ([]byte, error) {
	return json.Marshal(p)
}

// Assemble flattens a completed form instance plus asset metadata into the
// asset-store payload. Options are passed through unchanged. The raw image
// batches keyed by field id are returned as a side channel for the external
// upload step; no upload or transcoding happens here.
func Assemble(instance *FormInstance, meta Metadata) (AssetPayload, map[string][]ImageUpload) {
	payload := AssetPayload{
		Name:            meta.Name,
		Type:            meta.Type,
		ConfigurationID: meta.ConfigurationID,
		Description:     meta.Description,
	}
	if instance == nil {
		return payload, nil
	}

	payload.FormData.Sections = make([]PayloadSection, len(instance.Sections))
	for i, section := range instance.Sections {
		fields := make([]PayloadField, len(section.Fields))
		for j, field := range section.Fields {
			fields[j] = PayloadField{
				ID:       field.ID,
				Name:     field.Name,
				Type:     field.Type,
				Required: field.Required,
				Options:  append([]string(nil), field.Options...),
				Value:    model.RawValue(field.Value),
			}
		}
		payload.FormData.Sections[i] = PayloadSection{
			ID:     section.ID,
			Name:   section.Name,
			Fields: fields,
		}
	}

	uploads := instance.uploads
	if len(uploads) == 0 {
		return payload, nil
	}
	out := make(map[string][]ImageUpload, len(uploads))
	for fieldID, batch := range uploads {
		out[fieldID] = append([]ImageUpload(nil), batch...)
	}
	return payload, out
}
