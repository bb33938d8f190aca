package model

import (
	"encoding/json"
	"fmt"
)

// FieldValue is the tagged union carried by form-instance fields. The concrete
// variant is discriminated by the owning field's type so validators and
// assemblers can switch exhaustively instead of coercing at runtime. On the
// wire every variant serialises as a plain string except ImageValue, which
// serialises as an ordered array of image references.
type FieldValue interface {
	// Kind reports the field type this variant belongs to.
	Kind() FieldType

	// IsEmpty is the single emptiness rule used for required-field checks:
	// an empty string or an empty reference sequence counts as missing.
	IsEmpty() bool

	fieldValue()
}

// TextValue carries the value of a text field.
type TextValue string

// NumberValue carries the value of a number field. Numbers travel as strings;
// the engine performs no numeric parsing.
type NumberValue string

// DateValue carries the value of a date field as an opaque date string.
type DateValue string

// SelectValue carries the chosen option of a select field.
type SelectValue string

// ImageValue carries the ordered references of an image field, one per
// uploaded image. References are opaque, session-scoped strings.
type ImageValue []string

func (TextValue) Kind() FieldType   { return FieldTypeText }
func (NumberValue) Kind() FieldType { return FieldTypeNumber }
func (DateValue) Kind() FieldType   { return FieldTypeDate }
func (SelectValue) Kind() FieldType { return FieldTypeSelect }
func (ImageValue) Kind() FieldType  { return FieldTypeImage }

func (v TextValue) IsEmpty() bool   { return v == "" }
func (v NumberValue) IsEmpty() bool { return v == "" }
func (v DateValue) IsEmpty() bool   { return v == "" }
func (v SelectValue) IsEmpty() bool { return v == "" }
func (v ImageValue) IsEmpty() bool  { return len(v) == 0 }

func (TextValue) fieldValue()   {}
func (NumberValue) fieldValue() {}
func (DateValue) fieldValue()   {}
func (SelectValue) fieldValue() {}
func (ImageValue) fieldValue()  {}

// ZeroValue returns the initial value for a freshly instantiated field: an
// empty reference sequence for image fields, an empty string otherwise.
func ZeroValue(t FieldType) FieldValue {
	switch t {
	case FieldTypeNumber:
		return NumberValue("")
	case FieldTypeDate:
		return DateValue("")
	case FieldTypeSelect:
		return SelectValue("")
	case FieldTypeImage:
		return ImageValue{}
	default:
		return TextValue("")
	}
}

// StringValue builds the string-shaped variant matching the field type.
// Image fields have no string variant; callers must use ImageValue directly.
func StringValue(t FieldType, raw string) (FieldValue, error) {
	switch t {
	case FieldTypeText:
		return TextValue(raw), nil
	case FieldTypeNumber:
		return NumberValue(raw), nil
	case FieldTypeDate:
		return DateValue(raw), nil
	case FieldTypeSelect:
		return SelectValue(raw), nil
	case FieldTypeImage:
		return nil, fmt.Errorf("model: image field value is a reference list, not %q", raw)
	default:
		return nil, fmt.Errorf("model: unknown field type %q", t)
	}
}

// ValueFromRaw rebuilds the variant for a field type from a decoded wire
// value (string or []string / []any). A nil raw value yields the zero value,
// matching the assembler's coalescing rule.
func ValueFromRaw(t FieldType, raw any) (FieldValue, error) {
	if raw == nil {
		return ZeroValue(t), nil
	}
	if t == FieldTypeImage {
		switch refs := raw.(type) {
		case []string:
			return ImageValue(append([]string(nil), refs...)), nil
		case []any:
			out := make([]string, 0, len(refs))
			for _, ref := range refs {
				s, ok := ref.(string)
				if !ok {
					return nil, fmt.Errorf("model: image reference must be a string, got %T", ref)
				}
				out = append(out, s)
			}
			return ImageValue(out), nil
		default:
			return nil, fmt.Errorf("model: image field value must be a string list, got %T", raw)
		}
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("model: %s field value must be a string, got %T", t, raw)
	}
	return StringValue(t, s)
}

// RawValue flattens the variant back into its wire shape. A nil value is
// coalesced to the empty string so downstream consumers never observe a
// missing value key.
func RawValue(v FieldValue) any {
	switch value := v.(type) {
	case nil:
		return ""
	case ImageValue:
		if value == nil {
			return []string{}
		}
		return []string(value)
	case TextValue:
		return string(value)
	case NumberValue:
		return string(value)
	case DateValue:
		return string(value)
	case SelectValue:
		return string(value)
	default:
		return ""
	}
}

// MarshalFieldValue serialises the variant into its JSON wire shape.
func MarshalFieldValue(v FieldValue) ([]byte, error) {
	return json.Marshal(RawValue(v))
}
