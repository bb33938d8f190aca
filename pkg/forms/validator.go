package forms

import "strings"

// Result reports submit-readiness of a form instance. Both error classes
// block submission; neither mutates the instance.
type Result struct {
	// NameMissing is set when the asset's own name is empty after trimming.
	// The name rule is evaluated independently of field contents.
	NameMissing bool

	// MissingFields lists every required field whose value is empty, as
	// human-readable "<Section> > <Field>" strings in document order. All
	// violations are collected; the check does not short-circuit.
	MissingFields []string
}

// Valid reports whether the instance may be submitted.
func (r Result) Valid() bool {
	return !r.NameMissing && len(r.MissingFields) == 0
}

// Validate decides submit-readiness for the instance bound to the asset named
// entityName. Required enforcement uses the single emptiness rule shared by
// all value kinds: an empty string or an empty image-reference list counts as
// missing.
func Validate(instance *FormInstance, entityName string) Result {
	result := Result{
		NameMissing: strings.TrimSpace(entityName) == "",
	}
	if instance == nil {
		return result
	}
	for _, section := range instance.Sections {
		for _, field := range section.Fields {
			if !field.Required {
				continue
			}
			if field.Value == nil || field.Value.IsEmpty() {
				result.MissingFields = append(result.MissingFields, section.Name+" > "+field.Name)
			}
		}
	}
	return result
}
