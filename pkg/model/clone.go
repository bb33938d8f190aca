package model

// CloneField returns a field copy sharing no mutable references with the
// original.
func CloneField(f Field) Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// CloneSection deep-copies a section and its fields.
func CloneSection(s Section) Section {
	out := s
	out.Fields = make([]Field, len(s.Fields))
	for i, field := range s.Fields {
		out.Fields[i] = CloneField(field)
	}
	return out
}

// CloneSections deep-copies a section sequence.
func CloneSections(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	out := make([]Section, len(sections))
	for i, section := range sections {
		out[i] = CloneSection(section)
	}
	return out
}

// CloneTemplate deep-copies a configuration template. Mutating the copy must
// never retroactively alter the original.
func CloneTemplate(t ConfigurationTemplate) ConfigurationTemplate {
	out := t
	out.Sections = CloneSections(t.Sections)
	return out
}

// CloneValue deep-copies a field value variant.
func CloneValue(v FieldValue) FieldValue {
	if refs, ok := v.(ImageValue); ok && refs != nil {
		return ImageValue(append([]string(nil), refs...))
	}
	return v
}
