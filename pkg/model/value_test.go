package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZeroValue_PerFieldType(t *testing.T) {
	cases := []struct {
		fieldType FieldType
		want      FieldValue
	}{
		{FieldTypeText, TextValue("")},
		{FieldTypeNumber, NumberValue("")},
		{FieldTypeDate, DateValue("")},
		{FieldTypeSelect, SelectValue("")},
		{FieldTypeImage, ImageValue{}},
	}
	for _, tc := range cases {
		got := ZeroValue(tc.fieldType)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s zero value mismatch (-want +got):\n%s", tc.fieldType, diff)
		}
		if !got.IsEmpty() {
			t.Fatalf("%s zero value must be empty", tc.fieldType)
		}
		if got.Kind() != tc.fieldType {
			t.Fatalf("%s zero value reports kind %s", tc.fieldType, got.Kind())
		}
	}
}

func TestIsEmpty_SingleRuleAcrossKinds(t *testing.T) {
	if TextValue(" ").IsEmpty() {
		t.Fatalf("whitespace text is a value, not empty")
	}
	if !(ImageValue{}).IsEmpty() {
		t.Fatalf("empty reference list counts as missing")
	}
	if (ImageValue{"upload://f1/0/a.png"}).IsEmpty() {
		t.Fatalf("one reference is enough to count as filled")
	}
	if NumberValue("0").IsEmpty() {
		t.Fatalf("zero is a value, not empty")
	}
}

func TestStringValue_RejectsImageFields(t *testing.T) {
	if _, err := StringValue(FieldTypeImage, "a.png"); err == nil {
		t.Fatalf("image fields have no string variant")
	}
	value, err := StringValue(FieldTypeSelect, "Inox")
	if err != nil {
		t.Fatalf("string value: %v", err)
	}
	if value != SelectValue("Inox") {
		t.Fatalf("unexpected variant: %#v", value)
	}
}

func TestValueFromRaw_WireShapes(t *testing.T) {
	value, err := ValueFromRaw(FieldTypeImage, []any{"a", "b"})
	if err != nil {
		t.Fatalf("image from []any: %v", err)
	}
	if diff := cmp.Diff(ImageValue{"a", "b"}, value); diff != "" {
		t.Fatalf("image value mismatch (-want +got):\n%s", diff)
	}

	if _, err := ValueFromRaw(FieldTypeImage, "a"); err == nil {
		t.Fatalf("a bare string is not a reference list")
	}
	if _, err := ValueFromRaw(FieldTypeText, 42); err == nil {
		t.Fatalf("text fields only accept strings")
	}

	value, err = ValueFromRaw(FieldTypeDate, nil)
	if err != nil {
		t.Fatalf("nil raw: %v", err)
	}
	if value != DateValue("") {
		t.Fatalf("nil must coalesce to the zero value, got %#v", value)
	}
}

func TestRawValue_CoalescesNil(t *testing.T) {
	if got := RawValue(nil); got != "" {
		t.Fatalf("nil value must flatten to empty string, got %#v", got)
	}
	if diff := cmp.Diff([]string{}, RawValue(ImageValue(nil))); diff != "" {
		t.Fatalf("nil image value must flatten to empty list:\n%s", diff)
	}
	if got := RawValue(NumberValue("129.99")); got != "129.99" {
		t.Fatalf("number value mismatch: %#v", got)
	}
}

func TestRecomputeCounts(t *testing.T) {
	tpl := ConfigurationTemplate{
		Sections: []Section{
			{ID: "s1", Fields: []Field{{ID: "f1"}, {ID: "f2"}}},
			{ID: "s2"},
			{ID: "s3", Fields: []Field{{ID: "f3"}}},
		},
		SectionCount:    99,
		TotalFieldCount: 99,
	}
	tpl.RecomputeCounts()
	if tpl.SectionCount != 3 || tpl.TotalFieldCount != 3 {
		t.Fatalf("counts mismatch: %d sections, %d fields", tpl.SectionCount, tpl.TotalFieldCount)
	}
}

func TestCloneTemplate_DeepCopies(t *testing.T) {
	source := ConfigurationTemplate{
		ID: "t1",
		Sections: []Section{
			{ID: "s1", Name: "Infos", Fields: []Field{
				{ID: "f1", Name: "Matériau", Type: FieldTypeSelect, Options: []string{"Inox"}},
			}},
		},
	}

	clone := CloneTemplate(source)
	clone.Sections[0].Name = "Changed"
	clone.Sections[0].Fields[0].Options[0] = "Acier"

	if source.Sections[0].Name != "Infos" {
		t.Fatalf("clone shares section storage with source")
	}
	if source.Sections[0].Fields[0].Options[0] != "Inox" {
		t.Fatalf("clone shares option storage with source")
	}
}

func TestCloneValue_IsolatesImageReferences(t *testing.T) {
	original := ImageValue{"a", "b"}
	clone := CloneValue(original).(ImageValue)
	clone[0] = "mutated"
	if original[0] != "a" {
		t.Fatalf("cloned image value shares storage")
	}
}

func TestSummary_Projection(t *testing.T) {
	tpl := ConfigurationTemplate{
		ID:                "t1",
		ConfigurationName: "conf",
		DisplayName:       "Ma conf",
		EntityType:        EntityTypeProduct,
		Active:            true,
		DefaultConfig:     true,
		SectionCount:      2,
		TotalFieldCount:   5,
		UsageCount:        3,
	}
	got := tpl.Summary()
	want := TemplateSummary{
		ID:                "t1",
		ConfigurationName: "conf",
		DisplayName:       "Ma conf",
		EntityType:        EntityTypeProduct,
		Active:            true,
		DefaultConfig:     true,
		SectionCount:      2,
		TotalFieldCount:   5,
		UsageCount:        3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
