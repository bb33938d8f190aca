package forms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
)

func TestSetFieldValue_ReplacesExactlyOneField(t *testing.T) {
	instance := Instantiate(productTemplate())

	if err := instance.SetFieldValue("s1", "f1", model.TextValue("X200")); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if got := instance.Field("s1", "f1").Value; got != model.TextValue("X200") {
		t.Fatalf("value not applied: %#v", got)
	}
	if got := instance.Field("s1", "f2").Value; got != model.SelectValue("") {
		t.Fatalf("sibling field was touched: %#v", got)
	}

	// Applying the same edit twice is a pure replace.
	if err := instance.SetFieldValue("s1", "f1", model.TextValue("X200")); err != nil {
		t.Fatalf("second set: %v", err)
	}
	if got := instance.Field("s1", "f1").Value; got != model.TextValue("X200") {
		t.Fatalf("replace is not idempotent: %#v", got)
	}
}

func TestSetFieldValue_RejectsKindMismatch(t *testing.T) {
	instance := Instantiate(productTemplate())

	if err := instance.SetFieldValue("s1", "f1", model.NumberValue("42")); err == nil {
		t.Fatalf("a number variant must not land in a text field")
	}
	if got := instance.Field("s1", "f1").Value; got != model.TextValue("") {
		t.Fatalf("field changed despite rejection: %#v", got)
	}

	err := instance.SetFieldValue("s1", "missing", model.TextValue("x"))
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestSetFieldValue_NilResetsToZero(t *testing.T) {
	instance := Instantiate(productTemplate())
	if err := instance.SetStringValue("s1", "f1", "X200"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := instance.SetFieldValue("s1", "f1", nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := instance.Field("s1", "f1").Value; got != model.TextValue("") {
		t.Fatalf("nil must reset to the zero value, got %#v", got)
	}
}

func TestSetImageBatch_ReplacesPreviousBatch(t *testing.T) {
	instance := Instantiate(productTemplate())

	first := []ImageUpload{
		{Filename: "avant.png", Content: []byte("a")},
		{Filename: "arriere.png", Content: []byte("b")},
	}
	if err := instance.SetImageBatch("s2", "f3", first, nil); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	want := model.ImageValue{
		"upload://f3/0/avant.png",
		"upload://f3/1/arriere.png",
	}
	if diff := cmp.Diff(want, instance.Field("s2", "f3").Value); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}

	// A new selection fully discards the previous batch, never appends.
	second := []ImageUpload{{Filename: "detail.png", Content: []byte("c")}}
	if err := instance.SetImageBatch("s2", "f3", second, nil); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	want = model.ImageValue{"upload://f3/0/detail.png"}
	if diff := cmp.Diff(want, instance.Field("s2", "f3").Value); diff != "" {
		t.Fatalf("batch was appended instead of replaced (-want +got):\n%s", diff)
	}
	if got := instance.Uploads()["f3"]; len(got) != 1 || got[0].Filename != "detail.png" {
		t.Fatalf("uploads side channel not replaced: %+v", got)
	}
}

func TestSetImageBatch_EmptyBatchClearsField(t *testing.T) {
	instance := Instantiate(productTemplate())
	if err := instance.SetImageBatch("s2", "f3", []ImageUpload{{Filename: "a.png"}}, nil); err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	if err := instance.SetImageBatch("s2", "f3", nil, nil); err != nil {
		t.Fatalf("clear batch: %v", err)
	}
	if got := instance.Field("s2", "f3").Value; !got.IsEmpty() {
		t.Fatalf("field must be empty after clearing, got %#v", got)
	}
	if _, ok := instance.Uploads()["f3"]; ok {
		t.Fatalf("cleared field must not linger in the uploads map")
	}
}

func TestSetImageBatch_RejectsNonImageFields(t *testing.T) {
	instance := Instantiate(productTemplate())
	err := instance.SetImageBatch("s1", "f1", []ImageUpload{{Filename: "a.png"}}, nil)
	if err == nil {
		t.Fatalf("image batches only apply to image fields")
	}
}

func TestSetImageBatch_CustomRefFunc(t *testing.T) {
	instance := Instantiate(productTemplate())
	ref := func(fieldID string, index int, upload ImageUpload) string {
		return "s3://bucket/" + fieldID + "/" + upload.Filename
	}
	if err := instance.SetImageBatch("s2", "f3", []ImageUpload{{Filename: "a.png"}}, ref); err != nil {
		t.Fatalf("batch: %v", err)
	}
	want := model.ImageValue{"s3://bucket/f3/a.png"}
	if diff := cmp.Diff(want, instance.Field("s2", "f3").Value); diff != "" {
		t.Fatalf("custom references mismatch (-want +got):\n%s", diff)
	}
}
