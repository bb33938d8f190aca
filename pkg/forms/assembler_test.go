package forms

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
)

func TestAssemble_ValueKeyAlwaysPresent(t *testing.T) {
	instance := Instantiate(productTemplate())
	if err := instance.SetStringValue("s1", "f1", "X200"); err != nil {
		t.Fatalf("set: %v", err)
	}

	payload, _ := Assemble(instance, Metadata{
		Name:            "Pompe X200",
		Type:            model.EntityTypeProduct,
		ConfigurationID: "t1",
	})

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Untouched fields still serialise their value key.
	if got := strings.Count(string(data), `"value"`); got != 3 {
		t.Fatalf("expected a value key per field, got %d in %s", got, data)
	}

	fields := payload.FormData.Sections[0].Fields
	if fields[0].Value != "X200" {
		t.Fatalf("filled value mismatch: %#v", fields[0].Value)
	}
	if fields[1].Value != "" {
		t.Fatalf("empty scalar must flatten to the empty string: %#v", fields[1].Value)
	}
	if diff := cmp.Diff([]string{}, payload.FormData.Sections[1].Fields[0].Value); diff != "" {
		t.Fatalf("empty image field must flatten to an empty list:\n%s", diff)
	}
}

func TestAssemble_MetadataPassthrough(t *testing.T) {
	payload, uploads := Assemble(Instantiate(productTemplate()), Metadata{
		Name:            "Pompe X200",
		Type:            model.EntityTypeProduct,
		ConfigurationID: "t1",
		Description:     "Pompe centrifuge",
	})
	if payload.Name != "Pompe X200" || payload.Type != model.EntityTypeProduct ||
		payload.ConfigurationID != "t1" || payload.Description != "Pompe centrifuge" {
		t.Fatalf("metadata not carried through: %+v", payload)
	}
	if uploads != nil {
		t.Fatalf("no batches attached, uploads must be nil")
	}
}

func TestAssemble_UploadsAreACopy(t *testing.T) {
	instance := Instantiate(productTemplate())
	if err := instance.SetImageBatch("s2", "f3", []ImageUpload{{Filename: "a.png", Content: []byte("a")}}, nil); err != nil {
		t.Fatalf("batch: %v", err)
	}

	_, uploads := Assemble(instance, Metadata{Name: "Pompe"})
	if len(uploads["f3"]) != 1 {
		t.Fatalf("uploads missing: %+v", uploads)
	}

	// Mutating the returned map must not reach back into the instance.
	delete(uploads, "f3")
	if got := instance.Uploads()["f3"]; len(got) != 1 {
		t.Fatalf("assemble leaked the live uploads map")
	}
}

func TestAssemble_UpdateLeavesTypeEmpty(t *testing.T) {
	payload, _ := Assemble(Instantiate(productTemplate()), Metadata{
		Name:            "Pompe X200",
		ConfigurationID: "t1",
	})
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"type":"PRODUCT"`) {
		t.Fatalf("update payloads must not carry a type: %s", data)
	}
}
