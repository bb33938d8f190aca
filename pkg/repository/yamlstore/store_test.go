package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/repository"
)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func tickingClock() func() time.Time {
	t := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(),
		WithIDGenerator(sequentialIDs("id")),
		WithClock(tickingClock()),
	)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return store
}

func templateFixture(name string, entityType model.EntityType) model.ConfigurationTemplate {
	return model.ConfigurationTemplate{
		ConfigurationName: name,
		EntityType:        entityType,
		Active:            true,
		Sections: []model.Section{
			{ID: "s1", Name: "Informations", Order: 1, Fields: []model.Field{
				{ID: "f1", Name: "Modèle", Type: model.FieldTypeText, Required: true},
				{ID: "f2", Name: "Matériau", Type: model.FieldTypeSelect, Options: []string{"Inox", "Acier"}},
			}},
		},
	}
}

func TestOpen_RequiresDirectory(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected an error for a blank directory")
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	created, err := store.CreateTemplate(ctx, templateFixture("conf", model.EntityTypeProduct))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.DefaultConfig {
		t.Fatalf("first template of an entity type must be the default")
	}

	loaded, err := store.GetTemplate(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(created, loaded); diff != "" {
		t.Fatalf("document did not survive the round trip (-created +loaded):\n%s", diff)
	}
}

func TestCreate_OneFilePerTemplate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := Open(dir, WithIDGenerator(sequentialIDs("id")), WithClock(tickingClock()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := store.CreateTemplate(ctx, templateFixture("conf-a", model.EntityTypeProduct)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.CreateTemplate(ctx, templateFixture("conf-b", model.EntityTypeSupplier)); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected one document per template, got %d entries", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "id-1.yaml")); err != nil {
		t.Fatalf("document missing: %v", err)
	}
}

func TestList_OrderedByCreationTime(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	for _, name := range []string{"conf-a", "conf-b", "conf-c"} {
		if _, err := store.CreateTemplate(ctx, templateFixture(name, model.EntityTypeProduct)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	summaries, err := store.ListTemplates(ctx, model.EntityTypeProduct)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := make([]string, len(summaries))
	for i, summary := range summaries {
		names[i] = summary.ConfigurationName
	}
	if diff := cmp.Diff([]string{"conf-a", "conf-b", "conf-c"}, names); diff != "" {
		t.Fatalf("ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestLifecycleRulesApplyToDocuments(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	def, err := store.CreateTemplate(ctx, templateFixture("conf", model.EntityTypeProduct))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := store.CreateTemplate(ctx, templateFixture("conf-2", model.EntityTypeProduct))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.ToggleTemplate(ctx, def.ID, false); !errors.Is(err, repository.ErrDefaultTemplate) {
		t.Fatalf("expected ErrDefaultTemplate, got %v", err)
	}
	if err := store.RecordTemplateUse(ctx, other.ID); err != nil {
		t.Fatalf("record use: %v", err)
	}
	if err := store.DeleteTemplate(ctx, other.ID); !errors.Is(err, repository.ErrTemplateInUse) {
		t.Fatalf("expected ErrTemplateInUse, got %v", err)
	}

	loaded, err := store.GetTemplate(ctx, other.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.UsageCount != 1 {
		t.Fatalf("usage count not persisted, got %d", loaded.UsageCount)
	}
}

func TestUpdate_RewritesDocument(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	created, err := store.CreateTemplate(ctx, templateFixture("conf", model.EntityTypeProduct))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	incoming := created
	incoming.ConfigurationName = "conf-v2"
	incoming.Sections = append(incoming.Sections, model.Section{ID: "s2", Name: "Médias", Order: 2})

	updated, err := store.UpdateTemplate(ctx, incoming)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SectionCount != 2 {
		t.Fatalf("counts not recomputed, got %d", updated.SectionCount)
	}

	loaded, err := store.GetTemplate(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ConfigurationName != "conf-v2" || len(loaded.Sections) != 2 {
		t.Fatalf("document not rewritten: %+v", loaded)
	}
}

func TestGet_UnknownID(t *testing.T) {
	store := testStore(t)
	if _, err := store.GetTemplate(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadTemplateFile_RecomputesMissingCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	doc := `id: t1
configurationName: conf
entityType: PRODUCT
active: true
sections:
  - id: s1
    name: Informations
    order: 1
    fields:
      - id: f1
        name: Modèle
        type: text
        required: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tpl, err := LoadTemplateFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tpl.SectionCount != 1 || tpl.TotalFieldCount != 1 {
		t.Fatalf("counts not derived: %+v", tpl)
	}
	if tpl.Sections[0].Fields[0].Type != model.FieldTypeText {
		t.Fatalf("field type mismatch: %+v", tpl.Sections[0].Fields[0])
	}
}

func TestIDsNeverLeaveTheStoreDirectory(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	dir := filepath.Join(parent, "templates")
	store, err := Open(dir, WithIDGenerator(sequentialIDs("id")), WithClock(tickingClock()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// A decodable document one level above the store directory.
	victim := filepath.Join(parent, "victim.yaml")
	doc := `id: victim
configurationName: conf
entityType: PRODUCT
active: true
`
	if err := os.WriteFile(victim, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	for _, id := range []string{"../victim", "..", "a/b", "a\\b", "victim.yaml", ""} {
		if _, err := store.GetTemplate(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("get %q: expected ErrNotFound, got %v", id, err)
		}
		if err := store.DeleteTemplate(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("delete %q: expected ErrNotFound, got %v", id, err)
		}
	}
	if _, err := os.Stat(victim); err != nil {
		t.Fatalf("file outside the store directory was touched: %v", err)
	}
}
