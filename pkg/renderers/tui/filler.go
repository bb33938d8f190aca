// Package tui walks a form instance as an interactive terminal session:
// one prompt per field, driven by survey behind a swappable PromptDriver.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/model"
)

const skipOption = "(laisser vide)"

// Option configures a Filler.
type Option func(*Filler)

// WithDriver swaps the prompt driver, mostly for tests.
func WithDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// Filler runs the interactive fill flow over a form instance.
type Filler struct {
	driver PromptDriver
}

// New constructs a Filler backed by the survey driver unless overridden.
func New(options ...Option) *Filler {
	f := &Filler{driver: newSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Fill prompts for the entity name and then for every field, section by
// section. Answers are bound onto the instance as they arrive; required
// fields re-prompt until non-empty.
func (f *Filler) Fill(ctx context.Context, instance *forms.FormInstance) (string, error) {
	if instance == nil {
		return "", fmt.Errorf("tui: form instance is nil")
	}

	name, err := f.driver.Input(ctx, InputConfig{
		Message:   "Nom",
		Validator: requireText,
	})
	if err != nil {
		return "", err
	}

	for _, section := range instance.Sections {
		if err := f.driver.Info(ctx, "── "+section.Name); err != nil {
			return "", err
		}
		for _, field := range section.Fields {
			if err := f.fillField(ctx, instance, section.ID, field); err != nil {
				return "", err
			}
		}
	}
	return strings.TrimSpace(name), nil
}

func (f *Filler) fillField(ctx context.Context, instance *forms.FormInstance, sectionID string, field forms.InstanceField) error {
	label := field.Name
	if field.Required {
		label += " *"
	}

	switch field.Type {
	case model.FieldTypeSelect:
		return f.fillSelect(ctx, instance, sectionID, field, label)
	case model.FieldTypeImage:
		return f.fillImages(ctx, instance, sectionID, field, label)
	default:
		return f.fillScalar(ctx, instance, sectionID, field, label)
	}
}

func (f *Filler) fillScalar(ctx context.Context, instance *forms.FormInstance, sectionID string, field forms.InstanceField, label string) error {
	validator := validatorFor(field)
	answer, err := f.driver.Input(ctx, InputConfig{
		Message:   label,
		Default:   currentText(field),
		Validator: validator,
	})
	if err != nil {
		return err
	}
	return instance.SetStringValue(sectionID, field.ID, strings.TrimSpace(answer))
}

func (f *Filler) fillSelect(ctx context.Context, instance *forms.FormInstance, sectionID string, field forms.InstanceField, label string) error {
	options := append([]string(nil), field.Options...)
	if !field.Required {
		options = append(options, skipOption)
	}
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: indexOf(options, currentText(field)),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return instance.SetStringValue(sectionID, field.ID, "")
	}
	return instance.SetStringValue(sectionID, field.ID, field.Options[idx])
}

// fillImages asks for local file paths, reads each file, and binds the whole
// batch at once. The batch replaces any previous one.
func (f *Filler) fillImages(ctx context.Context, instance *forms.FormInstance, sectionID string, field forms.InstanceField, label string) error {
	validator := func(raw string) error {
		if field.Required && strings.TrimSpace(raw) == "" {
			return fmt.Errorf("au moins un fichier est requis")
		}
		for _, path := range splitPaths(raw) {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("fichier introuvable: %s", path)
			}
		}
		return nil
	}
	answer, err := f.driver.Input(ctx, InputConfig{
		Message:   label,
		Help:      "Chemins de fichiers séparés par des virgules",
		Validator: validator,
	})
	if err != nil {
		return err
	}

	paths := splitPaths(answer)
	uploads := make([]forms.ImageUpload, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("tui: read image %q: %w", path, err)
		}
		uploads = append(uploads, forms.ImageUpload{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}
	return instance.SetImageBatch(sectionID, field.ID, uploads, nil)
}

func validatorFor(field forms.InstanceField) func(string) error {
	return func(raw string) error {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			if field.Required {
				return fmt.Errorf("ce champ est requis")
			}
			return nil
		}
		switch field.Type {
		case model.FieldTypeNumber:
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				return fmt.Errorf("nombre invalide: %s", trimmed)
			}
		case model.FieldTypeDate:
			if _, err := time.Parse("2006-01-02", trimmed); err != nil {
				return fmt.Errorf("date invalide (AAAA-MM-JJ): %s", trimmed)
			}
		}
		return nil
	}
}

func requireText(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("ce champ est requis")
	}
	return nil
}

func currentText(field forms.InstanceField) string {
	raw := model.RawValue(field.Value)
	if s, ok := raw.(string); ok {
		return s
	}
	return ""
}

func splitPaths(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
