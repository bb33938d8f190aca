package editor

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Validation rule identifiers reported by Submit.
const (
	RuleConfigurationName = "configurationName"
	RuleSections          = "sections"
)

// ValidationError collects the draft-level rules that failed. It is surfaced
// as an error value, never a panic, and blocks the store call entirely.
type ValidationError struct {
	// Missing lists the failed rule identifiers in evaluation order.
	Missing []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "editor: validation failed: " + strings.Join(e.Missing, ", ")
}

// AsValidationError unwraps a ValidationError when present.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Validate checks the submit preconditions without touching the store:
// the configuration name must be non-empty and a new template needs at least
// one section. The zero-section rule applies at creation only; editing an
// existing template tolerates an emptied section list.
func (e *Editor) Validate() error {
	var missing []string
	if strings.TrimSpace(e.draft.ConfigurationName) == "" {
		missing = append(missing, RuleConfigurationName)
	}
	if !e.existing && len(e.draft.Sections) == 0 {
		missing = append(missing, RuleSections)
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Submit validates the draft, recomputes the derived counts, and forwards the
// assembled template to the configured saver. On success the editor resets to
// a blank draft for the same entity type; on any failure (validation or
// store) the draft is preserved so the caller can resubmit in place.
func (e *Editor) Submit(ctx context.Context) (model.ConfigurationTemplate, error) {
	if err := e.Validate(); err != nil {
		return model.ConfigurationTemplate{}, err
	}
	if e.saver == nil {
		return model.ConfigurationTemplate{}, errors.New("editor: no saver configured")
	}

	tpl := model.CloneTemplate(e.draft)
	tpl.RecomputeCounts()

	var (
		saved model.ConfigurationTemplate
		err   error
	)
	if e.existing {
		saved, err = e.saver.UpdateTemplate(ctx, tpl)
	} else {
		saved, err = e.saver.CreateTemplate(ctx, tpl)
	}
	if err != nil {
		return model.ConfigurationTemplate{}, err
	}

	e.reset()
	return saved, nil
}

func (e *Editor) reset() {
	entityType := e.draft.EntityType
	e.draft = model.ConfigurationTemplate{
		EntityType: entityType,
		Active:     true,
	}
	e.existing = false
	e.displayLinked = true
}
