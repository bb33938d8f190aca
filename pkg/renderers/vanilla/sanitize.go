package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeLabel strips any markup from user-authored template text (section
// names, field names, descriptions) before it reaches a template context.
// Template editors are trusted users, but their text travels to every viewer
// of the rendered form.
func sanitizeLabel(raw string) string {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(labelPolicy.Sanitize(raw))
}
