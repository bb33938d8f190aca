package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form instance.
type RenderOptions struct {
	// Method overrides the HTTP method of the rendered form element.
	// Renderers are responsible for translating unsupported verbs (PUT/DELETE)
	// into browser-friendly POST submissions plus a hidden _method input.
	Method string

	// Action is the submission URL of the rendered form element.
	Action string

	// EntityName pre-populates the asset name control.
	EntityName string

	// Errors surfaces validation feedback keyed by "<Section> > <Field>"
	// paths, plus the empty key for the entity-name rule. Renderers map these
	// into inline chrome next to the offending control.
	Errors map[string][]string

	// Theme carries resolved theme configuration. Nil means unthemed output.
	Theme *ThemeConfig
}
