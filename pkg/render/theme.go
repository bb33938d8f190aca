package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is the resolved theming contract handed to renderers: partial
// template overrides merged over the engine fallbacks, design tokens with
// their CSS custom-property projection, and an asset URL resolver.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Partials map[string]string
	Tokens   map[string]string
	CSSVars  map[string]string
	AssetURL func(key string) string
}

// DefaultThemeFallbacks maps the partial slots the engine renders to the
// built-in templates shipped with the vanilla renderer.
func DefaultThemeFallbacks() map[string]string {
	return map[string]string{
		"form.layout":  "templates/form.html",
		"form.section": "templates/section.html",
		"field.text":   "templates/field_text.html",
		"field.number": "templates/field_number.html",
		"field.date":   "templates/field_date.html",
		"field.select": "templates/field_select.html",
		"field.image":  "templates/field_image.html",
	}
}

// ResolveTheme asks the selector for a theme selection and flattens it into a
// ThemeConfig. A nil selector yields a nil config, which renderers treat as
// unthemed output.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*ThemeConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return BuildThemeConfig(selection), nil
}

// BuildThemeConfig merges a go-theme selection over the engine fallbacks.
func BuildThemeConfig(selection *theme.Selection) *ThemeConfig {
	cfg := &ThemeConfig{
		Partials: DefaultThemeFallbacks(),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if selection == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	var variantCfg theme.Variant
	if manifest != nil {
		for key, value := range manifest.Templates {
			cfg.Partials[key] = value
		}
		for key, value := range manifest.Tokens {
			cfg.Tokens[key] = value
		}
		if v, ok := manifest.Variants[selection.Variant]; ok {
			variantCfg = v
			for key, value := range v.Templates {
				cfg.Partials[key] = value
			}
			for key, value := range v.Tokens {
				cfg.Tokens[key] = value
			}
		}
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	cfg.AssetURL = assetResolver(manifest, variantCfg)
	return cfg
}

// assetResolver prefers variant asset files over the base manifest's, joining
// each with the manifest asset prefix.
func assetResolver(manifest *theme.Manifest, variant theme.Variant) func(string) string {
	return func(key string) string {
		if manifest == nil {
			return ""
		}
		file, ok := variant.Assets.Files[key]
		if !ok {
			file, ok = manifest.Assets.Files[key]
		}
		if !ok {
			return ""
		}
		prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
		if prefix == "" {
			return file
		}
		return prefix + "/" + file
	}
}
