package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// FileSelector resolves theme selections from manifest documents stored as
// <dir>/<name>.yaml. It is the single-node counterpart of a provider
// registry: the CLI and server point it at a directory of hand-written
// manifests.
type FileSelector struct {
	dir string
}

var _ theme.ThemeSelector = (*FileSelector)(nil)

// NewFileSelector creates a selector rooted at dir.
func NewFileSelector(dir string) (*FileSelector, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("render: theme directory is required")
	}
	return &FileSelector{dir: dir}, nil
}

// manifestDoc is the YAML shape of one theme manifest file. Decoding goes
// through this local struct so the on-disk format stays pinned regardless of
// go-theme's own struct tags.
type manifestDoc struct {
	Name      string                `yaml:"name"`
	Tokens    map[string]string     `yaml:"tokens"`
	Templates map[string]string     `yaml:"templates"`
	Assets    assetsDoc             `yaml:"assets"`
	Variants  map[string]variantDoc `yaml:"variants"`
}

type assetsDoc struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantDoc struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsDoc         `yaml:"assets"`
}

// Select loads the named manifest and pins the requested variant. A variant
// name not declared by the manifest is an error rather than a silent
// fallback to the base theme.
func (s *FileSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("render: theme name is required")
	}
	if !validManifestName(name) {
		return nil, fmt.Errorf("render: invalid theme name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("render: load theme %q: %w", name, err)
	}
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("render: decode theme %q: %w", name, err)
	}
	manifest := doc.manifest()
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

func (d manifestDoc) manifest() *theme.Manifest {
	out := &theme.Manifest{
		Name:      d.Name,
		Tokens:    d.Tokens,
		Templates: d.Templates,
		Assets: theme.Assets{
			Prefix: d.Assets.Prefix,
			Files:  d.Assets.Files,
		},
	}
	if len(d.Variants) > 0 {
		out.Variants = make(map[string]theme.Variant, len(d.Variants))
		for key, v := range d.Variants {
			out.Variants[key] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets: theme.Assets{
					Prefix: v.Assets.Prefix,
					Files:  v.Assets.Files,
				},
			}
		}
	}
	return out
}

// validManifestName keeps theme names inside the manifest directory.
func validManifestName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
