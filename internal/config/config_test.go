package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no config.yaml is picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(previous)
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, "vanilla", cfg.Render.DefaultRenderer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_KIND", "yaml")
	t.Setenv("STORE_DIR", "/var/lib/formengine/templates")
	t.Setenv("RENDER_THEMES_DIR", "/etc/formengine/themes")
	t.Setenv("RENDER_THEME", "acme")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "yaml", cfg.Store.Kind)
	assert.Equal(t, "/var/lib/formengine/templates", cfg.Store.Dir)
	assert.Equal(t, "/etc/formengine/themes", cfg.Render.ThemesDir)
	assert.Equal(t, "acme", cfg.Render.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate_ThemeNeedsThemesDir(t *testing.T) {
	cfg := Config{
		Store:  StoreConfig{Kind: "memory"},
		Render: RenderConfig{Theme: "acme"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Render.ThemesDir = "/etc/formengine/themes"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_StoreKinds(t *testing.T) {
	cases := []struct {
		name    string
		store   StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Kind: "memory"}, false},
		{"yaml with dir", StoreConfig{Kind: "yaml", Dir: "/tmp/templates"}, false},
		{"yaml without dir", StoreConfig{Kind: "yaml"}, true},
		{"http with base url", StoreConfig{Kind: "http", BaseURL: "https://plm.internal/api/v1"}, false},
		{"http without base url", StoreConfig{Kind: "http"}, true},
		{"unknown kind", StoreConfig{Kind: "postgres"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Store: tc.store}
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
