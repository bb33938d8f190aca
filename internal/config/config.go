// Package config provides configuration management for the form-engine
// service.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like SERVER_PORT, LOG_LEVEL)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects and configures the template/asset store backend.
type StoreConfig struct {
	// Kind is "memory", "yaml", or "http".
	Kind string `mapstructure:"kind"`

	// Dir is the template directory for the yaml store.
	Dir string `mapstructure:"dir"`

	// BaseURL and Token configure the http store.
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// RenderConfig drives the preview surface: which registered renderer serves
// previews by default, and which theme manifest (if any) styles them.
type RenderConfig struct {
	DefaultRenderer string `mapstructure:"default_renderer"`

	// ThemesDir is the directory of theme manifest documents; Theme and
	// ThemeVariant select one of them.
	ThemesDir    string `mapstructure:"themes_dir"`
	Theme        string `mapstructure:"theme"`
	ThemeVariant string `mapstructure:"theme_variant"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from file and environment variables. Environment
// variables use standard names without prefix: store.base_url becomes
// STORE_BASE_URL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/formengine")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "memory":
	case "yaml":
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the yaml store")
		}
	case "http":
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.base_url is required for the http store")
		}
	default:
		return fmt.Errorf("store.kind must be memory, yaml, or http; got %q", c.Store.Kind)
	}
	if c.Render.Theme != "" && c.Render.ThemesDir == "" {
		return fmt.Errorf("render.themes_dir is required when render.theme is set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Store
	v.SetDefault("store.kind", "memory")
	v.SetDefault("store.dir", "")
	v.SetDefault("store.base_url", "")
	v.SetDefault("store.token", "")

	// Render. Every key needs a default so AutomaticEnv can bind it.
	v.SetDefault("render.default_renderer", "vanilla")
	v.SetDefault("render.themes_dir", "")
	v.SetDefault("render.theme", "")
	v.SetDefault("render.theme_variant", "")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
