// Package config loads engine configuration from the environment, with an
// optional .env file for development setups.
package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the environment-driven engine settings. Flags may override
// individual fields after loading.
type Config struct {
	// CoreThemeDirs are the directories scanned for core theme sources.
	CoreThemeDirs []string `env:"QUILL_CORE_THEME_DIRS" envSeparator:":"`

	// UserThemeDirs are the directories scanned for user theme sources.
	UserThemeDirs []string `env:"QUILL_USER_THEME_DIRS" envSeparator:":"`

	// SettingsPath is the settings file location. Empty selects the
	// default under the user config directory.
	SettingsPath string `env:"QUILL_SETTINGS_PATH"`

	// SettingsBackend selects the settings store: "yaml" or "sqlite".
	SettingsBackend string `env:"QUILL_SETTINGS_BACKEND" envDefault:"yaml"`

	// LogLevel is the minimum log level (debug, info, warn, error, fatal).
	LogLevel string `env:"QUILL_LOG_LEVEL" envDefault:"info"`

	// LogFile redirects log output to a file when set.
	LogFile string `env:"QUILL_LOG_FILE"`
}

// Load reads a .env file when present, then parses the environment.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = defaultSettingsPath(cfg.SettingsBackend)
	}
	if len(cfg.UserThemeDirs) == 0 {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.UserThemeDirs = []string{filepath.Join(dir, "quill", "themes")}
		}
	}
	return cfg, nil
}

func defaultSettingsPath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "settings.yaml"
	if backend == "sqlite" {
		name = "settings.db"
	}
	return filepath.Join(dir, "quill", name)
}
