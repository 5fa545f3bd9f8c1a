// Package config provides yaml configuration for the application and
// its managed games.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"omm/internal/linker"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds global application settings
type Config struct {
	LinkMethod    linker.Method `yaml:"-"`
	LinkMethodStr string        `yaml:"link_method"`
	DownloadsDir  string        `yaml:"downloads_dir"`
	Keybindings   string        `yaml:"keybindings"`
	DefaultGame   string        `yaml:"default_game"`
}

// DefaultConfigDir returns the XDG config directory for the app.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "omm")
}

// DefaultDataDir returns the XDG data directory for the app.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "omm")
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		LinkMethod:   linker.Symlink,
		DownloadsDir: filepath.Join(xdg.UserDirs.Download),
		Keybindings:  "vim",
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LinkMethodStr != "" {
		cfg.LinkMethod = linker.ParseMethod(cfg.LinkMethodStr)
	}

	return cfg, nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	c.LinkMethodStr = c.LinkMethod.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
