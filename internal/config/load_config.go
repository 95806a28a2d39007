package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// AppDirName is the directory under the user config root holding config.yaml
// and state.json.
const AppDirName = "ai-setup"

// DefaultDir returns $XDG_CONFIG_HOME/ai-setup, or ~/.config/ai-setup when
// XDG_CONFIG_HOME is unset.
func DefaultDir(home string, getenv func(string) string) string {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}

// LoadConfig reads the YAML config file at path.
// A missing file is not an error and yields an empty Config; read and parse
// failures are returned together with an empty Config so callers can warn
// and continue on defaults.
func LoadConfig(fsys afero.Fs, path string) (Config, error) {
	raw, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
