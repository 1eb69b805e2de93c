package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/alfred-sf/assets"
	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/pkg/filesystem"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// FileLoader loads YAML configuration from ~/.alfred-sf/config.yaml
// (overridable via ALFRED_SF_CONFIG). A missing file yields the embedded
// defaults; nothing is ever written back, since loads happen on every keystroke.
type FileLoader struct {
	overridePath string
	getenv       func(string) string
}

// NewFileLoader builds a new loader. An empty path defers to the environment.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, getenv: os.Getenv}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig()
		}
		return domain.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path is the file Load reads.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if l.getenv != nil {
		if custom := l.getenv(domain.EnvConfigPath); custom != "" {
			return filesystem.ExpandHome(custom)
		}
	}
	return filepath.Join(filesystem.UserHomeDir(), ".alfred-sf", "config.yaml")
}

// DefaultConfig returns the embedded configuration.
func DefaultConfig() (domain.Config, error) {
	cfg, err := Parse(assets.DefaultConfigYAML)
	if err != nil {
		return domain.Config{}, fmt.Errorf("embedded config: %w", err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	cfg = hydrateDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
