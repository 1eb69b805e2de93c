package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/alfred-sf/internal/domain"
)

func TestLoadMissingFileUsesEmbeddedDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	profile, err := cfg.Profile("brave")
	require.NoError(t, err)
	assert.Equal(t, "BRAVE", profile.EnvPrefix)
	assert.Equal(t, domain.StateBackendFile, profile.StateBackend)

	_, err = os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(err), "loading must not create files")
}

func TestLoadFromEnvironmentPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflows:
  - key: kagi
    env_prefix: KAGI
    state_backend: sqlite
    backend:
      command: kagi
      timeout: 3s
`), 0o644))
	t.Setenv(domain.EnvConfigPath, path)

	loader := NewFileLoader("")
	assert.Equal(t, path, loader.Path())

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", cfg.ConfigFormatVersion)
	profile, err := cfg.Profile("kagi")
	require.NoError(t, err)
	assert.Equal(t, domain.StateBackendSQLite, profile.StateBackend)
	assert.Equal(t, "alfred-sf-kagi", profile.CacheFallbackLabel)
}

func TestValidateRejectsBadProfiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing key", "workflows:\n  - env_prefix: X\n"},
		{"lowercase prefix", "workflows:\n  - key: a\n    env_prefix: brave\n"},
		{"unknown backend", "workflows:\n  - key: a\n    state_backend: redis\n"},
		{"negative min chars", "workflows:\n  - key: a\n    min_query_chars: -1\n"},
		{"duplicate key", "workflows:\n  - key: a\n  - key: a\n"},
		{"bad timeout", "workflows:\n  - key: a\n    backend:\n      timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, domain.ErrInvalidProfile)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workflows: [\n"), 0o644))

	_, err := NewFileLoader(path).Load(context.Background())
	assert.Error(t, err)
}
