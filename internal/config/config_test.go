package config

import (
	"os"
	"path/filepath"
	"testing"

	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"log_level": "debug",
		"algorithm": "fast",
		"workers": 4,
		"database": {"path": "/var/lib/dirdiff"},
		"cache": {"enabled": true},
		"ignore": [".git", "*.tmp"]
	}`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, fingerprint.Fast, cfg.Algorithm)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/var/lib/dirdiff", cfg.Database.Path)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 4096, cfg.Cache.Size, "unset keys keep their default")
	assert.Equal(t, []string{".git", "*.tmp"}, cfg.Ignore)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"malformed":         `{"workers": `,
		"unknown algorithm": `{"algorithm": "md5"}`,
		"negative workers":  `{"workers": -1}`,
		"negative cache":    `{"cache": {"size": -5}}`,
		"cache without db":  `{"cache": {"enabled": true}, "database": {"path": ""}}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), true)
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/dirdiff.json")
	assert.Equal(t, "/custom.json", Path("/custom.json"))
	assert.Equal(t, "/etc/dirdiff.json", Path(""))

	t.Setenv(EnvConfig, "")
	assert.Equal(t, "config.json", filepath.Base(Path("")))
}
