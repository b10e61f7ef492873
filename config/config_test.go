package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data/lake", cfg.DataLake.Path)
	assert.Equal(t, 16, cfg.DataLake.CacheSize)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, 0.5, cfg.Palette.PrimaryWeight)
	assert.Equal(t, 0.5, cfg.Palette.SecondaryWeight)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"server": {"addr": ":9000", "read_timeout": "20s"},
		"data_lake": {"path": "/var/lib/conceptmri"},
		"palette": {"primary_weight": 0.6, "secondary_weight": 0.4},
		"nats": {"enabled": true, "url": "nats://nats:4222", "reconnect_wait": "5s"}
	}`)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	// untouched fields keep defaults
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "/var/lib/conceptmri", cfg.DataLake.Path)
	assert.Equal(t, 0.6, cfg.Palette.PrimaryWeight)
	assert.True(t, cfg.NATS.Enabled)
	assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
}

func TestLayerPrecedence(t *testing.T) {
	base := writeConfigFile(t, `{"server": {"addr": ":9000"}, "log": {"level": "debug"}}`)
	override := writeConfigFile(t, `{"server": {"addr": ":9001"}}`)

	loader := NewLoader()
	loader.AddLayer(base)
	loader.AddLayer(override)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9001", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONCEPTMRI_SERVER_ADDR", ":7777")
	t.Setenv("CONCEPTMRI_DATA_LAKE_PATH", "/tmp/lake")
	t.Setenv("CONCEPTMRI_LOG_LEVEL", "WARN")
	t.Setenv("CONCEPTMRI_NATS_ENABLED", "true")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "/tmp/lake", cfg.DataLake.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.NATS.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestLoadBadJSON(t *testing.T) {
	path := writeConfigFile(t, `{"server": `)
	_, err := NewLoader().LoadFile(path)
	require.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfigFile(t, `{"server": {"read_timeout": "soon"}}`)
	_, err := NewLoader().LoadFile(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty lake path", func(c *Config) { c.DataLake.Path = "" }},
		{"nats enabled without url", func(c *Config) { c.NATS.Enabled = true; c.NATS.URL = "" }},
		{"zero palette weight", func(c *Config) { c.Palette.PrimaryWeight = 0 }},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "logfmt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestValidationCanBeDisabled(t *testing.T) {
	path := writeConfigFile(t, `{"log": {"level": "verbose"}}`)

	loader := NewLoader()
	loader.EnableValidation(false)
	cfg, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "verbose", cfg.Log.Level)
}
