package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.APIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(1), cfg.DefaultDaycareID)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "api_base_url: https://barnehage.example/api/\nrequest_timeout: 3s\nfan_out_limit: 2\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://barnehage.example/api", cfg.APIBaseURL, "trailing slash trimmed")
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.FanOutLimit)
	assert.Equal(t, DefaultConfig().DBPath, cfg.DBPath, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api_base_url: https://file.example/api\nfan_out_limit: 2\n")
	t.Setenv("TRYGGINN_API_BASE_URL", "http://env.example/api")
	t.Setenv("TRYGGINN_LOG_CALLS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example/api", cfg.APIBaseURL)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, 2, cfg.FanOutLimit, "file value survives when env is unset")
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("TRYGGINN_FAN_OUT_LIMIT", "many")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "api_base_url: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.APIBaseURL = "" }},
		{"bad scheme", func(c *Config) { c.APIBaseURL = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero fan-out", func(c *Config) { c.FanOutLimit = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("TRYGGINN_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", ConfigPath())
}
