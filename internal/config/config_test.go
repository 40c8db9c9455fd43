package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY",
		"CAREERGPS_LLM_API_KEY",
		"CAREERGPS_SERVER_PORT",
		"CAREERGPS_LLM_MODEL",
		"CAREERGPS_EXPORT_SETTLE_DELAY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 800*time.Millisecond, cfg.Export.SettleDelay)
	assert.Equal(t, int64(2), cfg.Export.MaxConcurrent)
	assert.Equal(t, "Career GPS", cfg.Branding.ProductName)
	assert.Equal(t, "Ritik", cfg.Branding.Author)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.ReportLimit)
	assert.Equal(t, time.Hour, cfg.RateLimit.ReportWindow)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	content := `
server:
  port: 9090
  session_ttl: 30m
  secure_cookies: true
llm:
  model: gemini-custom
  timeout: 45s
export:
  settle_delay: 1.5s
log:
  format: json
`
	path := filepath.Join(t.TempDir(), "careergps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.True(t, cfg.Server.SecureCookies)
	assert.Equal(t, "gemini-custom", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Export.SettleDelay)
	assert.Equal(t, "json", cfg.Log.Format)
	// Untouched keys keep defaults.
	assert.Equal(t, "Career GPS", cfg.Branding.ProductName)
}

func TestLoad_JSONFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "careergps.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm": {"temperature": 0.2}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAREERGPS_SERVER_PORT", "7000")
	t.Setenv("CAREERGPS_EXPORT_SETTLE_DELAY", "250ms")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Export.SettleDelay)
	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAREERGPS_LLM_API_KEY", "prefixed")
	t.Setenv("GEMINI_API_KEY", "plain")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.APIKey)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "short ttl", mutate: func(c *Config) { c.Server.SessionTTL = time.Second }, wantErr: "server.session_ttl"},
		{name: "no model", mutate: func(c *Config) { c.LLM.Model = "" }, wantErr: "llm.model"},
		{name: "hot temperature", mutate: func(c *Config) { c.LLM.Temperature = 3 }, wantErr: "llm.temperature"},
		{name: "negative settle", mutate: func(c *Config) { c.Export.SettleDelay = -time.Second }, wantErr: "export.settle_delay"},
		{name: "zero renders", mutate: func(c *Config) { c.Export.MaxConcurrent = 0 }, wantErr: "export.max_concurrent"},
		{name: "zero report limit", mutate: func(c *Config) { c.RateLimit.ReportLimit = 0 }, wantErr: "rate_limit.report_limit"},
		{name: "limits ignored when disabled", mutate: func(c *Config) {
			c.RateLimit.Enabled = false
			c.RateLimit.DefaultLimit = 0
		}},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	err := cfg.RequireAPIKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.LLM.APIKey = "key"
	assert.NoError(t, cfg.RequireAPIKey())
}
