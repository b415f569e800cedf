package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps Load from seeing a config file or home directory outside the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "gemini", cfg.Vision.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Vision.Model)
	assert.Equal(t, []string{"it", "en"}, cfg.Catalog.Languages)
	assert.Equal(t, "it,en", cfg.Catalog.LanguageRestrict())
	assert.Equal(t, 15*time.Minute, cfg.Pending.TTL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.True(t, cfg.Covers.Enabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HOMELIBRARY_VISION_PROVIDER", "Ollama")
	t.Setenv("HOMELIBRARY_SERVER_PORT", "9090")
	t.Setenv("HOMELIBRARY_PENDING_TTL", "2m")
	t.Setenv("HOMELIBRARY_VISION_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Vision.Provider)
	assert.Equal(t, "mistral-small3.2:24b", cfg.Vision.Model)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Pending.TTL)
	assert.Equal(t, "sk-legacy", cfg.Vision.OpenAIAPIKey)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vision:
  provider: openai
  model: gpt-4o-mini
catalog:
  languages: [fr]
database:
  driver: postgres
  dsn: postgres://library@localhost/homelibrary
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Vision.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Vision.Model)
	assert.Equal(t, []string{"fr"}, cfg.Catalog.Languages)
	assert.Equal(t, "postgres", cfg.Database.Driver)

	redacted := cfg.Redacted()
	assert.Equal(t, "********", redacted.Database.DSN)
	assert.Equal(t, "postgres://library@localhost/homelibrary", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.Vision.Provider = "claude" }, "unsupported vision provider"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"bad language", func(c *Config) { c.Catalog.Languages = []string{"not a tag"} }, "invalid catalog language"},
		{"zero ttl", func(c *Config) { c.Pending.TTL = 0 }, "pending.ttl"},
		{"zero upload limit", func(c *Config) { c.Uploads.MaxBytes = 0 }, "uploads.max_bytes"},
	}

	require.NoError(t, Default().Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := Default()
	cfg.Catalog.APIKey = "books-key"
	cfg.Vision.GeminiAPIKey = "gemini-key"

	r := cfg.Redacted()
	assert.Equal(t, "********", r.Catalog.APIKey)
	assert.Equal(t, "********", r.Vision.GeminiAPIKey)
	assert.Empty(t, r.Vision.OpenAIAPIKey)
	assert.Equal(t, "homelibrary.db", r.Database.DSN)
	assert.Equal(t, "books-key", cfg.Catalog.APIKey)
}
