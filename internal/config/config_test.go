package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GEMINI_API_KEY", "AZURE_STORAGE_URL", "AZURE_TENANT_ID", "AZURE_CLIENT_ID",
		"AZURE_CLIENT_SECRET", "AWS_REGION", "AWS_DEFAULT_REGION", "AWS_ENDPOINT_URL_S3",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "DATABASE_URL", "REDIS_URL",
		"RESUMEQA_SERVER_APIKEYS",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearProviderEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "rules", cfg.NLP.Provider)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "nlp", cfg.Storage.Container)
	assert.Equal(t, 3.0, cfg.Similarity.Multiplier)
	assert.Equal(t, int32(150), cfg.AI.QA.MaxOutputTokens)
	assert.Equal(t, "text", cfg.AI.QA.ContextMode)
	assert.Equal(t, 30*time.Second, *cfg.GetAnswerConfig().Timeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.GetAnswerConfig().Model)
	assert.False(t, cfg.Cache.Enabled)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "custom.yaml", `
ai:
  answer:
    model: gemini-2.5-pro
  qa:
    contextMode: structured
storage:
  container: resumes
similarity:
  multiplier: 1
`)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("AZURE_STORAGE_URL", "https://acct.blob.core.windows.net")
	t.Setenv("AZURE_TENANT_ID", "tenant")
	t.Setenv("AZURE_CLIENT_ID", "client")
	t.Setenv("AZURE_CLIENT_SECRET", "secret")
	t.Setenv("RESUMEQA_SERVER_PORT", "9999")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "env-key", cfg.GetEntitiesConfig().APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GetAnswerConfig().Model)
	assert.Equal(t, "gemini-2.0-flash", cfg.GetEntitiesConfig().Model)
	assert.Equal(t, "structured", cfg.AI.QA.ContextMode)
	assert.Equal(t, "azure", cfg.Storage.Backend)
	assert.Equal(t, "resumes", cfg.Storage.Container)
	assert.Equal(t, "client", cfg.Storage.Azure.ClientID)
	assert.Equal(t, 1.0, cfg.Similarity.Multiplier)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.URL)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	clearProviderEnv(t)
	t.Chdir(t.TempDir())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func validConfig() *Config {
	return &Config{
		AI:       AIConfig{Timeout: time.Second, QA: QAConfig{MaxContextChars: 100, ContextMode: "text"}},
		NLP:      NLPConfig{Provider: "rules"},
		Storage:  StorageConfig{Backend: "local", Container: "nlp", Local: LocalStorageConfig{Root: "."}},
		Document: DocumentConfig{MaxBytes: 1024},
		Server:   ServerConfig{Port: "8080"},
		App:      AppConfig{DefaultFormat: "json", SupportedFormats: []string{"json", "text"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad nlp provider", mutate: func(c *Config) { c.NLP.Provider = "spacy" }, errorMsg: "invalid nlp.provider"},
		{name: "bad context mode", mutate: func(c *Config) { c.AI.QA.ContextMode = "pdf" }, errorMsg: "invalid ai.qa.contextMode"},
		{name: "bad backend", mutate: func(c *Config) { c.Storage.Backend = "ftp" }, errorMsg: "invalid backend: ftp"},
		{name: "azure without credentials", mutate: func(c *Config) {
			c.Storage.Backend = "azure"
			c.Storage.Azure.AccountURL = "https://acct.blob.core.windows.net"
		}, errorMsg: "tenant ID, client ID and client secret"},
		{name: "s3 without region", mutate: func(c *Config) { c.Storage.Backend = "s3" }, errorMsg: "s3 region is required"},
		{name: "cache without address", mutate: func(c *Config) { c.Cache.Enabled = true }, errorMsg: "cache is enabled"},
		{name: "database without url", mutate: func(c *Config) { c.Database.Enabled = true }, errorMsg: "database is enabled"},
		{name: "bad format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, errorMsg: "invalid default format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errorMsg)
			}
		})
	}
}
