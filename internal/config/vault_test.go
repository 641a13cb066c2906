package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"resumeqa/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]*VaultSecret

func (f fakeSecrets) GetSecretV2(path string) (*VaultSecret, error) {
	if s, ok := f[path]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("secret not found at path: %s", path)
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestParseKVv2(t *testing.T) {
	secret, err := parseKVv2(map[string]any{
		"data":     map[string]any{"api_key": "abc"},
		"metadata": map[string]any{"version": float64(3)},
	}, "secret/data/gemini")
	require.NoError(t, err)
	assert.Equal(t, int64(3), secret.Version)
	assert.Equal(t, "abc", secret.Data["api_key"])

	_, err = parseKVv2(map[string]any{"api_key": "abc"}, "secret/gemini")
	assert.ErrorContains(t, err, "missing 'data' field")

	_, err = parseKVv2(map[string]any{"data": map[string]any{}}, "secret/gemini")
	assert.ErrorContains(t, err, "missing 'metadata' field")
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	config := &Config{AI: AIConfig{Entities: OperationAIConfig{APIKey: "entities-key"}}}

	applyGeminiKeyToConfig(config, "vault-key")

	assert.Equal(t, "vault-key", config.AI.APIKey)
	assert.Equal(t, "vault-key", config.AI.Answer.APIKey)
	assert.Equal(t, "entities-key", config.AI.Entities.APIKey)
}

func TestApplySecrets(t *testing.T) {
	src := fakeSecrets{
		"secret/data/api": {Data: map[string]any{"keys": "k1, k2,,k3"}},
		"secret/data/ai":  {Data: map[string]any{"api_key": "gem"}},
		"secret/data/storage": {Data: map[string]any{
			"azure_client_id":     "cid",
			"azure_client_secret": "csecret",
			"aws_access_key_id":   "",
			"minio_access_key_id": 12,
		}},
		"secret/data/db": {Data: map[string]any{"url": "postgres://u:p@db/resumeqa"}},
	}
	config := &Config{Vault: VaultConfig{Secrets: VaultSecrets{
		APIKeys:   "secret/data/api",
		GeminiKey: "secret/data/ai",
		Storage:   "secret/data/storage",
		Database:  "secret/data/db",
	}}}

	require.NoError(t, applySecrets(src, config, errors.NewNopLogger()))

	assert.Equal(t, []string{"k1", "k2", "k3"}, config.Server.APIKeys)
	assert.Equal(t, "gem", config.AI.APIKey)
	assert.Equal(t, "cid", config.Storage.Azure.ClientID)
	assert.Equal(t, "csecret", config.Storage.Azure.ClientSecret)
	assert.Empty(t, config.Storage.S3.AccessKeyID)
	assert.Empty(t, config.Storage.MinIO.AccessKeyID)
	assert.Equal(t, "postgres://u:p@db/resumeqa", config.Database.URL)
}

func TestApplySecretsMissingPath(t *testing.T) {
	config := &Config{Vault: VaultConfig{Secrets: VaultSecrets{GeminiKey: "secret/data/missing"}}}
	err := applySecrets(fakeSecrets{}, config, nil)
	assert.ErrorContains(t, err, "failed to load Gemini API key from vault")
}

func TestApplySecretsWrongFieldType(t *testing.T) {
	src := fakeSecrets{"secret/data/api": {Data: map[string]any{"keys": []string{"k1"}}}}
	config := &Config{Vault: VaultConfig{Secrets: VaultSecrets{APIKeys: "secret/data/api"}}}
	err := applySecrets(src, config, nil)
	assert.ErrorContains(t, err, "is not a string")
}

func TestResolveVaultToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0600))

	tests := []struct {
		name        string
		config      VaultConfig
		expected    string
		expectError bool
	}{
		{name: "inline token wins", config: VaultConfig{Token: "inline", TokenFile: tokenFile}, expected: "inline"},
		{name: "token file", config: VaultConfig{TokenFile: tokenFile}, expected: "file-token"},
		{name: "missing file", config: VaultConfig{TokenFile: tokenFile + ".missing"}, expectError: true},
		{name: "no token", config: VaultConfig{}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := resolveVaultToken(tt.config, nil)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{AI: AIConfig{APIKey: "keep"}}
	assert.NoError(t, ApplyVaultSecrets(config, errors.NewNopLogger()))
	assert.Equal(t, "keep", config.AI.APIKey)
}
