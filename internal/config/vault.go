package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"resumeqa/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// PollInterval controls how often serve re-reads the API key secret.
	// Zero disables polling.
	PollInterval time.Duration `mapstructure:"pollInterval"`

	// Secret paths
	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault (KVv2 paths)
type VaultSecrets struct {
	// APIKeys expects a "keys" field holding comma-separated values.
	APIKeys string `mapstructure:"apiKeys"`
	// GeminiKey expects an "api_key" field.
	GeminiKey string `mapstructure:"geminiKey"`
	// Storage may hold azure_*, aws_* and minio_* credential fields.
	Storage string `mapstructure:"storage"`
	// Database expects a "url" field.
	Database string `mapstructure:"database"`
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient creates a new Vault client from configuration
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	if logger != nil {
		logger.Debug("Initializing Vault client",
			"address", config.Address,
			"namespace", config.Namespace,
			"token_file", config.TokenFile,
			"has_token", config.Token != "")
	}

	vaultConfig := api.DefaultConfig()
	if config.Address != "" {
		vaultConfig.Address = config.Address
	}
	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", config.Address)
		}
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Successfully connected to Vault",
			"address", config.Address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return &VaultClient{client: client, config: config, logger: logger}, nil
}

// resolveVaultToken resolves the Vault token from config or file
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		tokenBytes, err := os.ReadFile(config.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}

	return token, nil
}

// VaultSecret represents a secret read from Vault's KVv2 engine.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 retrieves a secret from a Vault KVv2 store.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	return parseKVv2(secret.Data, path)
}

// parseKVv2 unpacks the data and metadata.version fields of a KVv2 response.
func parseKVv2(raw map[string]any, path string) (*VaultSecret, error) {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := raw["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}
	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue parses version value from various types
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// GetStringSecret retrieves a string value from a Vault secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	return stringField(secret, path, key)
}

func stringField(secret *VaultSecret, path, key string) (string, error) {
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}
	return strValue, nil
}

// APIKeysFromSecret reads the comma-separated "keys" field of an API key
// secret.
func APIKeysFromSecret(secret *VaultSecret, path string) ([]string, error) {
	keys, err := stringField(secret, path, "keys")
	if err != nil {
		return nil, err
	}
	return splitList(keys), nil
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(client, config, logger)
}

// secretSource is the subset of VaultClient used to apply secrets.
type secretSource interface {
	GetSecretV2(path string) (*VaultSecret, error)
}

func applySecrets(src secretSource, config *Config, logger *errors.Logger) error {
	paths := config.Vault.Secrets

	if paths.APIKeys != "" {
		secret, err := src.GetSecretV2(paths.APIKeys)
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		parsed, err := APIKeysFromSecret(secret, paths.APIKeys)
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if len(parsed) > 0 {
			config.Server.APIKeys = parsed
			if logger != nil {
				logger.Info("API keys loaded from Vault", "count", len(parsed))
			}
		}
	}

	if paths.GeminiKey != "" {
		secret, err := src.GetSecretV2(paths.GeminiKey)
		if err != nil {
			return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		key, err := stringField(secret, paths.GeminiKey, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		if key != "" {
			applyGeminiKeyToConfig(config, key)
			if logger != nil {
				logger.Info("Gemini API key loaded from Vault and applied to all AI configurations")
			}
		}
	}

	if paths.Storage != "" {
		secret, err := src.GetSecretV2(paths.Storage)
		if err != nil {
			return fmt.Errorf("failed to load storage credentials from vault: %w", err)
		}
		n := applyStorageSecrets(&config.Storage, secret)
		if logger != nil {
			logger.Info("Storage credentials loaded from Vault", "fields", n)
		}
	}

	if paths.Database != "" {
		secret, err := src.GetSecretV2(paths.Database)
		if err != nil {
			return fmt.Errorf("failed to load database URL from vault: %w", err)
		}
		url, err := stringField(secret, paths.Database, "url")
		if err != nil {
			return fmt.Errorf("failed to load database URL from vault: %w", err)
		}
		config.Database.URL = url
	}

	return nil
}

// applyGeminiKeyToConfig applies the Gemini API key to all AI configurations
func applyGeminiKeyToConfig(config *Config, geminiKey string) {
	config.AI.APIKey = geminiKey
	if config.AI.Answer.APIKey == "" {
		config.AI.Answer.APIKey = geminiKey
	}
	if config.AI.Entities.APIKey == "" {
		config.AI.Entities.APIKey = geminiKey
	}
}

// applyStorageSecrets copies every non-empty credential field present in
// the secret and returns how many were applied.
func applyStorageSecrets(storage *StorageConfig, secret *VaultSecret) int {
	targets := map[string]*string{
		"azure_storage_url":       &storage.Azure.AccountURL,
		"azure_tenant_id":         &storage.Azure.TenantID,
		"azure_client_id":         &storage.Azure.ClientID,
		"azure_client_secret":     &storage.Azure.ClientSecret,
		"aws_access_key_id":       &storage.S3.AccessKeyID,
		"aws_secret_access_key":   &storage.S3.SecretAccessKey,
		"minio_access_key_id":     &storage.MinIO.AccessKeyID,
		"minio_secret_access_key": &storage.MinIO.SecretAccessKey,
	}
	applied := 0
	for key, target := range targets {
		if value, ok := secret.Data[key].(string); ok && value != "" {
			*target = value
			applied++
		}
	}
	return applied
}
