package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAIKeyFallbacks()
	c.applyServerAPIKeyFallbacks()
	c.applyStorageFallbacks()
	c.applyBackingServiceFallbacks()
	c.applyObservabilityDefaults()
}

// applyAIKeyFallbacks reads the conventional Gemini key variable.
func (c *Config) applyAIKeyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// applyServerAPIKeyFallbacks applies API key fallbacks from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("RESUMEQA_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitList(apiKeysEnv)
		}
	}
}

// applyStorageFallbacks fills storage credentials from the provider SDK
// variables and picks a backend when none is configured.
func (c *Config) applyStorageFallbacks() {
	az := &c.Storage.Azure
	envFallback(&az.AccountURL, "AZURE_STORAGE_URL")
	envFallback(&az.TenantID, "AZURE_TENANT_ID")
	envFallback(&az.ClientID, "AZURE_CLIENT_ID")
	envFallback(&az.ClientSecret, "AZURE_CLIENT_SECRET")

	s3 := &c.Storage.S3
	envFallback(&s3.Region, "AWS_REGION")
	envFallback(&s3.Region, "AWS_DEFAULT_REGION")
	envFallback(&s3.Endpoint, "AWS_ENDPOINT_URL_S3")
	envFallback(&s3.AccessKeyID, "AWS_ACCESS_KEY_ID")
	envFallback(&s3.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")

	if c.Storage.Backend == "" {
		switch {
		case az.AccountURL != "":
			c.Storage.Backend = "azure"
		case os.Getenv("AWS_REGION") != "" && os.Getenv("AWS_ACCESS_KEY_ID") != "":
			c.Storage.Backend = "s3"
		default:
			c.Storage.Backend = "local"
		}
	}
}

// applyBackingServiceFallbacks reads DATABASE_URL and REDIS_URL.
func (c *Config) applyBackingServiceFallbacks() {
	envFallback(&c.Database.URL, "DATABASE_URL")
	envFallback(&c.Cache.URL, "REDIS_URL")
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

func envFallback(dst *string, name string) {
	if *dst == "" {
		*dst = os.Getenv(name)
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	// Try to get hostname, fallback to default
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"RESUMEQA_AI_APIKEY",
		"RESUMEQA_AI_MODEL",
		"RESUMEQA_STORAGE_BACKEND",
		"RESUMEQA_SERVER_PORT",
		"RESUMEQA_APP_LOGLEVEL",
		"RESUMEQA_VAULT_ENABLED",
		"GEMINI_API_KEY",
		"AZURE_STORAGE_URL",
		"AZURE_CLIENT_SECRET",
		"AWS_REGION",
		"AWS_SECRET_ACCESS_KEY",
		"DATABASE_URL",
		"REDIS_URL",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitive(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] NLP Provider: %s", c.NLP.Provider)
	log.Printf("[CONFIG] Storage Backend: %s (container %s)", c.Storage.Backend, c.Storage.Container)
	log.Printf("[CONFIG] Cache Enabled: %t", c.Cache.Enabled)
	log.Printf("[CONFIG] History Database Enabled: %t", c.Database.Enabled)
	log.Printf("[CONFIG] Server: %s:%s (TLS %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"key", "secret", "url", "password", "token"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
