package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 0) // a failed call aborts the current action; retries are opt-in
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Answer operation defaults
	v.SetDefault("ai.answer.provider", "gemini")
	v.SetDefault("ai.answer.model", "")
	v.SetDefault("ai.answer.timeout", 30*time.Second)
	v.SetDefault("ai.answer.apiKey", "")
	v.SetDefault("ai.answer.maxRetries", 0)
	v.SetDefault("ai.answer.temperature", 0.1) // Answers should stay close to the resume
	v.SetDefault("ai.answer.useSystemPrompts", true)

	// AI Configuration - Entities operation defaults
	v.SetDefault("ai.entities.provider", "gemini")
	v.SetDefault("ai.entities.model", "")
	v.SetDefault("ai.entities.timeout", 60*time.Second)
	v.SetDefault("ai.entities.apiKey", "")
	v.SetDefault("ai.entities.maxRetries", 0)
	v.SetDefault("ai.entities.temperature", 0.0)
	v.SetDefault("ai.entities.useSystemPrompts", true)

	// Circuit Breaker Configuration defaults for all operations
	for _, op := range []string{"answer", "entities"} {
		prefix := "ai." + op + ".circuitBreaker."
		v.SetDefault(prefix+"enabled", true)
		v.SetDefault(prefix+"maxRequests", 3)
		v.SetDefault(prefix+"interval", 60*time.Second)
		v.SetDefault(prefix+"timeout", 60*time.Second)
		v.SetDefault(prefix+"minRequests", 3)
		v.SetDefault(prefix+"failureThreshold", 0.6)
	}

	// Question answering
	v.SetDefault("ai.qa.maxContextChars", 4096)
	v.SetDefault("ai.qa.maxOutputTokens", 150)
	v.SetDefault("ai.qa.contextMode", "text")

	// NLP
	v.SetDefault("nlp.provider", "rules")
	v.SetDefault("nlp.extraPlaces", []string{})
	v.SetDefault("nlp.extraOrgSuffixes", []string{})
	v.SetDefault("nlp.extraOrganizations", []string{})

	// Similarity
	v.SetDefault("similarity.multiplier", 3.0)

	// Storage
	v.SetDefault("storage.backend", "") // resolved in applyStorageFallbacks
	v.SetDefault("storage.container", "nlp")
	v.SetDefault("storage.timeout", 30*time.Second)
	v.SetDefault("storage.azure.accountURL", "")
	v.SetDefault("storage.azure.tenantID", "")
	v.SetDefault("storage.azure.clientID", "")
	v.SetDefault("storage.azure.clientSecret", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.accessKeyID", "")
	v.SetDefault("storage.s3.secretAccessKey", "")
	v.SetDefault("storage.s3.usePathStyle", false)
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.accessKeyID", "")
	v.SetDefault("storage.minio.secretAccessKey", "")
	v.SetDefault("storage.minio.useSSL", false)
	v.SetDefault("storage.minio.createBucket", false)
	v.SetDefault("storage.local.root", "./resumes")

	// Document extraction
	v.SetDefault("document.maxBytes", 10*1024*1024)

	// Cache
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.url", "")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.keyPrefix", "resumeqa:parsed:")
	v.SetDefault("cache.poolSize", 10)
	v.SetDefault("cache.dialTimeout", 5*time.Second)
	v.SetDefault("cache.readTimeout", 3*time.Second)
	v.SetDefault("cache.writeTimeout", 3*time.Second)

	// Database
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.url", "")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)
	v.SetDefault("database.autoMigrate", true)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 1024*1024)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.minVersion", "1.2")

	// Rate Limiting Configuration
	v.SetDefault("server.rateLimit.enabled", true)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.watchDebounce", 2*time.Second)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.pollInterval", 5*time.Minute)
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.storage", "")
	v.SetDefault("vault.secrets.database", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "resumeqa")
	v.SetDefault("observability.serviceVersion", "1.0.0")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 5*time.Second)
}
