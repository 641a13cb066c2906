package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
// Secret precedence order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMEQA_AI_APIKEY, GEMINI_API_KEY, AZURE_*, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	NLP           NLPConfig           `mapstructure:"nlp"`
	Similarity    SimilarityConfig    `mapstructure:"similarity"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Document      DocumentConfig      `mapstructure:"document"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	// Prompts holds prompt content read from the *File settings.
	Prompts LoadedPrompts `mapstructure:"-"`
}

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global/fallback configuration
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	// Operation-specific configurations
	Answer   OperationAIConfig `mapstructure:"answer"`
	Entities OperationAIConfig `mapstructure:"entities"`

	QA QAConfig `mapstructure:"qa"`
}

// QAConfig bounds the question-answering call.
type QAConfig struct {
	MaxContextChars int    `mapstructure:"maxContextChars"`
	MaxOutputTokens int32  `mapstructure:"maxOutputTokens"`
	ContextMode     string `mapstructure:"contextMode"` // "text" or "structured"
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for specific operations
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	BaseURL          string               `mapstructure:"baseURL"` // Optional API endpoint override
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts PromptSet `mapstructure:"systemPrompts"`
	UserPrompts   PromptSet `mapstructure:"userPrompts"`
}

// PromptSet holds inline prompts and prompt file paths per operation.
type PromptSet struct {
	Answer       string `mapstructure:"answer"`
	AnswerFile   string `mapstructure:"answerFile"`
	Entities     string `mapstructure:"entities"`
	EntitiesFile string `mapstructure:"entitiesFile"`
}

// NLPConfig selects and tunes the named-entity recognizer.
type NLPConfig struct {
	Provider           string          `mapstructure:"provider"` // "rules" or "gemini"
	ExtraPlaces        []string        `mapstructure:"extraPlaces"`
	ExtraOrgSuffixes   []string        `mapstructure:"extraOrgSuffixes"`
	ExtraOrganizations []string        `mapstructure:"extraOrganizations"`
	Sections           []SectionConfig `mapstructure:"sections"`
}

// SectionConfig overrides the heading keywords of one resume section.
type SectionConfig struct {
	Label    string   `mapstructure:"label"`
	Keywords []string `mapstructure:"keywords"`
}

// SimilarityConfig holds similarity scoring configuration
type SimilarityConfig struct {
	Multiplier float64 `mapstructure:"multiplier"`
}

// StorageConfig selects the blob backend holding the resumes.
type StorageConfig struct {
	Backend   string             `mapstructure:"backend"` // "azure", "s3", "minio" or "local"
	Container string             `mapstructure:"container"`
	Timeout   time.Duration      `mapstructure:"timeout"`
	Azure     AzureStorageConfig `mapstructure:"azure"`
	S3        S3StorageConfig    `mapstructure:"s3"`
	MinIO     MinIOStorageConfig `mapstructure:"minio"`
	Local     LocalStorageConfig `mapstructure:"local"`
}

// AzureStorageConfig holds the client-secret credential and account URL.
type AzureStorageConfig struct {
	AccountURL   string `mapstructure:"accountURL"`
	TenantID     string `mapstructure:"tenantID"`
	ClientID     string `mapstructure:"clientID"`
	ClientSecret string `mapstructure:"clientSecret"`
}

// S3StorageConfig holds AWS S3 (or S3-compatible) settings.
type S3StorageConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UsePathStyle    bool   `mapstructure:"usePathStyle"`
}

// MinIOStorageConfig holds MinIO connection settings.
type MinIOStorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UseSSL          bool   `mapstructure:"useSSL"`
	CreateBucket    bool   `mapstructure:"createBucket"`
}

// LocalStorageConfig points at a directory whose sub-directories are containers.
type LocalStorageConfig struct {
	Root string `mapstructure:"root"`
}

// DocumentConfig holds document extraction limits
type DocumentConfig struct {
	MaxBytes int64 `mapstructure:"maxBytes"`
}

// CacheConfig holds Redis cache configuration for parsed resumes
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	URL          string        `mapstructure:"url"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	TTL          time.Duration `mapstructure:"ttl"`
	KeyPrefix    string        `mapstructure:"keyPrefix"`
	PoolSize     int           `mapstructure:"poolSize"`
	DialTimeout  time.Duration `mapstructure:"dialTimeout"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// DatabaseConfig holds the Postgres parse history configuration
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	// TLS Configuration
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds static server TLS configuration
type TLSConfig struct {
	Mode       string `mapstructure:"mode"`       // "disabled" or "server"
	CertFile   string `mapstructure:"certFile"`   // Server certificate file (PEM)
	KeyFile    string `mapstructure:"keyFile"`    // Server private key file (PEM)
	MinVersion string `mapstructure:"minVersion"` // "1.2" or "1.3"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Idle limiters older than this are evicted
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string        `mapstructure:"logLevel"`
	DefaultFormat    string        `mapstructure:"defaultFormat"`
	SupportedFormats []string      `mapstructure:"supportedFormats"`
	WatchDebounce    time.Duration `mapstructure:"watchDebounce"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables and
// a config file. An empty path searches the default locations.
func LoadConfig(path string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	// Set up environment variable handling
	v.SetEnvPrefix("RESUMEQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMEQA'")

	// Set up config file handling
	if path != "" {
		v.SetConfigFile(path)
		log.Printf("[CONFIG] Using explicit config file: %s", path)
	} else {
		v.SetConfigName("resumeqa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/resumeqa")
		v.AddConfigPath("/etc/resumeqa/")
		log.Println("[CONFIG] Configured config file search paths: ., $HOME/.config/resumeqa, /etc/resumeqa/")
	}

	// Read the config file
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	switch c.AI.QA.ContextMode {
	case "text", "structured":
	default:
		return fmt.Errorf("invalid ai.qa.contextMode: %s (must be 'text' or 'structured')", c.AI.QA.ContextMode)
	}
	if c.AI.QA.MaxContextChars <= 0 {
		return fmt.Errorf("ai.qa.maxContextChars must be positive")
	}

	switch c.NLP.Provider {
	case "rules", "gemini":
	default:
		return fmt.Errorf("invalid nlp.provider: %s (must be 'rules' or 'gemini')", c.NLP.Provider)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage configuration error: %w", err)
	}

	if c.Document.MaxBytes <= 0 {
		return fmt.Errorf("document.maxBytes must be positive")
	}

	if c.Cache.Enabled && c.Cache.URL == "" && c.Cache.Addr == "" {
		return fmt.Errorf("cache is enabled but neither cache.url nor cache.addr is set")
	}

	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("database is enabled but database.url is not set (or DATABASE_URL)")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

func (s StorageConfig) validate() error {
	if s.Container == "" {
		return fmt.Errorf("container is required")
	}
	switch s.Backend {
	case "azure":
		if s.Azure.AccountURL == "" {
			return fmt.Errorf("azure account URL is required (storage.azure.accountURL or AZURE_STORAGE_URL)")
		}
		if s.Azure.TenantID == "" || s.Azure.ClientID == "" || s.Azure.ClientSecret == "" {
			return fmt.Errorf("azure tenant ID, client ID and client secret are required")
		}
	case "s3":
		if s.S3.Region == "" {
			return fmt.Errorf("s3 region is required (storage.s3.region or AWS_REGION)")
		}
	case "minio":
		if s.MinIO.Endpoint == "" {
			return fmt.Errorf("minio endpoint is required")
		}
	case "local":
		if s.Local.Root == "" {
			return fmt.Errorf("local storage root is required")
		}
	default:
		return fmt.Errorf("invalid backend: %s (must be 'azure', 's3', 'minio' or 'local')", s.Backend)
	}
	return nil
}
