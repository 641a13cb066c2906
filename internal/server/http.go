package server

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/observability"
	"resumeqa/internal/types"
)

// ResumeService is the resume pipeline the API exposes.
type ResumeService interface {
	List(ctx context.Context, container string) types.ResumeList
	Parse(ctx context.Context, name, container string) (*types.ParsedResume, error)
	Similarity(ctx context.Context, name, container, jobDescription string) (*types.SimilarityResult, error)
	Ask(ctx context.Context, name, container, question string) (*types.Answer, error)
	History(ctx context.Context, resume string, limit int) (*types.ParseHistory, error)
}

// HealthCheck probes one backing dependency for /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ParseRequest is the body of POST /api/v1/resumes/parse
type ParseRequest struct {
	Resume    string `json:"resume"`
	Container string `json:"container,omitempty"`
}

// SimilarityRequest is the body of POST /api/v1/resumes/similarity
type SimilarityRequest struct {
	Resume         string `json:"resume"`
	Container      string `json:"container,omitempty"`
	JobDescription string `json:"jobDescription"`
}

// AskRequest is the body of POST /api/v1/resumes/ask
type AskRequest struct {
	Resume    string `json:"resume"`
	Container string `json:"container,omitempty"`
	Question  string `json:"question"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Container used when a request does not name one
	Container string

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	HealthTimeout time.Duration

	Resumes       ResumeService
	HealthChecks  []HealthCheck
	Observability *observability.ObservabilityManager
	APIKeyWatcher *VaultWatcher

	// Out receives the startup banner
	Out io.Writer

	// Logger
	Logger *errors.Logger

	keysMu  sync.RWMutex
	apiKeys map[string]bool
	started time.Time
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	Container      string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
	HealthTimeout  time.Duration
}

// ConfigFromApp builds a ServerConfig from the application configuration
func ConfigFromApp(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		Container:      cfg.Storage.Container,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
		HealthTimeout:  cfg.Observability.HealthCheck.Timeout,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(cfg ServerConfig, resumes ResumeService, om *observability.ObservabilityManager, logger *errors.Logger) *Server {
	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		Container:      cfg.Container,
		TLSConfig:      cfg.TLSConfig,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		HealthTimeout:  healthTimeout,
		Resumes:        resumes,
		Observability:  om,
		Out:            os.Stdout,
		Logger:         logger.With("component", "server"),
		started:        time.Now(),
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty list disables
// authentication.
func (s *Server) SetAPIKeys(keys []string) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	s.keysMu.Lock()
	s.apiKeys = apiKeyMap
	s.keysMu.Unlock()
}

func (s *Server) apiKeyCount() int {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) validAPIKey(key string) bool {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return s.apiKeys[key]
}
