package server

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// healthHandler reports the status of every registered dependency. Any
// failing check marks the service degraded.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.HealthTimeout)
	defer cancel()

	checks := s.runHealthChecks(ctx)

	status := "healthy"
	code := http.StatusOK
	for _, c := range checks {
		if !c["healthy"].(bool) {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, map[string]any{
		"status":       status,
		"service":      "resumeqa",
		"version":      s.Version,
		"dependencies": checks,
	})
}

// runHealthChecks runs the checks concurrently and collects one entry per
// dependency name.
func (s *Server) runHealthChecks(ctx context.Context) map[string]map[string]any {
	results := make(map[string]map[string]any, len(s.HealthChecks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, hc := range s.HealthChecks {
		wg.Add(1)
		go func(hc HealthCheck) {
			defer wg.Done()
			start := time.Now()
			err := hc.Check(ctx)

			entry := map[string]any{
				"healthy":    err == nil,
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if err != nil {
				entry["error"] = err.Error()
				s.Logger.Warn("Health check failed", "dependency", hc.Name, "error", err)
			}

			mu.Lock()
			results[hc.Name] = entry
			mu.Unlock()
		}(hc)
	}
	wg.Wait()
	return results
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service":        "resumeqa",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"default_container":      s.Container,
			"auth_enabled":           s.apiKeyCount() > 0,
			"tls_mode":               s.tlsMode(),
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.APIKeyWatcher != nil {
		response["api_key_watcher"] = s.APIKeyWatcher.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) tlsMode() string {
	if s.TLSConfig.Mode == "" {
		return "disabled"
	}
	return s.TLSConfig.Mode
}
