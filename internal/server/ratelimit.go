package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumeqa/internal/errors"

	"golang.org/x/time/rate"
)

// clientLimiter is the token bucket of one client key.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterManager hands out one token bucket per client key (IP or API key)
// and evicts buckets that stay unused for longer than idle.
type LimiterManager struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	idle    time.Duration
	done    chan struct{}
	once    sync.Once
	logger  *errors.Logger
}

// RateLimiter is the limiter type the server holds.
type RateLimiter = LimiterManager

// NewRateLimiter allows requestsPerMin per client with bursts of
// burstCapacity. idle is raised to at least ten minutes.
func NewRateLimiter(requestsPerMin int, idle time.Duration, burstCapacity int, logger *errors.Logger) *LimiterManager {
	if idle < 10*time.Minute {
		idle = 10 * time.Minute
	}
	if burstCapacity <= 0 {
		burstCapacity = 1
	}

	m := &LimiterManager{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(float64(requestsPerMin) / 60.0),
		burst:   burstCapacity,
		idle:    idle,
		done:    make(chan struct{}),
		logger:  logger,
	}
	go m.evictLoop()
	return m
}

// Allow takes a token from the bucket of key, creating the bucket on first use.
func (m *LimiterManager) Allow(key string) bool {
	m.mu.Lock()
	c, ok := m.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(m.rate, m.burst)}
		m.clients[key] = c
	}
	c.lastSeen = time.Now()
	m.mu.Unlock()

	return c.limiter.Allow()
}

// GetStats returns current rate limiter statistics
func (m *LimiterManager) GetStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"active_limiters": len(m.clients),
		"rate_per_second": float64(m.rate),
		"rate_per_minute": float64(m.rate) * 60.0,
		"burst_capacity":  m.burst,
	}
}

func (m *LimiterManager) evictLoop() {
	ticker := time.NewTicker(m.idle)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.evictIdle(now)
		case <-m.done:
			return
		}
	}
}

// evictIdle drops the buckets last used more than idle before now.
func (m *LimiterManager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, c := range m.clients {
		if now.Sub(c.lastSeen) > m.idle {
			delete(m.clients, key)
		}
	}
	if m.logger != nil {
		m.logger.Debug("Evicted idle rate limiters", "remaining_limiters", len(m.clients))
	}
}

// Close stops the eviction goroutine. Safe to call more than once.
func (m *LimiterManager) Close() {
	m.once.Do(func() { close(m.done) })
}

// createRateLimitMiddleware rejects over-limit clients with 429 and counts
// each rejection.
func (s *Server) createRateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimiter == nil || s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				limiter, _, _ := strings.Cut(key, ":")
				s.Observability.GetMetrics().RecordRateLimitHit(r.Context(), limiter)
				s.Logger.Info("Rate limit exceeded",
					"limiter", limiter,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				w.Header().Set("Retry-After", "60")
				writeErrorResponse(w, "RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey picks the API key bucket when enabled and present,
// otherwise the client IP bucket.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		if apiKey := requestAPIKey(r); apiKey != "" {
			return "api_key:" + apiKey
		}
	}

	if byIP {
		return "ip:" + getClientIP(r)
	}

	return ""
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first valid IP from a comma-separated list
func parseFirstIP(ips string) string {
	for ip := range strings.SplitSeq(ips, ",") {
		ip = strings.TrimSpace(ip)
		if parsed := net.ParseIP(ip); parsed != nil {
			return ip
		}
	}
	return ""
}
