package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo(addr string) {
	scheme := "http"
	if s.tlsMode() == "server" {
		scheme = "https"
	}
	fmt.Fprintf(s.Out, "resumeqa %s listening on %s://%s\n", s.Version, scheme, addr)
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Fprintln(s.Out, "Available endpoints:")
	fmt.Fprintln(s.Out, "  GET  /                           - Web UI")
	fmt.Fprintln(s.Out, "  GET  /health                     - Health check")
	fmt.Fprintln(s.Out, "  GET  /stats                      - Server statistics")
	fmt.Fprintln(s.Out, "  GET  /api/v1/resumes             - List resumes")
	fmt.Fprintln(s.Out, "  POST /api/v1/resumes/parse       - Parse a resume")
	fmt.Fprintln(s.Out, "  POST /api/v1/resumes/similarity  - Score a resume against a job description")
	fmt.Fprintln(s.Out, "  POST /api/v1/resumes/ask         - Ask a question about a resume")
	fmt.Fprintln(s.Out, "  GET  /api/v1/resumes/report      - HTML report of a parsed resume")
	fmt.Fprintln(s.Out, "  GET  /api/v1/history             - Parse history")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if n := s.apiKeyCount(); n > 0 {
		fmt.Fprintf(s.Out, "API authentication: ENABLED (%d keys configured)\n", n)
		fmt.Fprintln(s.Out, "Include 'X-API-Key: <your-key>' or 'Authorization: Bearer <your-key>' in /api requests")
	} else {
		fmt.Fprintln(s.Out, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(s.Out, "WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(s.Out, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(s.Out, "Request size limit: DISABLED")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(s.Out, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(s.Out, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(s.Out, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(s.Out, "Rate limiting: DISABLED")
	}
}
