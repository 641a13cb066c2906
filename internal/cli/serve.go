package cli

import (
	"fmt"

	"resumeqa/internal/common"
	"resumeqa/internal/config"
	"resumeqa/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and web UI",
	Long: `Start an HTTP server that exposes the resume operations as a REST API
together with a small web UI.

Available endpoints:
- GET  /: Web UI
- GET  /api/v1/resumes: List resumes in a container
- POST /api/v1/resumes/parse: Parse a resume
- POST /api/v1/resumes/similarity: Score a resume against a job description
- POST /api/v1/resumes/ask: Answer a question about a resume
- GET  /api/v1/resumes/report: HTML report of a parsed resume
- GET  /api/v1/history: Recent parse runs
- GET  /health: Health check endpoint
- GET  /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server
- Use --cert-file and --key-file for TLS certificates`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveOpts struct {
	port     string
	host     string
	tlsMode  string
	certFile string
	keyFile  string
}

func init() {
	serveCmd.Flags().StringVarP(&serveOpts.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveOpts.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveOpts.tlsMode, "tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().StringVar(&serveOpts.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveOpts.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the configuration
func applyServeFlags(cfg *config.Config) {
	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&cfg.Server.Port, serveOpts.port)
	override(&cfg.Server.Host, serveOpts.host)
	override(&cfg.Server.TLS.Mode, serveOpts.tlsMode)
	override(&cfg.Server.TLS.CertFile, serveOpts.certFile)
	override(&cfg.Server.TLS.KeyFile, serveOpts.keyFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	applyServeFlags(cfg)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	return withRuntime(cmd, func(rt *common.Runtime) error {
		srv := server.NewServer(server.ConfigFromApp(cfg, Version), rt.Service, rt.Telemetry, rt.Logger)
		srv.HealthChecks = rt.HealthChecks()
		srv.Out = cmd.OutOrStdout()

		watcher, err := newAPIKeyWatcher(cfg, srv, rt)
		if err != nil {
			return err
		}
		srv.APIKeyWatcher = watcher

		return srv.Start(cmd.Context())
	})
}

// newAPIKeyWatcher returns a watcher that keeps the server API keys in sync
// with Vault, or nil when polling is not configured.
func newAPIKeyWatcher(cfg *config.Config, srv *server.Server, rt *common.Runtime) (*server.VaultWatcher, error) {
	if !cfg.Vault.Enabled || cfg.Vault.Secrets.APIKeys == "" || cfg.Vault.PollInterval <= 0 {
		return nil, nil
	}

	client, err := config.NewVaultClient(cfg.Vault, rt.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault client for API key polling: %w", err)
	}
	return server.NewVaultWatcher(client, cfg.Vault.Secrets.APIKeys, cfg.Vault.PollInterval, 0,
		srv.SetAPIKeys, rt.Logger.With("component", "vault_watcher")), nil
}
