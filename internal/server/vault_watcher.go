package server

import (
	"fmt"
	"sync"
	"time"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
)

// VaultClientInterface defines the interface for Vault operations
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// APIKeysCallback receives the key list of each new secret version
type APIKeysCallback func(keys []string)

// VaultWatcher polls the API key secret and hands every new version's keys
// to the callback. Versions at or below the last one seen are ignored.
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	onChange     APIKeysCallback
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	lastCheck   time.Time
	lastError   string
}

// NewVaultWatcher creates a new VaultWatcher. lastVersion is the secret
// version already applied at startup.
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, lastVersion int64, onChange APIKeysCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onChange:     onChange,
		logger:       logger,
		lastVersion:  lastVersion,
	}
}

// Start begins polling Vault for secret changes
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	if vw.pollInterval <= 0 {
		return fmt.Errorf("vault watcher poll interval must be positive")
	}
	vw.stopChan = make(chan struct{})
	vw.running = true
	go vw.pollLoop(vw.stopChan)
	if vw.logger != nil {
		vw.logger.Info("Vault API key watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	}
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	if vw.logger != nil {
		vw.logger.Info("Vault API key watcher stopped")
	}
	return nil
}

// pollLoop polls Vault for secret changes
func (vw *VaultWatcher) pollLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := vw.Poll(); err != nil && vw.logger != nil {
				vw.logger.LogError(err, "Failed to check Vault for API key updates", "secret_path", vw.secretPath)
			}
		case <-stop:
			return
		}
	}
}

// Poll reads the secret once and applies it when its version is newer.
// It reports whether keys were applied.
func (vw *VaultWatcher) Poll() (bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err == nil && secret == nil {
		err = fmt.Errorf("secret not found at path: %s", vw.secretPath)
	}

	vw.mu.Lock()
	vw.lastCheck = time.Now()
	if err != nil {
		vw.lastError = err.Error()
		vw.mu.Unlock()
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret.Version <= vw.lastVersion {
		vw.lastError = ""
		vw.mu.Unlock()
		return false, nil
	}
	vw.mu.Unlock()

	keys, err := config.APIKeysFromSecret(secret, vw.secretPath)
	if err != nil {
		vw.mu.Lock()
		vw.lastError = err.Error()
		vw.mu.Unlock()
		return false, err
	}
	if len(keys) == 0 {
		// An empty list would silently disable authentication
		err := fmt.Errorf("secret version %d at %s holds no API keys", secret.Version, vw.secretPath)
		vw.mu.Lock()
		vw.lastError = err.Error()
		vw.mu.Unlock()
		return false, err
	}

	vw.onChange(keys)

	vw.mu.Lock()
	vw.lastVersion = secret.Version
	vw.lastError = ""
	vw.mu.Unlock()

	if vw.logger != nil {
		vw.logger.Info("API keys reloaded from Vault", "version", secret.Version, "count", len(keys))
	}
	return true, nil
}

// Status returns the current status of the VaultWatcher for /stats
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
	}
	if !vw.lastCheck.IsZero() {
		status["last_check"] = vw.lastCheck.UTC().Format(time.RFC3339)
	}
	if vw.lastError != "" {
		status["last_error"] = vw.lastError
	}
	return status
}
