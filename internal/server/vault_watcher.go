package server

import (
	"fmt"
	"sync"
	"time"

	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"
)

// SecretSource reads versioned KVv2 secrets
type SecretSource interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// VaultWatcher polls the Vault TLS secret and pushes new PEM content into the
// certificate manager whenever the secret version increases
type VaultWatcher struct {
	mu          sync.Mutex
	source      SecretSource
	path        string
	interval    time.Duration
	certs       *CertificateManager
	lastVersion int64
	stop        chan struct{}
	done        chan struct{}
	logger      *errors.Logger
}

// NewVaultWatcher creates a watcher for path. initialVersion is the version already loaded.
func NewVaultWatcher(source SecretSource, path string, interval time.Duration, certs *CertificateManager, initialVersion int64, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		source:      source,
		path:        path,
		interval:    interval,
		certs:       certs,
		lastVersion: initialVersion,
		logger:      logger,
	}
}

// Start begins polling in the background
func (vw *VaultWatcher) Start() {
	vw.stop = make(chan struct{})
	vw.done = make(chan struct{})
	go vw.pollLoop()
	vw.logger.Info("Vault certificate watcher started", "secret_path", vw.path, "poll_interval", vw.interval)
}

// Stop ends polling
func (vw *VaultWatcher) Stop() {
	if vw.stop == nil {
		return
	}
	close(vw.stop)
	<-vw.done
	vw.stop = nil
}

func (vw *VaultWatcher) pollLoop() {
	defer close(vw.done)
	ticker := time.NewTicker(vw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := vw.Poll(); err != nil {
				vw.logger.LogError(err, "Failed to refresh TLS certificates from Vault")
			}
		case <-vw.stop:
			return
		}
	}
}

// Poll checks the secret once and reloads when a newer version is present
func (vw *VaultWatcher) Poll() (bool, error) {
	secret, err := vw.source.GetSecretV2(vw.path)
	if err != nil {
		return false, fmt.Errorf("failed to read secret: %w", err)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if secret.Version <= vw.lastVersion {
		return false, nil
	}

	cert, _ := secret.Data["cert"].(string)
	key, _ := secret.Data["key"].(string)
	ca, _ := secret.Data["ca"].(string)
	if err := vw.certs.ReloadContent(cert, key, ca); err != nil {
		return false, err
	}
	vw.lastVersion = secret.Version
	vw.logger.Info("TLS certificates reloaded from Vault", "version", secret.Version)
	return true, nil
}

// Status returns watcher state for the health endpoint
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	return map[string]any{
		"secret_path":   vw.path,
		"poll_interval": vw.interval.String(),
		"last_version":  vw.lastVersion,
	}
}
