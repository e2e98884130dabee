package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"

	"github.com/fsnotify/fsnotify"
)

const (
	certCriticalThreshold = 24 * time.Hour
	certWarningThreshold  = 7 * 24 * time.Hour
)

// CertificateManager holds the live TLS material and reloads it when the
// certificate files change on disk
type CertificateManager struct {
	mu         sync.RWMutex
	cfg        config.TLSConfig
	serverCert *tls.Certificate
	caPool     *x509.CertPool
	expiry     time.Time

	reloads    int64
	failures   int64
	lastReload time.Time
	lastError  string

	watcher  *fsnotify.Watcher
	watching bool
	debounce time.Duration
	timer    *time.Timer
	trigger  chan struct{}
	stop     chan struct{}
	done     chan struct{}

	onReload func(success bool)
	logger   *errors.Logger
}

// NewCertificateManager loads the certificates described by cfg. onReload, if set,
// is called after every reload attempt triggered by the file watcher.
func NewCertificateManager(cfg config.TLSConfig, logger *errors.Logger, onReload func(success bool)) (*CertificateManager, error) {
	debounce := cfg.Reload.DebounceDelay
	if debounce <= 0 {
		debounce = time.Second
	}
	cm := &CertificateManager{
		cfg:      cfg,
		debounce: debounce,
		trigger:  make(chan struct{}, 1),
		onReload: onReload,
		logger:   logger,
	}
	if err := cm.Reload(); err != nil {
		return nil, err
	}
	return cm, nil
}

// Reload reads the certificate, key and CA again and swaps them in atomically.
// The previous material stays active when loading fails.
func (cm *CertificateManager) Reload() error {
	cm.mu.RLock()
	cfg := cm.cfg
	cm.mu.RUnlock()

	cert, expiry, caPool, err := loadTLSMaterial(cfg)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.lastReload = time.Now()
	if err != nil {
		cm.failures++
		cm.lastError = err.Error()
		return err
	}
	cm.reloads++
	cm.lastError = ""
	cm.serverCert = &cert
	cm.caPool = caPool
	cm.expiry = expiry
	return nil
}

// ReloadContent replaces the PEM sources with inline content and reloads. An empty
// ca keeps the current CA source.
func (cm *CertificateManager) ReloadContent(cert, key, ca string) error {
	if cert == "" || key == "" {
		return fmt.Errorf("certificate and key content are required")
	}

	cm.mu.Lock()
	next := cm.cfg
	cm.mu.Unlock()

	next.CertContent, next.KeyContent = cert, key
	next.CertFile, next.KeyFile = "", ""
	if ca != "" {
		next.CAContent, next.CAFile = ca, ""
	}
	if _, _, _, err := loadTLSMaterial(next); err != nil {
		cm.mu.Lock()
		cm.failures++
		cm.lastError = err.Error()
		cm.mu.Unlock()
		return err
	}

	cm.mu.Lock()
	cm.cfg = next
	cm.mu.Unlock()
	return cm.Reload()
}

func loadTLSMaterial(cfg config.TLSConfig) (tls.Certificate, time.Time, *x509.CertPool, error) {
	var (
		cert tls.Certificate
		err  error
	)
	if cfg.CertContent != "" && cfg.KeyContent != "" {
		cert, err = tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
	} else {
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	}
	if err != nil {
		return tls.Certificate{}, time.Time{}, nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return tls.Certificate{}, time.Time{}, nil, fmt.Errorf("failed to parse server certificate: %w", err)
	}

	if cfg.Mode != config.TLSModeMutual {
		return cert, leaf.NotAfter, nil, nil
	}

	caPEM := []byte(cfg.CAContent)
	if len(caPEM) == 0 {
		if caPEM, err = os.ReadFile(cfg.CAFile); err != nil {
			return tls.Certificate{}, time.Time{}, nil, fmt.Errorf("failed to read CA file: %w", err)
		}
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return tls.Certificate{}, time.Time{}, nil, fmt.Errorf("failed to parse CA certificate")
	}
	return cert, leaf.NotAfter, pool, nil
}

// TLSConfig returns a server TLS config that always serves the current material
func (cm *CertificateManager) TLSConfig() *tls.Config {
	minVersion := uint16(tls.VersionTLS12)
	if cm.cfg.MinVersion == "1.3" {
		minVersion = tls.VersionTLS13
	}

	return &tls.Config{
		MinVersion: minVersion,
		GetConfigForClient: func(*tls.ClientHelloInfo) (*tls.Config, error) {
			cm.mu.RLock()
			defer cm.mu.RUnlock()

			conf := &tls.Config{
				MinVersion:   minVersion,
				Certificates: []tls.Certificate{*cm.serverCert},
				ClientAuth:   tls.NoClientCert,
			}
			if cm.cfg.Mode == config.TLSModeMutual {
				conf.ClientCAs = cm.caPool
				conf.ClientAuth = clientAuthPolicy(cm.cfg.ClientAuthPolicy)
			}
			return conf, nil
		},
	}
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}

// watchedFiles lists the certificate files backing the config. PEM content from
// Vault has no file and is not watched.
func (cm *CertificateManager) watchedFiles() []string {
	var files []string
	for _, f := range []string{cm.cfg.CertFile, cm.cfg.KeyFile, cm.cfg.CAFile} {
		if f != "" {
			files = append(files, filepath.Clean(f))
		}
	}
	return files
}

// Watch starts reloading on file changes. Parent directories are watched so that
// atomic replace-by-rename updates are seen.
func (cm *CertificateManager) Watch() error {
	files := cm.watchedFiles()
	if len(files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	var dirs []string
	for _, f := range files {
		if dir := filepath.Dir(f); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	cm.watcher = watcher
	cm.mu.Lock()
	cm.watching = true
	cm.mu.Unlock()
	cm.stop = make(chan struct{})
	cm.done = make(chan struct{})
	go cm.watchLoop(files)

	cm.logger.Info("Certificate file watcher started", "files", files, "debounce", cm.debounce)
	return nil
}

func (cm *CertificateManager) watchLoop(files []string) {
	defer close(cm.done)

	for {
		select {
		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 &&
				slices.Contains(files, filepath.Clean(event.Name)) {
				cm.scheduleReload()
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cm.logger.LogError(err, "Certificate watcher error")

		case <-cm.trigger:
			err := cm.Reload()
			if err != nil {
				cm.logger.LogError(err, "Failed to reload TLS certificates")
			} else {
				cm.logger.Info("TLS certificates reloaded", "expiry", cm.Expiry())
			}
			if cm.onReload != nil {
				cm.onReload(err == nil)
			}

		case <-cm.stop:
			return
		}
	}
}

// scheduleReload coalesces bursts of file events into one reload
func (cm *CertificateManager) scheduleReload() {
	if cm.timer != nil {
		cm.timer.Stop()
	}
	cm.timer = time.AfterFunc(cm.debounce, func() {
		select {
		case cm.trigger <- struct{}{}:
		default:
		}
	})
}

// Stop ends file watching
func (cm *CertificateManager) Stop() error {
	if cm.watcher == nil {
		return nil
	}
	close(cm.stop)
	<-cm.done
	if cm.timer != nil {
		cm.timer.Stop()
	}
	err := cm.watcher.Close()
	cm.watcher = nil
	cm.mu.Lock()
	cm.watching = false
	cm.mu.Unlock()
	return err
}

// Expiry returns the NotAfter time of the active server certificate
func (cm *CertificateManager) Expiry() time.Time {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.expiry
}

// Status reports certificate health for the health endpoint
func (cm *CertificateManager) Status() map[string]any {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	remaining := time.Until(cm.expiry)
	status := map[string]any{
		"expires_at":           cm.expiry,
		"time_to_expiry_hours": int(remaining.Hours()),
		"reload_count":         cm.reloads,
		"reload_failures":      cm.failures,
		"last_reload_time":     cm.lastReload,
		"watching":             cm.watching,
	}
	if cm.lastError != "" {
		status["last_reload_error"] = cm.lastError
	}

	switch {
	case remaining <= 0:
		status["healthy"], status["status"] = false, "expired"
	case remaining <= certCriticalThreshold:
		status["healthy"], status["status"] = false, "critical"
	case remaining <= certWarningThreshold:
		status["healthy"], status["status"] = true, "warning"
	default:
		status["healthy"], status["status"] = true, "ok"
	}
	return status
}
