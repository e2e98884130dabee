package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"resumeinsight/internal/config"
)

const defaultShutdownTimeout = 30 * time.Second

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(s.cfg.Host, s.cfg.Port),
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	if err := s.configureTLS(httpServer); err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.LogError(err, "Failed to release server resources")
		}
	}()

	s.displayServerInfo(httpServer.Addr)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server",
			"address", httpServer.Addr,
			"tls_enabled", httpServer.TLSConfig != nil)

		var err error
		if httpServer.TLSConfig != nil {
			// certificates come from TLSConfig, not from files
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutdown requested, starting graceful shutdown")
		return s.shutdown(httpServer)
	}
}

func (s *Server) shutdown(httpServer *http.Server) error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		s.logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return httpServer.Close()
	}
	s.logger.Info("Server shutdown completed successfully")
	return nil
}

// configureTLS installs the certificate manager and its watchers for TLS modes
func (s *Server) configureTLS(httpServer *http.Server) error {
	tlsCfg := s.cfg.TLS
	switch tlsCfg.Mode {
	case config.TLSModeDisabled, "":
		return nil
	case config.TLSModeServer, config.TLSModeMutual:
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tlsCfg.Mode)
	}

	certs, err := NewCertificateManager(tlsCfg, s.logger, func(success bool) {
		s.metrics.RecordCertReload(context.Background(), success)
	})
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	s.certs = certs
	httpServer.TLSConfig = certs.TLSConfig()

	if !tlsCfg.Reload.Enabled {
		return nil
	}
	if err := certs.Watch(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	if s.secrets != nil && s.vaultTLS != "" && tlsCfg.Reload.VaultPollInterval > 0 {
		var version int64
		if secret, err := s.secrets.GetSecretV2(s.vaultTLS); err == nil {
			version = secret.Version
		}
		s.vault = NewVaultWatcher(s.secrets, s.vaultTLS, tlsCfg.Reload.VaultPollInterval, certs, version, s.logger)
		s.vault.Start()
	}
	return nil
}
