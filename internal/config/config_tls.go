package config

import "fmt"

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

// certSource is one PEM input that may come from a file or from inline content
type certSource struct {
	name    string
	file    string
	content string
}

func (s certSource) present() bool { return s.file != "" || s.content != "" }

func (s certSource) ambiguous() error {
	if s.file != "" && s.content != "" {
		return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", s.name, s.name)
	}
	return nil
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	return validateTLS(c.Server.TLS)
}

func validateTLS(tls TLSConfig) error {
	cert := certSource{name: "cert", file: tls.CertFile, content: tls.CertContent}
	key := certSource{name: "key", file: tls.KeyFile, content: tls.KeyContent}
	ca := certSource{name: "ca", file: tls.CAFile, content: tls.CAContent}

	var sources []certSource
	switch tls.Mode {
	case TLSModeDisabled:
		return nil
	case TLSModeServer:
		sources = []certSource{cert, key}
	case TLSModeMutual:
		sources = []certSource{cert, key, ca}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	if !cert.present() || !key.present() {
		return fmt.Errorf("TLS certificate and key are required for %s mode (provide either files or content)", tls.Mode)
	}
	if tls.Mode == TLSModeMutual && !ca.present() {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	for _, s := range sources {
		if err := s.ambiguous(); err != nil {
			return err
		}
	}

	if tls.Mode == TLSModeMutual {
		switch tls.ClientAuthPolicy {
		case "", "require", "request", "verify":
		default:
			return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
		}
	}

	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}
