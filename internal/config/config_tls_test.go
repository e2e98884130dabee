package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTLS(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError string
	}{
		{
			name: "disabled mode ignores everything else",
			tls:  TLSConfig{Mode: TLSModeDisabled, MinVersion: "0.9"},
		},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: TLSModeServer, CertFile: "cert.pem", KeyFile: "key.pem"},
		},
		{
			name: "server mode with content",
			tls:  TLSConfig{Mode: TLSModeServer, CertContent: "cert", KeyContent: "key", MinVersion: "1.3"},
		},
		{
			name: "server mode mixed sources",
			tls:  TLSConfig{Mode: TLSModeServer, CertFile: "cert.pem", KeyContent: "key"},
		},
		{
			name:        "server mode missing key",
			tls:         TLSConfig{Mode: TLSModeServer, CertFile: "cert.pem"},
			expectError: "TLS certificate and key are required for server mode",
		},
		{
			name:        "duplicate cert sources",
			tls:         TLSConfig{Mode: TLSModeServer, CertFile: "cert.pem", CertContent: "cert", KeyFile: "key.pem"},
			expectError: "cannot specify both certFile and certContent",
		},
		{
			name:        "duplicate key sources",
			tls:         TLSConfig{Mode: TLSModeServer, CertFile: "cert.pem", KeyFile: "key.pem", KeyContent: "key"},
			expectError: "cannot specify both keyFile and keyContent",
		},
		{
			name: "mutual mode valid",
			tls:  TLSConfig{Mode: TLSModeMutual, CertFile: "c", KeyFile: "k", CAFile: "ca", ClientAuthPolicy: "verify"},
		},
		{
			name:        "mutual mode missing CA",
			tls:         TLSConfig{Mode: TLSModeMutual, CertFile: "c", KeyFile: "k"},
			expectError: "CA certificate is required for mutual TLS mode",
		},
		{
			name:        "mutual mode duplicate CA",
			tls:         TLSConfig{Mode: TLSModeMutual, CertFile: "c", KeyFile: "k", CAFile: "ca", CAContent: "ca"},
			expectError: "cannot specify both caFile and caContent",
		},
		{
			name:        "mutual mode invalid policy",
			tls:         TLSConfig{Mode: TLSModeMutual, CertFile: "c", KeyFile: "k", CAFile: "ca", ClientAuthPolicy: "optional"},
			expectError: "invalid clientAuthPolicy: optional",
		},
		{
			name:        "invalid mode",
			tls:         TLSConfig{Mode: "strict"},
			expectError: "invalid TLS mode: strict",
		},
		{
			name:        "invalid version",
			tls:         TLSConfig{Mode: TLSModeServer, CertFile: "c", KeyFile: "k", MinVersion: "1.1"},
			expectError: "invalid TLS minVersion: 1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLS(tt.tls)
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.expectError)
			}
		})
	}
}
