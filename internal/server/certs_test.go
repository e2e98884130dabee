package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selfSigned returns PEM encoded certificate and key valid for validFor
func selfSigned(t *testing.T, validFor time.Duration) (certPEM, keyPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "localhost"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

func writeCertFiles(t *testing.T, dir string, validFor time.Duration) config.TLSConfig {
	t.Helper()

	certPEM, keyPEM := selfSigned(t, validFor)
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, []byte(certPEM), 0600))
	require.NoError(t, os.WriteFile(keyFile, []byte(keyPEM), 0600))

	return config.TLSConfig{
		Mode:     config.TLSModeServer,
		CertFile: certFile,
		KeyFile:  keyFile,
		Reload:   config.ReloadConfig{Enabled: true, DebounceDelay: 20 * time.Millisecond},
	}
}

func discardLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
}

func TestCertificateManagerStatus(t *testing.T) {
	tests := []struct {
		name     string
		validFor time.Duration
		status   string
		healthy  bool
	}{
		{"ok", 90 * 24 * time.Hour, "ok", true},
		{"warning", 3 * 24 * time.Hour, "warning", true},
		{"critical", 2 * time.Hour, "critical", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewCertificateManager(writeCertFiles(t, t.TempDir(), tt.validFor), discardLogger(), nil)
			require.NoError(t, err)

			status := cm.Status()
			assert.Equal(t, tt.status, status["status"])
			assert.Equal(t, tt.healthy, status["healthy"])
			assert.Equal(t, int64(1), status["reload_count"])
		})
	}
}

func TestCertificateManagerRejectsMissingFiles(t *testing.T) {
	cfg := config.TLSConfig{
		Mode:     config.TLSModeServer,
		CertFile: filepath.Join(t.TempDir(), "missing.crt"),
		KeyFile:  filepath.Join(t.TempDir(), "missing.key"),
	}
	_, err := NewCertificateManager(cfg, discardLogger(), nil)
	assert.ErrorContains(t, err, "failed to load server cert/key")
}

func TestCertificateManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	cfg := writeCertFiles(t, dir, 2*time.Hour)

	var reloads atomic.Int32
	cm, err := NewCertificateManager(cfg, discardLogger(), func(success bool) {
		if success {
			reloads.Add(1)
		}
	})
	require.NoError(t, err)
	require.NoError(t, cm.Watch())
	t.Cleanup(func() { _ = cm.Stop() })

	before := cm.Expiry()
	writeCertFiles(t, dir, 90*24*time.Hour)

	require.Eventually(t, func() bool {
		return reloads.Load() > 0 && cm.Expiry().After(before)
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "ok", cm.Status()["status"])
	assert.Equal(t, true, cm.Status()["watching"])
}

func TestCertificateManagerReloadContent(t *testing.T) {
	cm, err := NewCertificateManager(writeCertFiles(t, t.TempDir(), 2*time.Hour), discardLogger(), nil)
	require.NoError(t, err)

	assert.Error(t, cm.ReloadContent("not a cert", "not a key", ""))
	assert.Equal(t, int64(1), cm.Status()["reload_failures"])
	assert.Equal(t, "critical", cm.Status()["status"])

	certPEM, keyPEM := selfSigned(t, 90*24*time.Hour)
	require.NoError(t, cm.ReloadContent(certPEM, keyPEM, ""))
	assert.Equal(t, "ok", cm.Status()["status"])
	assert.Empty(t, cm.watchedFiles())
}

func TestCertificateManagerTLSConfig(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, 24*time.Hour*30)
	cfg := config.TLSConfig{
		Mode:             config.TLSModeMutual,
		CertContent:      certPEM,
		KeyContent:       keyPEM,
		CAContent:        certPEM,
		MinVersion:       "1.3",
		ClientAuthPolicy: "verify",
	}
	cm, err := NewCertificateManager(cfg, discardLogger(), nil)
	require.NoError(t, err)

	tlsCfg := cm.TLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS13), tlsCfg.MinVersion)

	conf, err := tlsCfg.GetConfigForClient(&tls.ClientHelloInfo{})
	require.NoError(t, err)
	assert.Len(t, conf.Certificates, 1)
	assert.Equal(t, tls.VerifyClientCertIfGiven, conf.ClientAuth)
	assert.NotNil(t, conf.ClientCAs)
}

func TestClientAuthPolicy(t *testing.T) {
	assert.Equal(t, tls.RequireAndVerifyClientCert, clientAuthPolicy(""))
	assert.Equal(t, tls.RequireAndVerifyClientCert, clientAuthPolicy("require"))
	assert.Equal(t, tls.RequestClientCert, clientAuthPolicy("request"))
	assert.Equal(t, tls.VerifyClientCertIfGiven, clientAuthPolicy("verify"))
}
