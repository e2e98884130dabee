package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"resumeinsight/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretSource struct {
	mu     sync.Mutex
	secret *config.VaultSecret
	err    error
}

func (f *fakeSecretSource) GetSecretV2(string) (*config.VaultSecret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secret, f.err
}

func (f *fakeSecretSource) set(secret *config.VaultSecret, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secret, f.err = secret, err
}

func TestVaultWatcherPoll(t *testing.T) {
	cm, err := NewCertificateManager(writeCertFiles(t, t.TempDir(), 2*time.Hour), discardLogger(), nil)
	require.NoError(t, err)

	certPEM, keyPEM := selfSigned(t, 90*24*time.Hour)
	source := &fakeSecretSource{secret: &config.VaultSecret{
		Version: 1,
		Data:    map[string]any{"cert": certPEM, "key": keyPEM},
	}}
	vw := NewVaultWatcher(source, "secret/data/tls", time.Minute, cm, 1, discardLogger())

	reloaded, err := vw.Poll()
	require.NoError(t, err)
	assert.False(t, reloaded, "same version must not reload")
	assert.Equal(t, "critical", cm.Status()["status"])

	source.set(&config.VaultSecret{Version: 2, Data: map[string]any{"cert": certPEM, "key": keyPEM}}, nil)
	reloaded, err = vw.Poll()
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, "ok", cm.Status()["status"])
	assert.Equal(t, int64(2), vw.Status()["last_version"])

	source.set(&config.VaultSecret{Version: 3, Data: map[string]any{"cert": "bad"}}, nil)
	reloaded, err = vw.Poll()
	assert.Error(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, int64(2), vw.Status()["last_version"])

	source.set(nil, fmt.Errorf("vault sealed"))
	_, err = vw.Poll()
	assert.ErrorContains(t, err, "vault sealed")
}

func TestVaultWatcherStartStop(t *testing.T) {
	cm, err := NewCertificateManager(writeCertFiles(t, t.TempDir(), 2*time.Hour), discardLogger(), nil)
	require.NoError(t, err)

	certPEM, keyPEM := selfSigned(t, 90*24*time.Hour)
	source := &fakeSecretSource{secret: &config.VaultSecret{
		Version: 5,
		Data:    map[string]any{"cert": certPEM, "key": keyPEM},
	}}
	vw := NewVaultWatcher(source, "secret/data/tls", 10*time.Millisecond, cm, 0, discardLogger())
	vw.Start()

	require.Eventually(t, func() bool {
		return vw.Status()["last_version"] == int64(5)
	}, 2*time.Second, 10*time.Millisecond)

	vw.Stop()
	vw.Stop()
}
