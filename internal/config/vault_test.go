package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumeinsight/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader map[string]*api.Secret

func (f fakeReader) Read(path string) (*api.Secret, error) {
	secret, ok := f[path]
	if !ok {
		return nil, nil
	}
	if secret == nil {
		return nil, stderrors.New("permission denied")
	}
	return secret, nil
}

func kv2(version any, data map[string]any) *api.Secret {
	return &api.Secret{Data: map[string]any{
		"data":     data,
		"metadata": map[string]any{"version": version},
	}}
}

func newTestLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(os.Stderr, slog.LevelError)
}

func newFakeVault(reader fakeReader) *VaultClient {
	return &VaultClient{reader: reader, logger: newTestLogger()}
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64", input: int64(42), expected: 42},
		{name: "int", input: 7, expected: 7},
		{name: "float64", input: float64(3), expected: 3},
		{name: "string", input: "12", expected: 12},
		{name: "bad string", input: "twelve", expectError: true},
		{name: "unsupported type", input: true, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, version)
		})
	}
}

func TestGetSecretV2(t *testing.T) {
	vc := newFakeVault(fakeReader{
		"secret/data/ok":     kv2("3", map[string]any{"api_key": "abc"}),
		"secret/data/kv1":    {Data: map[string]any{"api_key": "abc"}},
		"secret/data/nometa": {Data: map[string]any{"data": map[string]any{}}},
		"secret/data/denied": nil,
	})

	secret, err := vc.GetSecretV2("secret/data/ok")
	require.NoError(t, err)
	assert.Equal(t, int64(3), secret.Version)
	assert.Equal(t, "abc", secret.Data["api_key"])

	_, err = vc.GetSecretV2("secret/data/missing")
	assert.ErrorContains(t, err, "secret not found")

	_, err = vc.GetSecretV2("secret/data/kv1")
	assert.ErrorContains(t, err, "missing 'data' field")

	_, err = vc.GetSecretV2("secret/data/nometa")
	assert.ErrorContains(t, err, "missing 'metadata' field")

	_, err = vc.GetSecretV2("secret/data/denied")
	assert.ErrorContains(t, err, "permission denied")

	var nilClient *VaultClient
	_, err = nilClient.GetSecretV2("secret/data/ok")
	assert.ErrorContains(t, err, "not initialized")
}

func TestGetStringSecrets(t *testing.T) {
	vc := newFakeVault(fakeReader{
		"secret/data/keys": kv2(1, map[string]any{"keys": "k1, k2,,k3", "count": 3}),
	})

	keys, err := vc.GetStringSliceSecret("secret/data/keys", "keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2", "k3"}, keys)

	_, err = vc.GetStringSecret("secret/data/keys", "count")
	assert.ErrorContains(t, err, "is not a string")

	_, err = vc.GetStringSecret("secret/data/keys", "absent")
	assert.ErrorContains(t, err, "not found in secret")
}

func TestApplySecrets(t *testing.T) {
	vc := newFakeVault(fakeReader{
		"secret/data/api":    kv2(1, map[string]any{"keys": "alpha,beta"}),
		"secret/data/gemini": kv2(2, map[string]any{"api_key": "gem-key"}),
		"secret/data/tls":    kv2(5, map[string]any{"cert": "CERT", "key": "KEY"}),
	})

	cfg := &Config{}
	cfg.Server.TLS.CertFile = "/etc/cert.pem"
	cfg.Vault.Secrets = VaultSecrets{
		APIKeys:   "secret/data/api",
		GeminiKey: "secret/data/gemini",
		TLSCerts:  "secret/data/tls",
	}

	require.NoError(t, applySecrets(vc, cfg, newTestLogger()))

	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, "gem-key", cfg.Analysis.Clarity.APIKey)
	assert.Equal(t, "CERT", cfg.Server.TLS.CertContent)
	assert.Empty(t, cfg.Server.TLS.CertFile)
	assert.Equal(t, "KEY", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CAContent)
}

func TestApplySecretsMissingPath(t *testing.T) {
	cfg := &Config{}
	cfg.Vault.Secrets.GeminiKey = "secret/data/none"

	err := applySecrets(newFakeVault(fakeReader{}), cfg, newTestLogger())
	assert.ErrorContains(t, err, "failed to load Gemini API key from vault")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
}

func TestResolveVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  s.file-token\n"), 0o600))

	token, err := resolveVaultToken(VaultConfig{Token: "s.inline", TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "s.inline", token)

	token, err = resolveVaultToken(VaultConfig{TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "s.file-token", token)

	_, err = resolveVaultToken(VaultConfig{TokenFile: filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "failed to read vault token file")

	_, err = resolveVaultToken(VaultConfig{})
	assert.ErrorContains(t, err, "vault token is required")
}
