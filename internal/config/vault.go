package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"resumeinsight/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds the KVv2 paths secrets are read from
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`   // "keys": comma-separated server API keys
	GeminiKey string `mapstructure:"geminiKey"` // "api_key": clarity provider key
	TLSCerts  string `mapstructure:"tlsCerts"`  // "cert", "key", "ca": PEM content
}

// secretReader is the subset of the Vault logical API used here
type secretReader interface {
	Read(path string) (*api.Secret, error)
}

// VaultClient reads KVv2 secrets from Vault
type VaultClient struct {
	reader secretReader
	logger *errors.Logger
}

// VaultSecret represents a secret read from Vault's KVv2 engine
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// NewVaultClient connects to Vault. It returns nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	logger.Info("Connected to Vault",
		"address", apiCfg.Address,
		"version", health.Version,
		"sealed", health.Sealed)

	return &VaultClient{reader: client.Logical(), logger: logger}, nil
}

func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// GetSecretV2 reads a KVv2 secret and its version
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	rawVersion, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(rawVersion, path)
	if err != nil {
		return nil, err
	}

	vc.logger.Debug("Secret read from Vault", "path", path, "version", version)
	return &VaultSecret{Data: data, Version: version}, nil
}

func parseVersionValue(raw any, path string) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, raw)
	}
}

// GetStringSecret reads one string field of a secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}
	return s, nil
}

// GetStringSliceSecret reads a comma-separated string field as a slice
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitList(value), nil
}

// ApplyVaultSecrets loads the configured secrets from Vault into config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client")
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(client, config, logger)
}

func applySecrets(client *VaultClient, config *Config, logger *errors.Logger) error {
	paths := config.Vault.Secrets

	if paths.APIKeys != "" {
		keys, err := client.GetStringSliceSecret(paths.APIKeys, "keys")
		if err != nil {
			return fmt.Errorf("failed to load API keys from vault: %w", err)
		}
		if len(keys) > 0 {
			config.Server.APIKeys = keys
		}
		logger.Info("API keys loaded from Vault", "count", len(keys))
	}

	if paths.GeminiKey != "" {
		key, err := client.GetStringSecret(paths.GeminiKey, "api_key")
		if err != nil {
			return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
		}
		if key != "" {
			config.Analysis.Clarity.APIKey = key
			logger.Info("Clarity provider API key loaded from Vault")
		}
	}

	if paths.TLSCerts != "" {
		secret, err := client.GetSecretV2(paths.TLSCerts)
		if err != nil {
			return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
		}
		loaded := applyTLSContent(&config.Server.TLS, secret)
		logger.Info("TLS certificates loaded from Vault", "certificates_loaded", loaded)
	}

	return nil
}

// applyTLSContent copies PEM content from a secret into the TLS config and returns
// how many fields were set. Content replaces any configured file path.
func applyTLSContent(tls *TLSConfig, secret *VaultSecret) int {
	fields := []struct {
		key     string
		content *string
		file    *string
	}{
		{"cert", &tls.CertContent, &tls.CertFile},
		{"key", &tls.KeyContent, &tls.KeyFile},
		{"ca", &tls.CAContent, &tls.CAFile},
	}

	loaded := 0
	for _, f := range fields {
		if pem, ok := secret.Data[f.key].(string); ok && pem != "" {
			*f.content = pem
			*f.file = ""
			loaded++
		}
	}
	return loaded
}
