package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

func (c *Config) applyFallbacks() {
	c.Server.APIKeys = normalizeList(c.Server.APIKeys)
	if len(c.Server.APIKeys) == 0 {
		c.Server.APIKeys = splitList(os.Getenv(EnvPrefix + "_SERVER_APIKEYS"))
	}
	c.Analysis.Taxonomy.Primary = normalizeList(c.Analysis.Taxonomy.Primary)
	c.Analysis.Taxonomy.Secondary = normalizeList(c.Analysis.Taxonomy.Secondary)

	if c.Analysis.Clarity.APIKey == "" {
		c.Analysis.Clarity.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if c.Server.TLS.Mode == TLSModeMutual && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != TLSModeDisabled {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = serviceInstanceID(c.Observability.ServiceName)
	}
}

// normalizeList flattens comma-separated entries, as delivered by environment variables,
// and trims every value
func normalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, splitList(v)...)
	}
	return out
}

// splitList splits a comma-separated value, dropping blank entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func serviceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_SERVER_HOST",
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_SERVER_APIKEYS",
		EnvPrefix + "_ANALYSIS_CLARITY_PROVIDER",
		EnvPrefix + "_ANALYSIS_CLARITY_APIKEY",
		EnvPrefix + "_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG]   %s=%s", envVar, value)
	}

	apiKeyState := "***NOT SET***"
	if c.Analysis.Clarity.APIKey != "" {
		apiKeyState = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] Clarity Provider: %s (API key %s)", c.Analysis.Clarity.Provider, apiKeyState)
	log.Printf("[CONFIG] Taxonomy: %d primary, %d secondary (empty means built-in)",
		len(c.Analysis.Taxonomy.Primary), len(c.Analysis.Taxonomy.Secondary))
	log.Printf("[CONFIG] Server: %s:%s (TLS %s, %d API keys)",
		c.Server.Host, c.Server.Port, c.Server.TLS.Mode, len(c.Server.APIKeys))
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
}
