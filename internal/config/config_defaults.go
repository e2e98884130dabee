package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 5*1024*1024) // 5MB
	v.SetDefault("app.batchConcurrency", 4)

	// Empty tiers select the built-in taxonomy
	v.SetDefault("analysis.taxonomy.primary", []string{})
	v.SetDefault("analysis.taxonomy.secondary", []string{})
	v.SetDefault("analysis.keywordLimit", 10)

	v.SetDefault("analysis.clarity.provider", "static")
	v.SetDefault("analysis.clarity.staticScore", 85)
	v.SetDefault("analysis.clarity.model", "gemini-2.0-flash")
	v.SetDefault("analysis.clarity.apiKey", "")
	v.SetDefault("analysis.clarity.timeout", 20*time.Second)
	v.SetDefault("analysis.clarity.maxRetries", 2)
	v.SetDefault("analysis.clarity.temperature", 0.1)
	v.SetDefault("analysis.clarity.circuitBreaker.enabled", true)
	v.SetDefault("analysis.clarity.circuitBreaker.maxRequests", 3)
	v.SetDefault("analysis.clarity.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("analysis.clarity.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("analysis.clarity.circuitBreaker.minRequests", 3)
	v.SetDefault("analysis.clarity.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.shutdownTimeout", 30*time.Second)
	v.SetDefault("server.apiKeys", []string{})

	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.tls.reload.enabled", true)
	v.SetDefault("server.tls.reload.debounceDelay", time.Second)
	v.SetDefault("server.tls.reload.vaultPollInterval", 5*time.Minute)

	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.cleanupInterval", 5*time.Minute)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeinsight")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
