package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment variable the application reads
const EnvPrefix = "RESUMEINSIGHT"

// Config holds all application configuration
// Secret precedence order:
// 1. Vault (if configured)
// 2. Config file values
// 3. Environment variables (RESUMEINSIGHT_ANALYSIS_CLARITY_APIKEY, etc.), including a local .env file
// 4. Default values
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	Server        ServerConfig        `mapstructure:"server"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	BatchConcurrency int      `mapstructure:"batchConcurrency"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// Valid API keys; authentication is disabled when empty
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // disabled, server, mutual
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`

	// PEM content, set when certificates come from Vault
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string `mapstructure:"minVersion"`       // 1.2, 1.3
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // require, request, verify

	Reload ReloadConfig `mapstructure:"reload"`
}

// ReloadConfig controls hot reloading of certificate files
type ReloadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`

	// How often the Vault TLS secret is polled for a new version; 0 disables polling
	VaultPollInterval time.Duration `mapstructure:"vaultPollInterval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RequestsPerMin  int           `mapstructure:"requestsPerMin"`
	BurstCapacity   int           `mapstructure:"burstCapacity"`
	ByIP            bool          `mapstructure:"byIP"`
	ByAPIKey        bool          `mapstructure:"byAPIKey"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
	Console         ConsoleConfig    `mapstructure:"console"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
	OTLP            OTLPConfig       `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		log.Printf("[CONFIG] Loaded environment from %s", path)
	}
	return nil
}

// LoadConfig loads configuration from defaults, the config file and the environment
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

// LoadConfigFile loads configuration from an explicit file path
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Printf("[CONFIG] Configured environment variable handling with prefix '%s'", EnvPrefix)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumeinsight/")
		v.AddConfigPath("$HOME/.resumeinsight")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	if c.App.BatchConcurrency <= 0 {
		return fmt.Errorf("batch concurrency must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateAnalysisConfig(); err != nil {
		return fmt.Errorf("analysis configuration error: %w", err)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}
