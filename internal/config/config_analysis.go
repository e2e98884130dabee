package config

import (
	"fmt"
	"time"

	"resumeinsight/internal/analysis"
)

// Clarity providers
const (
	ClarityProviderStatic = "static"
	ClarityProviderGemini = "gemini"
)

// AnalysisConfig holds the analysis engine configuration
type AnalysisConfig struct {
	Taxonomy     TaxonomyConfig `mapstructure:"taxonomy"`
	KeywordLimit int            `mapstructure:"keywordLimit"`
	Clarity      ClarityConfig  `mapstructure:"clarity"`
}

// TaxonomyConfig overrides the built-in skill taxonomy when Primary is non-empty
type TaxonomyConfig struct {
	Primary   []string `mapstructure:"primary"`
	Secondary []string `mapstructure:"secondary"`
}

// ClarityConfig selects and configures the clarity scorer
type ClarityConfig struct {
	Provider       string               `mapstructure:"provider"`
	StaticScore    int                  `mapstructure:"staticScore"`
	Model          string               `mapstructure:"model"`
	APIKey         string               `mapstructure:"apiKey"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // closed-state count reset
	Timeout          time.Duration `mapstructure:"timeout"`          // open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // before tripping is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// BuildTaxonomy returns the configured taxonomy, or the built-in one when none is configured
func (c *Config) BuildTaxonomy() (*analysis.Taxonomy, error) {
	t := c.Analysis.Taxonomy
	if len(t.Primary) == 0 {
		if len(t.Secondary) > 0 {
			return nil, fmt.Errorf("secondary skills configured without primary skills")
		}
		return analysis.DefaultTaxonomy(), nil
	}
	return analysis.NewTaxonomy(t.Primary, t.Secondary)
}

// ValidateAnalysisConfig checks the taxonomy and clarity settings
func (c *Config) ValidateAnalysisConfig() error {
	if _, err := c.BuildTaxonomy(); err != nil {
		return err
	}
	if c.Analysis.KeywordLimit <= 0 {
		return fmt.Errorf("keyword limit must be positive")
	}

	clarity := c.Analysis.Clarity
	if clarity.StaticScore < 0 || clarity.StaticScore > 100 {
		return fmt.Errorf("clarity static score must be between 0 and 100, got %d", clarity.StaticScore)
	}

	switch clarity.Provider {
	case ClarityProviderStatic:
		return nil
	case ClarityProviderGemini:
		if clarity.APIKey == "" && !(c.Vault.Enabled && c.Vault.Secrets.GeminiKey != "") {
			return fmt.Errorf("clarity provider %q requires an API key (set %s_ANALYSIS_CLARITY_APIKEY)", clarity.Provider, EnvPrefix)
		}
		if clarity.Model == "" {
			return fmt.Errorf("clarity provider %q requires a model", clarity.Provider)
		}
		if clarity.Timeout <= 0 {
			return fmt.Errorf("clarity timeout must be positive")
		}
		if clarity.MaxRetries < 0 {
			return fmt.Errorf("clarity max retries cannot be negative")
		}
		return nil
	default:
		return fmt.Errorf("unsupported clarity provider: %s (must be '%s' or '%s')",
			clarity.Provider, ClarityProviderStatic, ClarityProviderGemini)
	}
}
