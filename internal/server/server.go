package server

import (
	"context"
	"time"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/clarity"
	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"
	"resumeinsight/internal/extract"
	"resumeinsight/internal/observability"
	"resumeinsight/internal/scoring"

	"github.com/go-playground/validator/v10"
)

// multipart framing allowance on top of the file size limit
const uploadOverhead = 1 << 20

// Deps are the collaborators the HTTP layer serves
type Deps struct {
	Engine        *analysis.Engine
	Scorer        *scoring.Scorer
	Clarity       clarity.Scorer
	Extractor     extract.Extractor
	Observability *observability.Manager

	// Secrets, when set, is polled for rotated TLS certificates
	Secrets SecretSource
}

// Server exposes the analysis engine over HTTP
type Server struct {
	cfg         config.ServerConfig
	version     string
	maxFileSize int64

	engine    *analysis.Engine
	scorer    *scoring.Scorer
	clarity   clarity.Scorer
	extractor extract.Extractor
	obs       *observability.Manager
	metrics   *observability.Metrics

	secrets  SecretSource
	vaultTLS string

	apiKeys  map[string]bool
	limiter  *RateLimiter
	certs    *CertificateManager
	vault    *VaultWatcher
	validate *validator.Validate
	logger   *errors.Logger
	started  time.Time
}

// New creates a server from the application config. Missing dependencies are
// replaced with defaults built from cfg.
func New(cfg *config.Config, deps Deps, version string, logger *errors.Logger) (*Server, error) {
	if deps.Engine == nil {
		taxonomy, err := cfg.BuildTaxonomy()
		if err != nil {
			return nil, err
		}
		deps.Engine = analysis.NewEngine(taxonomy, analysis.WithKeywordLimit(cfg.Analysis.KeywordLimit))
	}
	if deps.Clarity == nil {
		deps.Clarity = clarity.Static{Value: cfg.Analysis.Clarity.StaticScore}
	}
	if deps.Scorer == nil {
		deps.Scorer = scoring.NewScorer(deps.Clarity)
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.NewRegistry()
	}
	if deps.Observability == nil {
		om, err := observability.NewManager(context.Background(), config.ObservabilityConfig{}, version)
		if err != nil {
			return nil, err
		}
		deps.Observability = om
	}

	apiKeys := make(map[string]bool, len(cfg.Server.APIKeys))
	for _, key := range cfg.Server.APIKeys {
		if key != "" {
			apiKeys[key] = true
		}
	}

	var limiter *RateLimiter
	if cfg.Server.RateLimit.Enabled {
		limiter = NewRateLimiter(cfg.Server.RateLimit.RequestsPerMin, cfg.Server.RateLimit.BurstCapacity,
			cfg.Server.RateLimit.CleanupInterval, logger)
	}

	return &Server{
		cfg:         cfg.Server,
		version:     version,
		maxFileSize: cfg.App.MaxFileSize,
		engine:      deps.Engine,
		scorer:      deps.Scorer,
		clarity:     deps.Clarity,
		extractor:   deps.Extractor,
		obs:         deps.Observability,
		secrets:     deps.Secrets,
		vaultTLS:    cfg.Vault.Secrets.TLSCerts,
		metrics:     deps.Observability.Metrics(),
		apiKeys:     apiKeys,
		limiter:     limiter,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		started:     time.Now(),
	}, nil
}

// maxRequestSize bounds every request body
func (s *Server) maxRequestSize() int64 {
	if s.maxFileSize <= 0 {
		return 0
	}
	return s.maxFileSize + uploadOverhead
}

// Close releases background resources
func (s *Server) Close() error {
	if s.vault != nil {
		s.vault.Stop()
	}
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.certs != nil {
		return s.certs.Stop()
	}
	return nil
}
