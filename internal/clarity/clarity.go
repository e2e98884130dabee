package clarity

import (
	"context"
	"fmt"

	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"
)

// DefaultScore is the clarity score reported when no provider is configured
const DefaultScore = 85

// Scorer rates how clearly a document is written, from 0 to 100
type Scorer interface {
	Score(ctx context.Context, text string) (int, error)
}

// Static returns the same score for every document
type Static struct {
	Value int
}

// Score implements Scorer
func (s Static) Score(context.Context, string) (int, error) {
	return clamp(s.Value), nil
}

// Fallback scores with Primary and falls back to Secondary when Primary fails.
// OnFallback, if set, is called with the primary error before falling back.
type Fallback struct {
	Primary    Scorer
	Secondary  Scorer
	Logger     *errors.Logger
	OnFallback func(ctx context.Context, err error)
}

// Score implements Scorer
func (f *Fallback) Score(ctx context.Context, text string) (int, error) {
	score, err := f.Primary.Score(ctx, text)
	if err == nil {
		return score, nil
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	if f.Logger != nil {
		f.Logger.Warn("Clarity provider failed, using fallback score", "error", err.Error())
	}
	if f.OnFallback != nil {
		f.OnFallback(ctx, err)
	}
	return f.Secondary.Score(ctx, text)
}

// New builds the scorer selected by cfg. Provider-backed scorers are wrapped in a
// Fallback to the static score, so scoring keeps working while the provider is down.
func New(ctx context.Context, cfg config.ClarityConfig, logger *errors.Logger, onFallback func(context.Context, error)) (Scorer, error) {
	static := Static{Value: cfg.StaticScore}

	logger.Debug("Initializing clarity scorer",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	switch cfg.Provider {
	case config.ClarityProviderStatic, "":
		return static, nil
	case config.ClarityProviderGemini:
		gemini, err := NewGeminiScorer(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Fallback{
			Primary:    gemini,
			Secondary:  static,
			Logger:     logger,
			OnFallback: onFallback,
		}, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported clarity provider: %s", cfg.Provider), nil)
	}
}

func clamp(score int) int {
	return min(max(score, 0), 100)
}

// Status describes a scorer for health endpoints. The scorer is healthy unless a
// provider circuit breaker is open.
func Status(s Scorer) map[string]any {
	switch v := s.(type) {
	case Static:
		return map[string]any{"provider": config.ClarityProviderStatic, "score": clamp(v.Value), "healthy": true}
	case *Fallback:
		primary, secondary := Status(v.Primary), Status(v.Secondary)
		return map[string]any{
			"provider": primary["provider"],
			"healthy":  true,
			"primary":  primary,
			"fallback": secondary,
		}
	case *GeminiScorer:
		return map[string]any{
			"provider":        config.ClarityProviderGemini,
			"model":           v.cfg.Model,
			"healthy":         v.breaker.IsHealthy(),
			"circuit_breaker": v.CircuitBreakerStats(),
		}
	default:
		return map[string]any{"provider": fmt.Sprintf("%T", s), "healthy": true}
	}
}
