package clarity

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	maxPromptChars = 30000
	maxBackoff     = 30 * time.Second
)

const clarityPrompt = `Rate the writing clarity of the following resume on a scale from 0 to 100.
Consider grammar, spelling, sentence structure and how easy it is to scan.
Respond only with JSON of the form {"clarityScore": <integer>}.

Resume:
%s`

// contentGenerator is the part of the genai client used for scoring
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type clarityResponse struct {
	ClarityScore int `json:"clarityScore"`
}

// GeminiScorer asks a Gemini model for a clarity score
type GeminiScorer struct {
	models    contentGenerator
	cfg       config.ClarityConfig
	breaker   *CircuitBreaker[*genai.GenerateContentResponse]
	logger    *errors.Logger
	baseDelay time.Duration
}

var _ Scorer = (*GeminiScorer)(nil)

// NewGeminiScorer creates a Gemini-backed scorer
func NewGeminiScorer(ctx context.Context, cfg config.ClarityConfig, logger *errors.Logger) (*GeminiScorer, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, "Gemini clarity provider requires an API key", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}
	return newGeminiScorer(client.Models, cfg, logger), nil
}

func newGeminiScorer(models contentGenerator, cfg config.ClarityConfig, logger *errors.Logger) *GeminiScorer {
	return &GeminiScorer{
		models:    models,
		cfg:       cfg,
		breaker:   NewCircuitBreaker[*genai.GenerateContentResponse]("gemini", cfg.CircuitBreaker, logger),
		logger:    logger,
		baseDelay: time.Second,
	}
}

// Score implements Scorer
func (g *GeminiScorer) Score(ctx context.Context, text string) (int, error) {
	ctx, span := otel.Tracer("resumeinsight.clarity.gemini").Start(ctx, "gemini.clarity")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.cfg.Model),
		attribute.Int("document.length", len(text)),
	)

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	contents := genai.Text(fmt.Sprintf(clarityPrompt, text))
	temperature := g.cfg.Temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"clarityScore": {Type: genai.TypeInteger},
			},
			Required: []string{"clarityScore"},
		},
	}

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.models.GenerateContent(ctx, g.cfg.Model, contents, genCfg)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return 0, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to score clarity", err)
	}

	var out clarityResponse
	if err := json.Unmarshal([]byte(result.Text()), &out); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return 0, errors.NewAIError(errors.ErrCodeAIResponseInvalid, "Failed to parse clarity response", err)
	}

	score := clamp(out.ClarityScore)
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("clarity.score", score))
	return score, nil
}

// CircuitBreakerStats returns the provider breaker statistics
func (g *GeminiScorer) CircuitBreakerStats() map[string]any {
	return g.breaker.Stats()
}

func (g *GeminiScorer) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying clarity request",
				"attempt", attempt,
				"max_retries", g.cfg.MaxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("clarity request failed after %d retries: %w", g.cfg.MaxRetries, lastErr)
}

// backoff doubles the base delay per attempt and adds up to 10% jitter
func (g *GeminiScorer) backoff(attempt int) time.Duration {
	delay := g.baseDelay << (attempt - 1)
	if jitterMax := int64(delay / 10); jitterMax > 0 {
		if jitter, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			delay += time.Duration(jitter.Int64())
		}
	}
	return min(delay, maxBackoff)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
