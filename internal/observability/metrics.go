package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricResumesAnalyzed    = "resumeinsight_resumes_analyzed_total"
	MetricResumesScored      = "resumeinsight_resumes_scored_total"
	MetricUploadRejections   = "resumeinsight_upload_rejections_total"
	MetricExtractionFailures = "resumeinsight_extraction_failures_total"
	MetricAnalysisDuration   = "resumeinsight_analysis_duration_seconds"
	MetricTotalScore         = "resumeinsight_total_score"
	MetricRateLimitHits      = "resumeinsight_rate_limit_hits_total"
	MetricClarityFallbacks   = "resumeinsight_clarity_fallbacks_total"
	MetricCertReloads        = "resumeinsight_cert_reloads_total"
)

// Metrics holds the business instruments. A nil *Metrics records nothing.
type Metrics struct {
	resumesAnalyzed    metric.Int64Counter
	resumesScored      metric.Int64Counter
	uploadRejections   metric.Int64Counter
	extractionFailures metric.Int64Counter
	analysisDuration   metric.Float64Histogram
	totalScore         metric.Int64Histogram
	rateLimitHits      metric.Int64Counter
	clarityFallbacks   metric.Int64Counter
	certReloads        metric.Int64Counter
}

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.resumesAnalyzed, MetricResumesAnalyzed, "Resumes analyzed, by source"},
		{&m.resumesScored, MetricResumesScored, "Resumes scored against a job description"},
		{&m.uploadRejections, MetricUploadRejections, "Uploads rejected before analysis"},
		{&m.extractionFailures, MetricExtractionFailures, "Documents whose text could not be extracted"},
		{&m.rateLimitHits, MetricRateLimitHits, "Requests rejected by the rate limiter"},
		{&m.clarityFallbacks, MetricClarityFallbacks, "Clarity provider failures answered with the static score"},
		{&m.certReloads, MetricCertReloads, "TLS certificate reloads"},
	}

	var err error
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.name, err)
		}
	}

	m.analysisDuration, err = meter.Float64Histogram(MetricAnalysisDuration,
		metric.WithDescription("Time spent extracting and analyzing a resume"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", MetricAnalysisDuration, err)
	}

	m.totalScore, err = meter.Int64Histogram(MetricTotalScore,
		metric.WithDescription("Distribution of composite resume scores"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s metric: %w", MetricTotalScore, err)
	}

	return m, nil
}

// RecordAnalysis counts one analyzed resume and its duration
func (m *Metrics) RecordAnalysis(ctx context.Context, source string, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("success", success),
	)
	m.resumesAnalyzed.Add(ctx, 1, attrs)
	m.analysisDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordScore counts one scoring request and records its total
func (m *Metrics) RecordScore(ctx context.Context, total int) {
	if m == nil {
		return
	}
	m.resumesScored.Add(ctx, 1)
	m.totalScore.Record(ctx, int64(total))
}

// RecordUploadRejected counts an upload refused before analysis
func (m *Metrics) RecordUploadRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.uploadRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordExtractionFailure counts a document whose text could not be read
func (m *Metrics) RecordExtractionFailure(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.extractionFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordRateLimitHit counts a request rejected by the limiter
func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	if m == nil {
		return
	}
	m.rateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
}

// RecordClarityFallback counts a clarity provider failure
func (m *Metrics) RecordClarityFallback(ctx context.Context, _ error) {
	if m == nil {
		return
	}
	m.clarityFallbacks.Add(ctx, 1)
}

// RecordCertReload counts a TLS certificate reload attempt
func (m *Metrics) RecordCertReload(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.certReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
