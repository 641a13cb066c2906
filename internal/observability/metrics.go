package observability

import (
	"context"
	"fmt"
	"time"

	"resumeqa/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for resumeqa. The zero value records
// nothing, so callers never need to check whether telemetry is enabled.
type Metrics struct {
	// Pipeline metrics
	ParseCount      metric.Int64Counter
	SimilarityScore metric.Float64Histogram

	// Question answering metrics
	QuestionDuration metric.Float64Histogram
	QuestionCount    metric.Int64Counter
	QuestionErrors   metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Storage metrics
	StorageFetches metric.Int64Counter
	StorageBytes   metric.Int64Histogram

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.ParseCount, err = meter.Int64Counter(
		"resumeqa_parses_total",
		metric.WithDescription("Total number of resume parses"),
	); err != nil {
		return nil, fmt.Errorf("failed to create parse count metric: %w", err)
	}

	if m.SimilarityScore, err = meter.Float64Histogram(
		"resumeqa_similarity_score",
		metric.WithDescription("Similarity scores between resumes and job descriptions"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 0.75, 1, 1.5, 2, 3),
	); err != nil {
		return nil, fmt.Errorf("failed to create similarity score metric: %w", err)
	}

	if m.QuestionDuration, err = meter.Float64Histogram(
		"resumeqa_qa_duration_seconds",
		metric.WithDescription("Time spent answering questions"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create QA duration metric: %w", err)
	}

	if m.QuestionCount, err = meter.Int64Counter(
		"resumeqa_qa_requests_total",
		metric.WithDescription("Total number of questions asked"),
	); err != nil {
		return nil, fmt.Errorf("failed to create QA request count metric: %w", err)
	}

	if m.QuestionErrors, err = meter.Int64Counter(
		"resumeqa_qa_errors_total",
		metric.WithDescription("Total number of failed questions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create QA error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumeqa_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (prompt, completion, total)"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.StorageFetches, err = meter.Int64Counter(
		"resumeqa_storage_fetches_total",
		metric.WithDescription("Total number of resume downloads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storage fetch metric: %w", err)
	}

	if m.StorageBytes, err = meter.Int64Histogram(
		"resumeqa_storage_fetch_bytes",
		metric.WithDescription("Size of downloaded resumes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storage bytes metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumeqa_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// RecordParse counts one parse, split by cache hit and outcome.
func (m *Metrics) RecordParse(ctx context.Context, cached bool, err error) {
	if m == nil || m.ParseCount == nil {
		return
	}
	m.ParseCount.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("cached", cached),
		attribute.Bool("success", err == nil),
	))
}

// RecordSimilarity records a similarity score.
func (m *Metrics) RecordSimilarity(ctx context.Context, score float64) {
	if m == nil || m.SimilarityScore == nil {
		return
	}
	m.SimilarityScore.Record(ctx, score)
}

// RecordQuestion records one question-answering call.
func (m *Metrics) RecordQuestion(ctx context.Context, model string, usage *types.TokenUsage, duration time.Duration, err error) {
	if m == nil || m.QuestionCount == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Bool("success", err == nil),
	}
	m.QuestionCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.QuestionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		m.QuestionErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.recordTokenUsage(ctx, model, usage)
}

func (m *Metrics) recordTokenUsage(ctx context.Context, model string, usage *types.TokenUsage) {
	if usage == nil || m.AITokenUsage == nil {
		return
	}
	tokenTypes := []struct {
		tokenType string
		value     int
	}{
		{"prompt", usage.PromptTokens},
		{"completion", usage.CompletionTokens},
		{"total", usage.TotalTokens},
	}
	for _, tt := range tokenTypes {
		m.AITokenUsage.Record(ctx, int64(tt.value), metric.WithAttributes(
			attribute.String("model", model),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordStorageFetch records one resume download from backend.
func (m *Metrics) RecordStorageFetch(ctx context.Context, backend string, size int, err error) {
	if m == nil || m.StorageFetches == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.Bool("success", err == nil),
	)
	m.StorageFetches.Add(ctx, 1, attrs)
	if err == nil {
		m.StorageBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("backend", backend)))
	}
}

// RecordRateLimitHit counts a rejected request. limiter is "ip" or "api_key".
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limiter string) {
	if m == nil || m.RateLimitHits == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limiter", limiter)))
}
