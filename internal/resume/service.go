// Package resume runs the resume pipeline: fetch a document, normalize
// it, parse it into ResumeData, score it against a job description and
// answer questions about it.
package resume

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"resumeqa/internal/cache"
	"resumeqa/internal/errors"
	"resumeqa/internal/parser"
	"resumeqa/internal/similarity"
	"resumeqa/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Context modes for question answering.
const (
	ContextText       = "text"
	ContextStructured = "structured"
)

// Catalog lists and fetches resume documents.
type Catalog interface {
	ListResumes(ctx context.Context, container string) []types.ResumeRef
	FetchDocumentText(ctx context.Context, name, container string) string
}

// Answerer answers a question from a context text.
type Answerer interface {
	Answer(ctx context.Context, contextText, question string) (string, *types.TokenUsage, error)
	Model() string
}

// History persists parse runs.
type History interface {
	Record(ctx context.Context, run types.ParseRun) (types.ParseRun, error)
	Recent(ctx context.Context, resume string, limit int) ([]types.ParseRun, error)
}

// Recorder receives pipeline metrics.
type Recorder interface {
	RecordParse(ctx context.Context, cached bool, err error)
	RecordSimilarity(ctx context.Context, score float64)
	RecordQuestion(ctx context.Context, model string, usage *types.TokenUsage, duration time.Duration, err error)
}

// Options configures a Service. Catalog, Parser and Scorer are required;
// the rest are optional.
type Options struct {
	Catalog     Catalog
	Parser      *parser.Parser
	Scorer      *similarity.Scorer
	Answerer    Answerer
	Cache       cache.ParseCache
	History     History
	Metrics     Recorder
	ContextMode string
	Container   string
	Logger      *errors.Logger
}

// Service orchestrates the pipeline operations.
type Service struct {
	catalog     Catalog
	parser      *parser.Parser
	scorer      *similarity.Scorer
	answerer    Answerer
	cache       cache.ParseCache
	history     History
	metrics     Recorder
	contextMode string
	container   string
	logger      *errors.Logger
	tracer      trace.Tracer
}

// NewService builds a Service from opts.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	mode := opts.ContextMode
	if mode == "" {
		mode = ContextText
	}
	return &Service{
		catalog:     opts.Catalog,
		parser:      opts.Parser,
		scorer:      opts.Scorer,
		answerer:    opts.Answerer,
		cache:       opts.Cache,
		history:     opts.History,
		metrics:     metrics,
		contextMode: mode,
		container:   opts.Container,
		logger:      logger.With("component", "resume"),
		tracer:      otel.Tracer("resumeqa.resume"),
	}
}

func (s *Service) containerOr(container string) string {
	if container == "" {
		return s.container
	}
	return container
}

// List returns the PDF names of container.
func (s *Service) List(ctx context.Context, container string) types.ResumeList {
	container = s.containerOr(container)
	names := []string{}
	for _, ref := range s.catalog.ListResumes(ctx, container) {
		names = append(names, ref.Name)
	}
	return types.ResumeList{Container: container, Names: names}
}

// fetch returns the raw document text, or NO_DATA_EXTRACTED when the
// catalog produced nothing.
func (s *Service) fetch(ctx context.Context, name, container string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "resume name is required", nil)
	}
	text := s.catalog.FetchDocumentText(ctx, name, container)
	if strings.TrimSpace(text) == "" {
		return "", errors.NewNotFoundError(errors.ErrCodeNoDataExtracted,
			fmt.Sprintf("no data extracted from %s", name), nil).
			WithContext("resume", name).
			WithContext("container", container)
	}
	return text, nil
}

// Parse fetches name from container and parses it.
func (s *Service) Parse(ctx context.Context, name, container string) (*types.ParsedResume, error) {
	container = s.containerOr(container)
	ctx, span := s.tracer.Start(ctx, "resume.parse",
		trace.WithAttributes(attribute.String("resume.name", name), attribute.String("storage.container", container)))
	defer span.End()

	raw, err := s.fetch(ctx, name, container)
	if err != nil {
		recordSpanError(span, err)
		s.metrics.RecordParse(ctx, false, err)
		return nil, err
	}
	return s.parse(ctx, span, name, container, raw)
}

// ParseText parses raw document text that did not come from the catalog,
// such as a local file. container labels the origin in the result and the
// history.
func (s *Service) ParseText(ctx context.Context, name, container, raw string) (*types.ParsedResume, error) {
	ctx, span := s.tracer.Start(ctx, "resume.parse_text", trace.WithAttributes(attribute.String("resume.name", name)))
	defer span.End()

	if strings.TrimSpace(raw) == "" {
		err := errors.NewNotFoundError(errors.ErrCodeNoDataExtracted,
			fmt.Sprintf("no data extracted from %s", name), nil)
		recordSpanError(span, err)
		s.metrics.RecordParse(ctx, false, err)
		return nil, err
	}
	return s.parse(ctx, span, name, container, raw)
}

func (s *Service) parse(ctx context.Context, span trace.Span, name, container, raw string) (*types.ParsedResume, error) {
	text := parser.Normalize(raw)
	hash := ContentHash(text)
	result := &types.ParsedResume{Name: name, Container: container, ContentHash: hash, Text: text}

	key := s.cacheKey(hash)
	if data, ok := s.cachedData(ctx, key); ok {
		result.Data = *data
		result.Cached = true
		span.SetAttributes(attribute.Bool("resume.cached", true))
		s.metrics.RecordParse(ctx, true, nil)
		return result, nil
	}

	data, err := s.parser.Parse(ctx, text)
	if err != nil {
		recordSpanError(span, err)
		s.metrics.RecordParse(ctx, false, err)
		return nil, err
	}
	result.Data = data

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &data); err != nil {
			s.logger.LogError(err, "Failed to cache parsed resume", "resume", name)
		}
	}
	s.recordRun(ctx, result)

	span.SetAttributes(
		attribute.Int("resume.education_count", len(data.Education)),
		attribute.Int("resume.experience_count", len(data.Experience)),
	)
	s.metrics.RecordParse(ctx, false, nil)
	return result, nil
}

// cacheKey scopes a content hash to the parser settings, so a change of
// analyzer or section keywords never serves results parsed under the old ones.
func (s *Service) cacheKey(hash string) string {
	return hash + ":" + s.parser.Fingerprint()
}

func (s *Service) cachedData(ctx context.Context, key string) (*types.ResumeData, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.LogError(err, "Cache lookup failed, parsing instead", "cache_key", key)
		return nil, false
	}
	return data, ok
}

func (s *Service) recordRun(ctx context.Context, r *types.ParsedResume) {
	if s.history == nil {
		return
	}
	_, err := s.history.Record(ctx, types.ParseRun{
		ResumeName:      r.Name,
		Container:       r.Container,
		ContentHash:     r.ContentHash,
		CandidateName:   r.Data.Contact.Name,
		EducationCount:  len(r.Data.Education),
		ExperienceCount: len(r.Data.Experience),
	})
	if err != nil {
		s.logger.LogError(err, "Failed to record parse run", "resume", r.Name)
	}
}

// Similarity scores the normalized resume text against jobDescription.
func (s *Service) Similarity(ctx context.Context, name, container, jobDescription string) (*types.SimilarityResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyJobDesc, "job description must not be empty", nil)
	}
	container = s.containerOr(container)
	ctx, span := s.tracer.Start(ctx, "resume.similarity", trace.WithAttributes(attribute.String("resume.name", name)))
	defer span.End()

	raw, err := s.fetch(ctx, name, container)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return s.score(ctx, span, name, parser.Normalize(raw), jobDescription), nil
}

// SimilarityText scores already-obtained resume text.
func (s *Service) SimilarityText(ctx context.Context, name, raw, jobDescription string) (*types.SimilarityResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyJobDesc, "job description must not be empty", nil)
	}
	ctx, span := s.tracer.Start(ctx, "resume.similarity_text", trace.WithAttributes(attribute.String("resume.name", name)))
	defer span.End()
	return s.score(ctx, span, name, parser.Normalize(raw), jobDescription), nil
}

func (s *Service) score(ctx context.Context, span trace.Span, name, text, jobDescription string) *types.SimilarityResult {
	cosine := s.scorer.Cosine(text, jobDescription)
	result := &types.SimilarityResult{
		Resume:     name,
		Score:      s.scorer.Scale(cosine),
		RawCosine:  cosine,
		Multiplier: s.scorer.Multiplier(),
	}
	span.SetAttributes(attribute.Float64("similarity.score", result.Score))
	s.metrics.RecordSimilarity(ctx, result.Score)
	return result
}

// Ask answers question about the resume. The context is the normalized
// resume text, or the rendered ResumeData in structured mode.
func (s *Service) Ask(ctx context.Context, name, container, question string) (*types.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyQuestion, "question must not be empty", nil)
	}
	if s.answerer == nil {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"question answering is not configured (set GEMINI_API_KEY)", nil)
	}
	container = s.containerOr(container)
	ctx, span := s.tracer.Start(ctx, "resume.ask", trace.WithAttributes(
		attribute.String("resume.name", name),
		attribute.String("qa.context_mode", s.contextMode)))
	defer span.End()

	var contextText string
	if s.contextMode == ContextStructured {
		parsed, err := s.Parse(ctx, name, container)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		contextText = parser.BuildQAContext(parsed.Data)
	} else {
		raw, err := s.fetch(ctx, name, container)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		contextText = parser.Normalize(raw)
	}

	return s.answer(ctx, span, name, contextText, question)
}

// AskText answers question using raw resume text that did not come from the catalog.
func (s *Service) AskText(ctx context.Context, name, raw, question string) (*types.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyQuestion, "question must not be empty", nil)
	}
	if s.answerer == nil {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"question answering is not configured (set GEMINI_API_KEY)", nil)
	}
	ctx, span := s.tracer.Start(ctx, "resume.ask_text", trace.WithAttributes(attribute.String("resume.name", name)))
	defer span.End()

	contextText := parser.Normalize(raw)
	if s.contextMode == ContextStructured {
		parsed, err := s.ParseText(ctx, name, "local", raw)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		contextText = parser.BuildQAContext(parsed.Data)
	}
	return s.answer(ctx, span, name, contextText, question)
}

func (s *Service) answer(ctx context.Context, span trace.Span, name, contextText, question string) (*types.Answer, error) {
	start := time.Now()
	text, usage, err := s.answerer.Answer(ctx, contextText, question)
	s.metrics.RecordQuestion(ctx, s.answerer.Model(), usage, time.Since(start), err)
	if err != nil {
		recordSpanError(span, err)
		s.logger.LogError(err, "Question answering failed", "resume", name)
		return nil, err
	}

	return &types.Answer{
		Resume:     name,
		Question:   strings.TrimSpace(question),
		Answer:     text,
		Model:      s.answerer.Model(),
		TokenUsage: usage,
	}, nil
}

// History returns recent parse runs, optionally for one resume.
func (s *Service) History(ctx context.Context, resume string, limit int) (*types.ParseHistory, error) {
	if s.history == nil {
		return nil, errors.NewConfigError(errors.ErrCodeHistoryFailed,
			"parse history is disabled (set database.enabled and database.url)", nil)
	}
	runs, err := s.history.Recent(ctx, resume, limit)
	if err != nil {
		return nil, err
	}
	return &types.ParseHistory{Runs: runs}, nil
}

// ContentHash is the hex SHA-256 of normalized resume text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

type nopRecorder struct{}

func (nopRecorder) RecordParse(context.Context, bool, error)                                        {}
func (nopRecorder) RecordSimilarity(context.Context, float64)                                       {}
func (nopRecorder) RecordQuestion(context.Context, string, *types.TokenUsage, time.Duration, error) {}
