package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"
	"resumeqa/internal/nlp"
	"resumeqa/internal/types"
)

// Service handles AI operations for one configured operation type
type Service struct {
	Provider AIProvider
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(ctx context.Context, cfg *config.OperationAIConfig, operationType string, prompts config.LoadedPromptSet, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider AIProvider
	switch cfg.Provider {
	case "gemini":
		gemini, err := NewGeminiProvider(ctx, cfg, operationType, prompts, logger)
		if err != nil {
			return nil, err
		}
		provider = gemini
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return NewServiceWithProvider(provider, cfg, logger), nil
}

// NewServiceWithProvider wraps an existing provider.
func NewServiceWithProvider(provider AIProvider, cfg *config.OperationAIConfig, logger *errors.Logger) *Service {
	return &Service{Provider: provider, config: cfg, logger: logger}
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.config.Model
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Answerer answers questions from a bounded context.
type Answerer struct {
	service *Service
	limits  config.QAConfig
}

// NewAnswerer returns an Answerer backed by service.
func NewAnswerer(service *Service, limits config.QAConfig) *Answerer {
	return &Answerer{service: service, limits: limits}
}

// Model returns the model answering questions.
func (a *Answerer) Model() string {
	return a.service.Model()
}

// Answer returns the model's answer to question using contextText, which
// is cut to the configured character budget first. A blank question is
// rejected without calling the model.
func (a *Answerer) Answer(ctx context.Context, contextText, question string) (string, *types.TokenUsage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, errors.NewValidationError(errors.ErrCodeEmptyQuestion, "question must not be empty", nil)
	}

	input := QuestionInput{
		Question:        question,
		Context:         truncateRunes(contextText, a.limits.MaxContextChars),
		MaxOutputTokens: a.limits.MaxOutputTokens,
	}
	if len(input.Context) < len(contextText) {
		a.service.logger.Debug("Truncated question context",
			"original_chars", utf8.RuneCountInString(contextText),
			"max_chars", a.limits.MaxContextChars)
	}

	out, usage, err := a.service.Provider.AnswerQuestion(ctx, input)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(out.Answer), usage, nil
}

// truncateRunes returns at most n runes of s. n <= 0 disables truncation.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// EntityAnalyzer adapts an AI service to nlp.Analyzer.
type EntityAnalyzer struct {
	service *Service
}

var (
	_ nlp.Analyzer      = (*EntityAnalyzer)(nil)
	_ nlp.Fingerprinter = (*EntityAnalyzer)(nil)
)

// NewEntityAnalyzer returns an analyzer that asks the model for sentences and entities.
func NewEntityAnalyzer(service *Service) *EntityAnalyzer {
	return &EntityAnalyzer{service: service}
}

// Fingerprint names the model tagging entities.
func (e *EntityAnalyzer) Fingerprint() string {
	return "gemini|" + e.service.Model()
}

// Analyze implements nlp.Analyzer. Entities of unknown types and empty
// spans are dropped.
func (e *EntityAnalyzer) Analyze(ctx context.Context, text string) ([]nlp.Sentence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	out, _, err := e.service.Provider.ExtractEntities(ctx, text)
	if err != nil {
		return nil, err
	}
	return toSentences(out), nil
}

func toSentences(out EntitiesOutput) []nlp.Sentence {
	sentences := make([]nlp.Sentence, 0, len(out.Sentences))
	for _, s := range out.Sentences {
		sentence := nlp.Sentence{Text: s.Text}
		for _, span := range s.Entities {
			typ := nlp.EntityType(strings.ToUpper(strings.TrimSpace(span.Type)))
			if span.Text == "" {
				continue
			}
			switch typ {
			case nlp.Person, nlp.Date, nlp.Org, nlp.GPE:
				sentence.Entities = append(sentence.Entities, nlp.Entity{Type: typ, Text: span.Text})
			}
		}
		sentences = append(sentences, sentence)
	}
	return sentences
}
