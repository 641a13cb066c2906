package ai

import (
	"context"

	"resumeqa/internal/types"
)

// AIProvider interface for different AI implementations.
// Methods return token usage information; callers can ignore it if not needed.
type AIProvider interface {
	AnswerQuestion(ctx context.Context, input QuestionInput) (AnswerOutput, *types.TokenUsage, error)
	ExtractEntities(ctx context.Context, text string) (EntitiesOutput, *types.TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// QuestionInput is a question together with the (already truncated)
// context it must be answered from.
type QuestionInput struct {
	Question        string
	Context         string
	MaxOutputTokens int32
}

// AnswerOutput is the structured answer returned by the model.
type AnswerOutput struct {
	Answer string `json:"answer"`
}

// EntitiesOutput is the structured entity extraction returned by the model.
type EntitiesOutput struct {
	Sentences []EntitySentence `json:"sentences"`
}

// EntitySentence is one sentence with its entity spans.
type EntitySentence struct {
	Text     string       `json:"text"`
	Entities []EntitySpan `json:"entities"`
}

// EntitySpan is one tagged span.
type EntitySpan struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
