package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resumeqa/internal/config"
	appErrors "resumeqa/internal/errors"

	"google.golang.org/api/googleapi"
)

func defaultOperationValues() (time.Duration, int, float32, bool) {
	return 5 * time.Second, 0, 0.1, true
}

func geminiTestConfig(baseURL string) *config.OperationAIConfig {
	timeout, retries, temp, sys := defaultOperationValues()
	return &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		BaseURL:          baseURL,
		APIKey:           "test-key",
		Timeout:          &timeout,
		MaxRetries:       &retries,
		Temperature:      &temp,
		UseSystemPrompts: &sys,
	}
}

func TestNewGeminiProviderMissingKey(t *testing.T) {
	cfg := geminiTestConfig("")
	cfg.APIKey = ""

	_, err := NewGeminiProvider(context.Background(), cfg, "answer", config.LoadedPromptSet{}, appErrors.NewNopLogger())
	appErr, ok := appErrors.As(err)
	if !ok || appErr.Code != appErrors.ErrCodeMissingAPIKey {
		t.Fatalf("expected MISSING_API_KEY, got %v", err)
	}
}

// geminiServer answers generateContent calls with payload as the model text.
func geminiServer(t *testing.T, status int, payload string, seen *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			*seen = string(body)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"error":{"code":%d,"message":"bad request","status":"INVALID_ARGUMENT"}}`, status)
			return
		}
		text, _ := json.Marshal(payload)
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%s}],"role":"model"}}],`+
			`"usageMetadata":{"promptTokenCount":20,"candidatesTokenCount":5,"totalTokenCount":25}}`, text)
	}))
}

func TestGeminiAnswerQuestion(t *testing.T) {
	var body string
	srv := geminiServer(t, http.StatusOK, `{"answer":"Five years of Go"}`, &body)
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), geminiTestConfig(srv.URL), "answer", config.LoadedPromptSet{}, appErrors.NewNopLogger())
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}
	defer p.Close()

	out, usage, err := p.AnswerQuestion(context.Background(), QuestionInput{
		Question:        "How much Go experience?",
		Context:         "Jane wrote Go for five years.",
		MaxOutputTokens: 150,
	})
	if err != nil {
		t.Fatalf("AnswerQuestion() error = %v", err)
	}
	if out.Answer != "Five years of Go" {
		t.Errorf("answer = %q", out.Answer)
	}
	if usage == nil || usage.TotalTokens != 25 || usage.PromptTokens != 20 || usage.CompletionTokens != 5 {
		t.Errorf("usage = %+v", usage)
	}
	if !strings.Contains(body, "question: How much Go experience? context: Jane wrote Go for five years.") {
		t.Errorf("request body missing QA prompt: %s", body)
	}
}

func TestGeminiAnswerQuestionMalformedJSON(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `not json`, nil)
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), geminiTestConfig(srv.URL), "answer", config.LoadedPromptSet{}, appErrors.NewNopLogger())
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}

	_, _, err = p.AnswerQuestion(context.Background(), QuestionInput{Question: "q", Context: "c"})
	appErr, ok := appErrors.As(err)
	if !ok || appErr.Code != appErrors.ErrCodeAIResponseParse {
		t.Errorf("expected AI_RESPONSE_PARSE_FAILED, got %v", err)
	}
}

func TestGeminiExtractEntities(t *testing.T) {
	payload := `{"sentences":[{"text":"Jane Doe lives in Paris.","entities":[{"type":"PERSON","text":"Jane Doe"},{"type":"GPE","text":"Paris"}]}]}`
	srv := geminiServer(t, http.StatusOK, payload, nil)
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), geminiTestConfig(srv.URL), "entities", config.LoadedPromptSet{}, appErrors.NewNopLogger())
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}

	out, _, err := p.ExtractEntities(context.Background(), "Jane Doe lives in Paris.")
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if len(out.Sentences) != 1 || len(out.Sentences[0].Entities) != 2 {
		t.Fatalf("output = %+v", out)
	}
	if out.Sentences[0].Entities[1].Text != "Paris" {
		t.Errorf("second entity = %+v", out.Sentences[0].Entities[1])
	}
}

func TestGeminiClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	cfg := geminiTestConfig(srv.URL)
	retries := 3
	cfg.MaxRetries = &retries
	p, err := NewGeminiProvider(context.Background(), cfg, "answer", config.LoadedPromptSet{}, appErrors.NewNopLogger())
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}

	_, _, err = p.AnswerQuestion(context.Background(), QuestionInput{Question: "q", Context: "c"})
	appErr, ok := appErrors.As(err)
	if !ok || appErr.Code != appErrors.ErrCodeAIServiceFailed {
		t.Errorf("expected AI_SERVICE_FAILED, got %v", err)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", fmt.Errorf("invalid argument"), false},
		{"network", fmt.Errorf("dial: %w", timeoutErr{}), true},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"unavailable", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"bad gateway", &googleapi.Error{Code: http.StatusBadGateway}, true},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, false},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	g := &GeminiProvider{retryBaseDelay: time.Second}

	for attempt, base := range map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 4 * time.Second} {
		got := g.backoff(attempt)
		if got < base || got > base+base/10 {
			t.Errorf("backoff(%d) = %v, want within 10%% above %v", attempt, got, base)
		}
	}
	if got := g.backoff(10); got != 30*time.Second {
		t.Errorf("backoff(10) = %v, want cap of 30s", got)
	}
}
