package common

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeqa/internal/config"
	"resumeqa/internal/document"
	"resumeqa/internal/errors"
	"resumeqa/internal/parser"
	"resumeqa/internal/types"
)

func TestRunCommandWritesFormattedOutput(t *testing.T) {
	var out bytes.Buffer
	cfg := CommandConfig{OutputFormat: "text", Stdout: &out}

	err := RunCommand(context.Background(), errors.NewNopLogger(), cfg, "list",
		func(context.Context) (*types.ResumeList, error) {
			return &types.ResumeList{Container: "nlp", Names: []string{"jane.pdf"}}, nil
		})
	if err != nil {
		t.Fatalf("RunCommand() error = %v", err)
	}
	if !strings.Contains(out.String(), "jane.pdf") {
		t.Errorf("output %q does not list the resume", out.String())
	}
}

func TestRunCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "answer.json")
	cfg := CommandConfig{OutputFile: path, OutputFormat: "json"}

	err := RunCommand(context.Background(), errors.NewNopLogger(), cfg, "ask",
		func(context.Context) (*types.Answer, error) {
			return &types.Answer{
				Resume:     "jane.pdf",
				Answer:     "Go",
				TokenUsage: &types.TokenUsage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
			}, nil
		})
	if err != nil {
		t.Fatalf("RunCommand() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"answer": "Go"`) {
		t.Errorf("file content = %s", data)
	}
}

func TestRunCommandSkipsOperationOnBadOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}

	called := false
	err := RunCommand(context.Background(), errors.NewNopLogger(),
		CommandConfig{OutputFile: filepath.Join(blocker, "sub", "out.json"), OutputFormat: "json"}, "parse",
		func(context.Context) (string, error) {
			called = true
			return "", nil
		})
	if err == nil {
		t.Fatal("RunCommand() accepted an output path under a regular file")
	}
	if called {
		t.Error("operation ran although the output path is invalid")
	}
}

func TestRunCommandPropagatesError(t *testing.T) {
	want := errors.NewNotFoundError(errors.ErrCodeNoDataExtracted, "no data", nil)
	err := RunCommand(context.Background(), errors.NewNopLogger(), CommandConfig{OutputFormat: "json"}, "parse",
		func(context.Context) (*types.ParsedResume, error) { return nil, want })
	if !stderrors.Is(err, want) {
		t.Errorf("RunCommand() error = %v, want %v", err, want)
	}
}

func TestHandleOutputUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := NewOutputHandler(errors.NewNopLogger()).HandleOutput(types.Answer{}, CommandConfig{OutputFormat: "yaml", Stdout: &out})
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("HandleOutput() error = %v, want a validation error", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestFileProcessorReadDocument(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(txt, []byte("Jane Doe\nEducation\nMIT"), 0600); err != nil {
		t.Fatal(err)
	}
	odd := filepath.Join(dir, "resume.xyz")
	if err := os.WriteFile(odd, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	fp := NewFileProcessor(1<<20, errors.NewNopLogger())
	extractor := document.NewExtractor(1 << 20)

	text, err := fp.ReadDocument(txt, extractor)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if !strings.Contains(text, "Education") {
		t.Errorf("ReadDocument() = %q", text)
	}

	if _, err := fp.ReadDocument(odd, extractor); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("unsupported type error = %v", err)
	}
	if _, err := fp.ReadDocument(filepath.Join(dir, "missing.pdf"), extractor); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestFileProcessorReadTextLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("a", 64)), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileProcessor(16, errors.NewNopLogger()).ReadText(path); err == nil {
		t.Error("ReadText() accepted a file above the limit")
	}
	text, err := NewFileProcessor(0, errors.NewNopLogger()).ReadText(path)
	if err != nil || len(text) != 64 {
		t.Errorf("ReadText() = %d chars, %v", len(text), err)
	}
}

func TestSectionRules(t *testing.T) {
	rules := SectionRules([]config.SectionConfig{
		{Label: "education", Keywords: []string{"academic background", "education"}},
		{Label: "Hobbies", Keywords: []string{"hobbies"}},
		{Label: parser.LabelExperience},
	})

	if len(rules) != len(parser.DefaultSectionRules()) {
		t.Fatalf("got %d rules, want the fixed label set", len(rules))
	}
	for _, r := range rules {
		switch r.Label {
		case parser.LabelEducation:
			if len(r.Keywords) != 2 || r.Keywords[0] != "academic background" {
				t.Errorf("education keywords = %v", r.Keywords)
			}
		case parser.LabelExperience:
			if len(r.Keywords) != 1 || r.Keywords[0] != "experience" {
				t.Errorf("empty override replaced experience keywords: %v", r.Keywords)
			}
		case "Hobbies":
			t.Error("unknown label added to the rule set")
		}
	}
}
