package formatters

import (
	"encoding/json"
	"fmt"
	"sort"

	"resumeqa/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ResumeList", &ListTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeList", &ListMarkdownFormatter{})
	registry.RegisterFormatter("text", "ParsedResume", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "ParsedResume", &ResumeMarkdownFormatter{})
	registry.RegisterFormatter("html", "ParsedResume", &ResumeHTMLFormatter{})
	registry.RegisterFormatter("text", "SimilarityResult", &SimilarityTextFormatter{})
	registry.RegisterFormatter("markdown", "SimilarityResult", &SimilarityMarkdownFormatter{})
	registry.RegisterFormatter("text", "Answer", &AnswerTextFormatter{})
	registry.RegisterFormatter("markdown", "Answer", &AnswerMarkdownFormatter{})
	registry.RegisterFormatter("text", "ParseHistory", &HistoryTextFormatter{})
	registry.RegisterFormatter("markdown", "ParseHistory", &HistoryMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter. Pointers to the
// known result types are formatted like their values.
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted.
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func deref(data any) any {
	switch v := data.(type) {
	case *types.ResumeList:
		return *v
	case *types.ParsedResume:
		return *v
	case *types.SimilarityResult:
		return *v
	case *types.Answer:
		return *v
	case *types.ParseHistory:
		return *v
	}
	return data
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ResumeList:
		return "ResumeList"
	case types.ParsedResume:
		return "ParsedResume"
	case types.SimilarityResult:
		return "SimilarityResult"
	case types.Answer:
		return "Answer"
	case types.ParseHistory:
		return "ParseHistory"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// GlobalRegistry is the registry shared by the CLI commands
var GlobalRegistry = NewFormatterRegistry()
