package formatters

import (
	"bytes"
	"fmt"
	"html/template"

	"resumeqa/internal/types"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1rem; }
th, td { border: 1px solid #ccc; padding: .3rem .5rem; text-align: left; vertical-align: top; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// ResumeHTMLFormatter renders the markdown report of a parsed resume as a
// standalone HTML page. Raw HTML in resume text is not passed through.
type ResumeHTMLFormatter struct{}

func (f *ResumeHTMLFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParsedResume)
	if !ok {
		return "", fmt.Errorf("expected ParsedResume, got %T", data)
	}
	return RenderHTMLPage(result.Name, resumeMarkdown(result))
}

func (f *ResumeHTMLFormatter) SupportedType() string {
	return "ParsedResume"
}

// RenderHTMLPage converts markdown source to an HTML page titled title.
func RenderHTMLPage(title, source string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(source), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	var page bytes.Buffer
	err := reportPage.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return page.String(), nil
}
