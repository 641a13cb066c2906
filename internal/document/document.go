// Package document turns resume files into plain text.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"resumeqa/internal/errors"
	"resumeqa/internal/utils"

	"github.com/fumiama/go-docx"
	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// Extractor converts document bytes to text.
type Extractor struct {
	MaxBytes int64
}

// NewExtractor returns an Extractor rejecting inputs above maxBytes.
// maxBytes <= 0 disables the limit.
func NewExtractor(maxBytes int64) *Extractor {
	return &Extractor{MaxBytes: maxBytes}
}

// Supported reports whether name has an extension ExtractText understands.
func Supported(name string) bool {
	switch utils.GetFileExtension(name) {
	case ".pdf", ".docx":
		return true
	}
	return utils.IsTextFile(name)
}

// ExtractText returns the NFKC-normalized text of data, choosing the
// decoder from the extension of name.
func (e *Extractor) ExtractText(name string, data []byte) (string, error) {
	if e.MaxBytes > 0 && int64(len(data)) > e.MaxBytes {
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("%s is %s, limit is %s", name,
				utils.FormatFileSize(int64(len(data))), utils.FormatFileSize(e.MaxBytes)), nil).
			WithContext("file", name)
	}

	var (
		text string
		err  error
	)
	switch ext := utils.GetFileExtension(name); {
	case ext == ".pdf":
		text, err = pdfText(data)
	case ext == ".docx":
		text, err = docxText(data)
	case utils.IsTextFile(name):
		text = string(bytes.ToValidUTF8(data, []byte("�")))
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported document type %q", ext), nil).WithContext("file", name)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("failed to read %s", name), err).WithContext("file", name)
	}

	return norm.NFKC.String(text), nil
}

// pdfText concatenates the plain text of every page. Pages that fail to
// decode are skipped.
func pdfText(data []byte) (string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// docxText returns paragraph text separated by newlines.
func docxText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
