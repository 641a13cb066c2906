package common

import (
	"fmt"
	"os"
	"path/filepath"

	"resumeqa/internal/document"
	"resumeqa/internal/errors"
	"resumeqa/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	maxBytes int64
	logger   *errors.Logger
}

// NewFileProcessor creates a new file processor instance. Input files above
// maxBytes are refused; maxBytes <= 0 disables the limit.
func NewFileProcessor(maxBytes int64, logger *errors.Logger) *FileProcessor {
	return &FileProcessor{maxBytes: maxBytes, logger: logger}
}

// ReadText reads a plain text input such as a job description
func (fp *FileProcessor) ReadText(filename string) (string, error) {
	if !utils.IsTextFile(filename) && fp.logger != nil {
		fp.logger.Warn("File may not be a text file", "filename", filename)
	}

	content, err := utils.ReadInputFile(filename, fp.maxBytes)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ReadDocument reads a local resume and extracts its text with extractor
func (fp *FileProcessor) ReadDocument(filename string, extractor *document.Extractor) (string, error) {
	if !document.Supported(filename) {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported document type: %s", filename), nil)
	}

	data, err := utils.ReadInputFile(filename, fp.maxBytes)
	if err != nil {
		return "", err
	}
	return extractor.ExtractText(filepath.Base(filename), data)
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
