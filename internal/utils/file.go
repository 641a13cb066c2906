package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"resumeqa/internal/errors"
)

// ReadInputFile reads a local resume or job description, refusing
// directories and files larger than maxBytes (maxBytes <= 0 means no limit).
func ReadInputFile(filename string, maxBytes int64) ([]byte, error) {
	if filename == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "filename cannot be empty", nil)
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("file does not exist: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot access file %s", filename), err)
	}
	if info.IsDir() {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("path is a directory, not a file: %s", filename), nil)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("%s is %s, limit is %s", filename, FormatFileSize(info.Size()), FormatFileSize(maxBytes)), nil)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read file %s", filename), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read file %s", filename), err)
	}
	return data, nil
}

// ValidateOutputFile checks that the parent of filename is a directory,
// creating it when missing. An empty filename means stdout.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(errors.ErrCodeInvalidOutput,
				fmt.Sprintf("cannot create directory %s", dir), err)
		}
		return nil
	case err != nil:
		return errors.NewIOError(errors.ErrCodeInvalidOutput,
			fmt.Sprintf("cannot access output directory %s", dir), err)
	case !info.IsDir():
		return errors.NewValidationError(errors.ErrCodeInvalidOutput,
			fmt.Sprintf("output directory %s is not a directory", dir), nil)
	}
	return nil
}

// GetFileExtension returns the file extension in lowercase
func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsTextFile checks if the file has a text-based extension
func IsTextFile(filename string) bool {
	return slices.Contains([]string{".txt", ".md", ".markdown", ".text"}, GetFileExtension(filename))
}

// IsPDF reports whether name ends in .pdf, ignoring case.
func IsPDF(name string) bool {
	return GetFileExtension(name) == ".pdf"
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
