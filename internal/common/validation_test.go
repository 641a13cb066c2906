package common

import (
	"strings"
	"testing"

	"resumeqa/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{name: "json", format: "json", supported: configured},
		{name: "markdown", format: "markdown", supported: configured},
		{name: "html not configured", format: "html", supported: configured, wantErr: true},
		{name: "case sensitive", format: "JSON", supported: configured, wantErr: true},
		{name: "empty format", format: "", supported: configured, wantErr: true},
		{name: "no restriction", format: "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.IsType(err, errors.ErrorTypeValidation) {
				t.Errorf("error type = %v, want validation", err)
			}
			if !strings.Contains(err.Error(), "[json text markdown]") {
				t.Errorf("error %q does not list the supported formats", err)
			}
		})
	}
}
