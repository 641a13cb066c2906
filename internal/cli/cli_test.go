package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeqa/internal/config"
)

// resetFlags clears flag state left behind by a previous execution.
func resetFlags() {
	rootOpts.configFile = ""
	rootOpts.container = ""
	rootOpts.output.OutputFile = ""
	rootOpts.output.OutputFormat = ""
	rootOpts.output.Stdout = nil
	parseOpts.file = ""
	reportOpts.file = ""
	reportOpts.html = false
}

// writeWorkspace creates a local storage tree and a config file using it.
func writeWorkspace(t *testing.T) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	container := filepath.Join(dir, "resumes", "nlp")
	if err := os.MkdirAll(container, 0750); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"jane.pdf", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(container, name), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}

	configPath = filepath.Join(dir, "resumeqa.yaml")
	yaml := "app:\n  logLevel: error\n" +
		"storage:\n  backend: local\n  container: nlp\n  local:\n    root: " + filepath.Join(dir, "resumes") + "\n"
	if err := os.WriteFile(configPath, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}
	return configPath, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := Execute(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--config", "/does/not/exist.yaml")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "resumeqa version "+Version) {
		t.Errorf("output = %q", out)
	}
}

func TestListCommand(t *testing.T) {
	cfgPath, _ := writeWorkspace(t)

	out, err := execute(t, "--config", cfgPath, "--format", "text", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "jane.pdf") {
		t.Errorf("output %q does not list jane.pdf", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("output %q lists a non-PDF file", out)
	}
}

func TestParseLocalFile(t *testing.T) {
	cfgPath, dir := writeWorkspace(t)
	resume := filepath.Join(dir, "john.txt")
	text := "John Smith\njohn.smith@example.com\n\nEducation\nBSc Computer Science, University of Oxford, 2015 - 2018\n"
	if err := os.WriteFile(resume, []byte(text), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", cfgPath, "parse", "--file", resume)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, `"Email": "john.smith@example.com"`) {
		t.Errorf("output does not carry the email: %s", out)
	}
	if !strings.Contains(out, `"name": "john.txt"`) {
		t.Errorf("name does not default to the file name: %s", out)
	}
}

func TestReportWritesHTMLFile(t *testing.T) {
	cfgPath, dir := writeWorkspace(t)
	resume := filepath.Join(dir, "john.txt")
	if err := os.WriteFile(resume, []byte("John Smith\njohn@example.com\n"), 0600); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "out", "report.html")

	if _, err := execute(t, "--config", cfgPath, "-o", target, "report", "--html", "--file", resume); err != nil {
		t.Fatalf("report error = %v", err)
	}
	page, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "<html") {
		t.Errorf("report is not an HTML page: %s", page)
	}
}

func TestInvalidFormatRejected(t *testing.T) {
	cfgPath, _ := writeWorkspace(t)
	if _, err := execute(t, "--config", cfgPath, "--format", "yaml", "list"); err == nil {
		t.Fatal("list accepted an unsupported format")
	}
}

func TestParseRequiresNameOrFile(t *testing.T) {
	cfgPath, _ := writeWorkspace(t)
	if _, err := execute(t, "--config", cfgPath, "parse"); err == nil {
		t.Fatal("parse without a name or --file succeeded")
	}
}

func TestResumeName(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		file    string
		want    string
		wantErr bool
	}{
		{name: "positional", args: []string{"jane.pdf"}, want: "jane.pdf"},
		{name: "positional wins over file", args: []string{"jane.pdf"}, file: "/tmp/x.pdf", want: "jane.pdf"},
		{name: "file base name", file: "/tmp/cv/x.docx", want: "x.docx"},
		{name: "blank positional uses file", args: []string{" "}, file: "a.txt", want: "a.txt"},
		{name: "nothing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resumeName(tt.args, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resumeName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resumeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyServeFlags(t *testing.T) {
	defer func() { serveOpts.port, serveOpts.tlsMode = "", "" }()
	serveOpts.port = "9999"
	serveOpts.tlsMode = "server"

	cfg := &config.Config{}
	cfg.Server.Port = "8080"
	cfg.Server.Host = "localhost"
	applyServeFlags(cfg)

	if cfg.Server.Port != "9999" || cfg.Server.Host != "localhost" || cfg.Server.TLS.Mode != "server" {
		t.Errorf("server config after overrides = %+v", cfg.Server)
	}
}

func TestNewAPIKeyWatcherDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Vault.Enabled = true
	cfg.Vault.Secrets.APIKeys = "secret/data/api"

	// Zero poll interval disables polling
	w, err := newAPIKeyWatcher(cfg, nil, nil)
	if err != nil || w != nil {
		t.Errorf("newAPIKeyWatcher() = %v, %v; want nil, nil", w, err)
	}
}
