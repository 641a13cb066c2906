package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resumeqa/internal/errors"
)

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case name := <-ch:
		return name
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a file report")
		return ""
	}
}

func TestDirWatcherReportsNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.pdf"), []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	reports := make(chan string, 8)
	w := New(dir, isPDF, 50*time.Millisecond, func(name string) { reports <- name }, errors.NewNopLogger())
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "new.pdf")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(strings.Repeat("x", i+1)), 0600); err != nil {
			t.Fatal(err)
		}
	}

	if got := waitFor(t, reports); got != "new.pdf" {
		t.Errorf("reported %q, want new.pdf", got)
	}

	select {
	case extra := <-reports:
		t.Errorf("unexpected extra report %q", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDirWatcherStartStop(t *testing.T) {
	w := New(t.TempDir(), nil, 0, func(string) {}, errors.NewNopLogger())
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !w.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := w.Start(); err == nil {
		t.Error("second Start() succeeded")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestDirWatcherMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "absent"), nil, 0, func(string) {}, errors.NewNopLogger())
	if err := w.Start(); err == nil {
		_ = w.Stop()
		t.Fatal("Start() on a missing directory succeeded")
	}
}

func TestHasFileChanged(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, nil, 0, func(string) {}, errors.NewNopLogger())
	path := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(path, []byte("one"), 0600); err != nil {
		t.Fatal(err)
	}

	if !w.hasFileChanged("a.pdf") {
		t.Error("first sighting not reported")
	}
	if w.hasFileChanged("a.pdf") {
		t.Error("unchanged file reported twice")
	}
	if err := os.WriteFile(path, []byte("longer"), 0600); err != nil {
		t.Fatal(err)
	}
	if !w.hasFileChanged("a.pdf") {
		t.Error("rewritten file not reported")
	}
	if w.hasFileChanged("gone.pdf") {
		t.Error("missing file reported")
	}
}

func TestStaleTimerKeepsNewerTimer(t *testing.T) {
	w := New(t.TempDir(), nil, time.Hour, func(string) {}, errors.NewNopLogger())
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	w.scheduleReport("a.pdf")
	stale := w.timers["a.pdf"]
	w.scheduleReport("a.pdf")
	fresh := w.timers["a.pdf"]

	// The first timer firing late must not drop the rescheduled one
	w.clearTimer("a.pdf", stale)
	if w.timers["a.pdf"] != fresh {
		t.Fatal("stale timer removed the newer timer")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if fresh.Stop() {
		t.Error("Stop() left the newer timer running")
	}
}
