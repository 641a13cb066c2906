// Package watcher reports files that appear or change in a directory.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumeqa/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback receives the base name of a settled file.
type ChangeCallback func(name string)

// DirWatcher watches one directory and calls back once per file after its
// writes have been quiet for the debounce delay. Files rewritten with the
// same modification time and size are not reported again.
type DirWatcher struct {
	mu sync.Mutex

	dir   string
	match func(name string) bool

	// File metadata
	seen map[string]fileState

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	timers        map[string]*time.Timer

	// Control channels
	stopChan chan struct{}
	ready    chan string
	done     chan struct{}

	onChange ChangeCallback
	logger   *errors.Logger

	running bool
}

type fileState struct {
	modTime time.Time
	size    int64
}

// New creates a watcher for dir. match filters base names; nil accepts
// every file.
func New(dir string, match func(name string) bool, debounceDelay time.Duration, onChange ChangeCallback, logger *errors.Logger) *DirWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	return &DirWatcher{
		dir:           dir,
		match:         match,
		seen:          make(map[string]fileState),
		debounceDelay: debounceDelay,
		timers:        make(map[string]*time.Timer),
		onChange:      onChange,
		logger:        logger,
	}
}

// Start records the files already present and begins watching. Existing
// files are not reported.
func (w *DirWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("directory watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(w.dir); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}
	w.fsWatcher = fsWatcher

	if err := w.snapshot(); err != nil {
		_ = fsWatcher.Close()
		return err
	}

	w.stopChan = make(chan struct{})
	w.ready = make(chan string, 16)
	w.done = make(chan struct{})
	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Directory watcher started",
			"directory", w.dir,
			"debounce_delay", w.debounceDelay,
			"existing_files", len(w.seen))
	}
	return nil
}

// Stop stops the watcher and waits for a callback in progress to return
func (w *DirWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	close(w.stopChan)
	for name, t := range w.timers {
		t.Stop()
		delete(w.timers, name)
	}
	w.running = false
	done := w.done
	w.mu.Unlock()

	<-done

	if err := w.fsWatcher.Close(); err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}
	if w.logger != nil {
		w.logger.Info("Directory watcher stopped", "directory", w.dir)
	}
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *DirWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// snapshot records the state of files already in the directory
func (w *DirWatcher) snapshot() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !w.match(entry.Name()) {
			continue
		}
		if info, err := entry.Info(); err == nil {
			w.seen[entry.Name()] = fileState{modTime: info.ModTime(), size: info.Size()}
		}
	}
	return nil
}

// watchLoop is the main event loop for file watching
func (w *DirWatcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReport(filepath.Base(event.Name))
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "File watcher error", "directory", w.dir)
			}

		case name := <-w.ready:
			if w.hasFileChanged(name) {
				if w.logger != nil {
					w.logger.Debug("File settled", "file", name)
				}
				w.onChange(name)
			}

		case <-w.stopChan:
			return
		}
	}
}

// shouldProcessEvent reports whether event may have produced a new file version
func (w *DirWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !w.match(filepath.Base(event.Name)) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReport (re)starts the debounce timer of name
func (w *DirWatcher) scheduleReport(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if t, ok := w.timers[name]; ok {
		t.Stop()
	}
	stop := w.stopChan
	// w.mu is held until t is assigned, so the callback always sees it
	var t *time.Timer
	t = time.AfterFunc(w.debounceDelay, func() {
		w.clearTimer(name, t)
		select {
		case w.ready <- name:
		case <-stop:
		}
	})
	w.timers[name] = t
}

// clearTimer forgets the timer of name unless a newer one replaced it
func (w *DirWatcher) clearTimer(name string, t *time.Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timers[name] == t {
		delete(w.timers, name)
	}
}

// hasFileChanged checks if a file differs from the last reported version
func (w *DirWatcher) hasFileChanged(name string) bool {
	info, err := os.Stat(filepath.Join(w.dir, name))
	if err != nil || info.IsDir() {
		// Deleted or renamed away before it settled
		delete(w.seen, name)
		return false
	}

	state := fileState{modTime: info.ModTime(), size: info.Size()}
	if prev, ok := w.seen[name]; ok && prev == state {
		return false
	}
	w.seen[name] = state
	return true
}
