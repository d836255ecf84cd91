package preference

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumeassist/internal/errors"
)

// Watcher watches the preference file for changes made by other processes
// and calls onChange once per burst of events.
type Watcher struct {
	mu sync.RWMutex

	path        string
	lastModTime time.Time
	existed     bool

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onChange func()
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a watcher for path
func NewWatcher(path string, debounceDelay time.Duration, onChange func(), logger *errors.Logger) *Watcher {
	if debounceDelay <= 0 {
		debounceDelay = 200 * time.Millisecond
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	return &Watcher{
		path:          path,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		onChange:      onChange,
		logger:        logger,
	}
}

// Start begins watching. The parent directory is watched so atomic
// replacements and first-time creation are seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("preference watcher is already running")
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create preference directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.fsWatcher = watcher

	w.updateModTime()
	w.running = true
	go w.watchLoop()

	w.logger.Info("Preference watcher started",
		"file", w.path,
		"debounce_delay", w.debounceDelay)
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		w.logger.LogError(err, "Failed to close file system watcher")
		return err
	}

	w.logger.Debug("Preference watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "File watcher error")

		case <-w.reloadChan:
			if w.hasFileChanged() {
				w.onChange()
			}

		case <-w.stopChan:
			return
		}
	}
}

// shouldProcessEvent keeps write, create, rename and remove events on the preference file
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// scheduleReload schedules a debounced reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
			// reload already scheduled
		}
	})
}

func (w *Watcher) updateModTime() {
	stat, err := os.Stat(w.path)
	if err != nil {
		w.existed = false
		w.lastModTime = time.Time{}
		return
	}
	w.existed = true
	w.lastModTime = stat.ModTime()
}

// hasFileChanged compares the file's modification time with the last one seen
func (w *Watcher) hasFileChanged() bool {
	stat, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) && w.existed {
			w.existed = false
			return true
		}
		return false
	}

	if !w.existed || !stat.ModTime().Equal(w.lastModTime) {
		w.existed = true
		w.lastModTime = stat.ModTime()
		return true
	}
	return false
}
