package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/digirp/digirp/internal/models"
)

const settingsDebounce = 100 * time.Millisecond

// SettingsWatcher reloads a settings file whenever it changes on disk.
type SettingsWatcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	updates   chan *models.Settings
	done      chan struct{}
	stopOnce  sync.Once

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// WatchGlobalSettings watches ~/.digirp/settings.yaml.
func WatchGlobalSettings() (*SettingsWatcher, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return WatchSettings(path)
}

// WatchSettings watches the directory holding path, so a file that does not
// exist yet or is replaced by an atomic rename is still picked up.
func WatchSettings(path string) (*SettingsWatcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &SettingsWatcher{
		path:      path,
		fsWatcher: fsWatcher,
		updates:   make(chan *models.Settings, 1),
		done:      make(chan struct{}),
	}
	go w.processEvents()

	log.Printf("[watcher] Watching %s", path)
	return w, nil
}

// Updates delivers the reloaded settings after each change. A reload that
// fails to parse is logged and skipped.
func (w *SettingsWatcher) Updates() <-chan *models.Settings {
	return w.updates
}

// Stop ends watching. It is safe to call more than once.
func (w *SettingsWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.debounceMu.Unlock()
	})
}

func (w *SettingsWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *SettingsWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}
	// Rename covers editors and SaveYAML replacing the file.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(settingsDebounce, w.reload)
}

func (w *SettingsWatcher) reload() {
	settings, err := LoadSettingsFrom(w.path)
	if err != nil {
		log.Printf("[watcher] Ignoring unreadable settings: %v", err)
		return
	}
	log.Printf("[watcher] Reloaded %s", w.path)

	// Only the newest settings matter; replace an unread value.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- settings:
	case <-w.done:
	}
}
