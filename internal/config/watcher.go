package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"dotnetes/pkg/logging"
)

// DefaultDebounceInterval is how long the watcher waits for further writes
// before reloading config.yaml.
const DefaultDebounceInterval = 250 * time.Millisecond

// Watcher reloads config.yaml whenever it changes and hands the parsed
// configuration to a callback.
//
// The directory is watched instead of the file so that editors replacing the
// file through a rename are still observed. A file that fails to parse is
// logged and ignored; the callback only ever sees valid configuration.
type Watcher struct {
	mu sync.Mutex

	configPath       string
	debounceInterval time.Duration
	onChange         func(OperatorConfig)

	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for config.yaml inside configPath.
func NewWatcher(configPath string, debounceInterval time.Duration, onChange func(OperatorConfig)) *Watcher {
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceInterval
	}
	return &Watcher{
		configPath:       configPath,
		debounceInterval: debounceInterval,
		onChange:         onChange,
	}
}

// Start begins watching. It returns once the watch is established.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.configPath, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.configPath); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, w.doneCh)

	logging.Info("ConfigWatcher", "Watching %s for configuration changes", ConfigFilePath(w.configPath))
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	target := filepath.Clean(ConfigFilePath(w.configPath))
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return

		case <-stopCh:
			w.cancelPending()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "Filesystem watcher error")
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, w.reload)
}

func (w *Watcher) reload() {
	path := ConfigFilePath(w.configPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Error("ConfigWatcher", err, "Failed to read %s, keeping previous configuration", path)
		}
		return
	}

	cfg, err := ParseConfig(data, path)
	if err != nil {
		logging.Error("ConfigWatcher", err, "Ignoring invalid configuration, keeping previous configuration")
		return
	}

	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	logging.Debug("ConfigWatcher", "Reloaded configuration from %s", path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Stop ends watching and waits for the event loop to exit. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	watcher, doneCh := w.watcher, w.doneCh
	w.watcher = nil
	w.mu.Unlock()

	<-doneCh
	err := watcher.Close()
	logging.Info("ConfigWatcher", "Stopped configuration watcher")
	return err
}
