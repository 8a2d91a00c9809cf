package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the store when the task file changes on disk, so
// edits made outside the assistant show up without a restart.
type Watcher struct {
	store    *YAMLStore
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func()

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher watches the directory containing the store's task file.
// onReload (optional) runs after each successful reload.
func NewWatcher(s *YAMLStore, debounceSec float64, onReload func()) (*Watcher, error) {
	if debounceSec <= 0 {
		debounceSec = 0.5
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(s.filePath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.filePath), err)
	}

	w := &Watcher{
		store:    s,
		watcher:  fw,
		debounce: time.Duration(debounceSec * float64(time.Second)),
		onReload: onReload,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops the watch loop and releases the fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.logf("ERROR", "fsnotify error=%v", err)
		}
	}
}

// relevant filters out temp files from our own atomic writes and
// unrelated siblings in the data directory.
func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".bak") {
		return false
	}
	return base == filepath.Base(w.store.filePath)
}

func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		if err := w.store.Reload(); err != nil {
			w.store.logf("ERROR", "reload failed: %v", err)
			return
		}
		w.store.logf("DEBUG", "reloaded after external change")
		if w.onReload != nil {
			w.onReload()
		}
	})
}
