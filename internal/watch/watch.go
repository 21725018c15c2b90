// Package watch re-reads chronograph's on-disk TOML config file when it
// changes, without requiring a process restart, and hands each reloaded
// config.Config to a callback. It applies no setting itself: the whole
// file is decoded, backend selection included, and what to do with each
// field is left to the callback.
package watch

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chronograph-db/chronograph/internal/config"
)

// debounceDelay coalesces the burst of write events many editors and
// `cp`/`mv` emit for a single logical save, following the teacher's
// cmd/bd/list.go debounce-timer pattern for file-watch refresh.
const debounceDelay = 200 * time.Millisecond

// Watcher reloads path on every write and calls onChange with the
// newly decoded Config. Call Close to stop watching.
type Watcher struct {
	fsw *fsnotify.Watcher
	done chan struct{}
}

// Start begins watching the directory containing path for writes to
// that file, invoking onChange on every debounced write. onChange
// receives only successfully-decoded configs; a parse error during
// reload is logged and the prior config keeps running.
func Start(path string, onChange func(config.Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go w.loop(path, onChange)
	return w, nil
}

func (w *Watcher) loop(path string, onChange func(config.Config)) {
	base := filepath.Base(path)
	var debounce *time.Timer
	reload := func() {
		cfg, err := config.LoadTOML(path)
		if err != nil {
			log.Printf("chronograph: config reload failed, keeping prior config: %v", err)
			return
		}
		onChange(cfg)
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("chronograph: config watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher goroutine and releases the underlying
// fsnotify resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
