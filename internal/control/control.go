// Package control watches the workspace control file so a running
// explorer can be stopped out of band. Writing the word "stop" into the
// file requests a stop, honored at round boundaries and checkpoint
// waits; an in-flight action is never cancelled mid-task.
package control

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes one control file.
type Watcher struct {
	path   string
	fw     *fsnotify.Watcher
	onStop func()
	logger *log.Logger
}

// NewWatcher starts watching the control file's directory and invokes
// onStop when the file's content becomes "stop". The file itself may not
// exist yet.
func NewWatcher(path string, onStop func(), logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create control watcher: %w", err)
	}

	// Watch the parent directory: editors and shells replace files rather
	// than writing them in place.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch control dir: %w", err)
	}

	w := &Watcher{path: filepath.Clean(path), fw: fw, onStop: onStop, logger: logger}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.readsStop() {
				w.logf("control_stop_requested path=%s", w.path)
				w.onStop()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logf("control_watch_error error=%v", err)
		}
	}
}

func (w *Watcher) readsStop() bool {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(string(data)), "stop")
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}
