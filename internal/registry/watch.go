package registry

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the registry file for edits after load. The registry is
// immutable at runtime, so a change can never be applied in-process; the
// watcher only reports that one happened so the operator knows a restart is
// required.
type Watcher struct {
	path     string
	onChange func()

	mu      sync.Mutex
	changed bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the registry file. onChange fires once per
// write/create/rename of the file; it may be called from the watcher
// goroutine and must not block.
func Watch(path string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors rename-and-replace, which
	// drops a direct file watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.changed = true
			w.mu.Unlock()
			if w.onChange != nil {
				w.onChange()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Changed reports whether the registry file changed since the watch began.
func (w *Watcher) Changed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changed
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}
