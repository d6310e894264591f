// Package watcher is one of the three reconciliation event sources: it
// turns filesystem notifications under a tracked root into relative-path
// local-change events.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher recursively watches root for Markdown file changes, skipping
// hidden directories (including the control directory) and any path
// matching an ignore pattern.
type Watcher struct {
	root   string
	ignore []string
	fs     *fsnotify.Watcher

	// Events delivers vault-relative paths that changed. Errors delivers
	// underlying fsnotify errors; both channels are closed by Close.
	Events chan string
	Errors chan error

	done chan struct{}
}

// New creates a Watcher rooted at root and starts its background pump.
func New(root string, ignore []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:   root,
		ignore: ignore,
		fs:     fsw,
		Events: make(chan string, 64),
		Errors: make(chan error, 8),
		done:   make(chan struct{}),
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch directories: %w", err)
	}

	go w.pump()
	return w, nil
}

// Close stops the watcher and releases its fsnotify resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return w.fs.Add(path)
		}
		return nil
	})
}

func (w *Watcher) pump() {
	defer close(w.Events)
	defer close(w.Errors)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}

	if strings.HasPrefix(filepath.Base(relPath), ".") {
		return
	}

	if !strings.HasSuffix(relPath, ".md") {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = w.fs.Add(event.Name)
			}
		}
		return
	}

	if w.shouldIgnore(relPath) {
		return
	}

	select {
	case w.Events <- relPath:
	default:
		// Drop on a full buffer; a later event for the same path will
		// still trigger reconciliation.
	}
}

func (w *Watcher) shouldIgnore(relPath string) bool {
	for _, pattern := range w.ignore {
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(relPath)); matched {
			return true
		}
	}
	return false
}
