// Package inbox watches a local directory for PDFs dropped into it.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Watcher streams the paths of PDFs created or rewritten in a directory.
// Subdirectories are not watched.
type Watcher struct {
	dir string

	mu  sync.Mutex
	fsw *fsnotify.Watcher
}

// New creates a watcher for dir.
func New(dir string) *Watcher {
	return &Watcher{dir: dir}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Existing lists the PDFs already in the directory, sorted by name.
func (w *Watcher) Existing() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) || !hasPDFExt(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(w.dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Watch starts watching. The channel is closed when ctx is done or Close is called.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch inbox: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	out := make(chan string, 16)
	go w.loop(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			path, ok := w.handleFsEvent(event)
			if !ok {
				continue
			}
			logger.Debug("inbox: %s %s", event.Op, filepath.Base(path))
			select {
			case out <- path:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher: %v", err)
		}
	}
}

// handleFsEvent returns the path of a PDF that was created or written.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if isHidden(name) || !hasPDFExt(name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// Close stops a running watch.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.fsw = nil
	return err
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasPDFExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
