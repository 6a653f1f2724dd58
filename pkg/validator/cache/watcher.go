package cache

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates cached programs when the file backing a schema
// changes. The core never reads schema files itself; the loader that does
// registers each file here together with the schema identity it produced,
// and the watcher drops that schema's programs on any write, rename, or
// removal so the next compile sees the reloaded schema.
type Watcher struct {
	cache   *ProgramCache
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.Mutex
	schemas map[string]string // file path -> schema id

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher bound to the cache.
func NewWatcher(cache *ProgramCache, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default().With("component", "validator.cache.watcher")
	}

	w := &Watcher{
		cache:   cache,
		watcher: fsw,
		logger:  logger,
		schemas: make(map[string]string),
		stopCh:  make(chan struct{}),
	}
	w.start()
	return w, nil
}

// WatchSchema registers a schema file for invalidation. Events on path
// invalidate every cached program compiled from schemaID.
func (w *Watcher) WatchSchema(path, schemaID string) error {
	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("watch schema file %q: %w", path, err)
	}

	w.mu.Lock()
	w.schemas[path] = schemaID
	w.mu.Unlock()

	w.logger.Info("watching schema file",
		"path", path,
		"schema_id", schemaID,
	)
	return nil
}

// start runs the event loop.
func (w *Watcher) start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		for {
			select {
			case <-w.stopCh:
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("schema watcher error", "error", err)
			}
		}
	}()
}

// handleEvent maps a filesystem event back to its schema and invalidates.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	schemaID, ok := w.schemas[event.Name]
	w.mu.Unlock()
	if !ok {
		return
	}

	dropped := w.cache.InvalidateSchema(schemaID)
	w.logger.Info("schema file changed",
		"path", event.Name,
		"op", event.Op.String(),
		"schema_id", schemaID,
		"programs_dropped", dropped,
	)
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.stopCh)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
