// Package files maintains the snapshot of the monitored directory: an
// initial recursive scan plus an fsnotify watch that keeps the index fresh as
// files change. The index is the source of truth for which paths the
// intelligence gateway may answer questions about.
package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"lifeline-backend/application/ports"
	"lifeline-backend/domain/knowledge"
)

// maxContentBytes bounds the extracted text per file fed into the corpus.
const maxContentBytes = 16 * 1024

// textFormats are the formats whose content is readable as plain text.
// Binary formats (pdf, docx, media) stay in the index but contribute
// metadata only; their extraction is a model-side concern.
var textFormats = map[string]struct{}{
	".txt": {}, ".md": {}, ".py": {}, ".js": {}, ".html": {}, ".css": {},
	".json": {}, ".xml": {}, ".go": {}, ".csv": {},
}

// Index watches one directory tree and exposes read-only file snapshots.
type Index struct {
	root   string
	logger *zap.Logger

	mu      sync.RWMutex
	records map[string]knowledge.FileRecord

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

var _ ports.FileIndex = (*Index)(nil)

// NewIndex scans the monitored directory, creating it when missing, and
// starts watching for changes.
func NewIndex(root string, logger *zap.Logger) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	idx := &Index{
		root:    abs,
		logger:  logger,
		records: make(map[string]knowledge.FileRecord),
		stopCh:  make(chan struct{}),
	}

	if err := idx.scan(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	idx.watcher = watcher

	if err := idx.watchTree(); err != nil {
		watcher.Close()
		return nil, err
	}
	go idx.watchLoop()

	logger.Info("Monitoring folder",
		zap.String("path", abs),
		zap.Int("files", len(idx.records)),
	)
	return idx, nil
}

// Close stops the watch loop.
func (i *Index) Close() error {
	close(i.stopCh)
	return i.watcher.Close()
}

// Files lists every indexed file, sorted by path.
func (i *Index) Files() []knowledge.FileRecord {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]knowledge.FileRecord, 0, len(i.records))
	for _, rec := range i.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].FullPath < out[b].FullPath })
	return out
}

// Lookup reports whether a path is part of the monitored set.
func (i *Index) Lookup(path string) (knowledge.FileRecord, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return knowledge.FileRecord{}, false
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec, ok := i.records[abs]
	return rec, ok
}

// Content returns the extracted text of an indexed file, bounded to the
// content budget. Non-text formats yield an empty string with ok=true.
func (i *Index) Content(path string) (string, bool) {
	rec, ok := i.Lookup(path)
	if !ok {
		return "", false
	}
	if _, text := textFormats[strings.ToLower(rec.Format)]; !text {
		return "", true
	}

	data, err := os.ReadFile(rec.FullPath)
	if err != nil {
		i.logger.Warn("Failed to read indexed file",
			zap.String("path", rec.FullPath),
			zap.Error(err),
		)
		return "", true
	}
	if len(data) > maxContentBytes {
		data = data[:maxContentBytes]
	}
	return string(data), true
}

// scan walks the tree and builds the initial record set.
func (i *Index) scan() error {
	return filepath.WalkDir(i.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != i.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		i.index(path)
		return nil
	})
}

// index stats one file and upserts its record.
func (i *Index) index(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	rec := knowledge.FileRecord{
		Name:     info.Name(),
		Format:   filepath.Ext(path),
		Size:     info.Size(),
		Modified: info.ModTime().UTC(),
		FullPath: path,
	}
	i.mu.Lock()
	i.records[path] = rec
	i.mu.Unlock()
}

func (i *Index) drop(path string) {
	i.mu.Lock()
	delete(i.records, path)
	i.mu.Unlock()
}

// watchTree registers the root and every subdirectory with the watcher.
func (i *Index) watchTree() error {
	return filepath.WalkDir(i.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := i.watcher.Add(path); err != nil {
				i.logger.Warn("Failed to watch directory",
					zap.String("path", path),
					zap.Error(err),
				)
			}
		}
		return nil
	})
}

// watchLoop applies filesystem events to the index. Writes are debounced per
// path to avoid re-stating a file on every chunk of a large save.
func (i *Index) watchLoop() {
	const debounceDelay = 500 * time.Millisecond
	pending := make(map[string]*time.Timer)
	var pendingMu sync.Mutex

	for {
		select {
		case <-i.stopCh:
			return
		case event, ok := <-i.watcher.Events:
			if !ok {
				return
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				i.drop(event.Name)
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					i.watcher.Add(event.Name)
					continue
				}
				path := event.Name
				pendingMu.Lock()
				if timer, exists := pending[path]; exists {
					timer.Stop()
				}
				pending[path] = time.AfterFunc(debounceDelay, func() {
					i.index(path)
					pendingMu.Lock()
					delete(pending, path)
					pendingMu.Unlock()
				})
				pendingMu.Unlock()
			}
		case err, ok := <-i.watcher.Errors:
			if !ok {
				return
			}
			i.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}
