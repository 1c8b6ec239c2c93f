package monitor

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"wxwatch/internal/logging"
)

// Watcher subscribes to filesystem notifications for the watched subtree and
// feeds create/write events into the shared pipeline. inotify-style APIs are
// not recursive, so every directory is registered individually and new
// directories are added as their create events arrive. Delivery is
// best-effort; the polling scanner backstops anything the kernel drops.
type Watcher struct {
	fs       *fsnotify.Watcher
	pipeline *Pipeline
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewWatcher constructs a watcher feeding pipeline.
func NewWatcher(pipeline *Pipeline, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{fs: fsw, pipeline: pipeline, logger: logger}, nil
}

// Start registers the subtree rooted at root and begins dispatching events.
// Failure to watch the root itself is fatal to the run.
func (w *Watcher) Start(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch root %s is not a directory", root)
	}
	if err := w.addRecursive(root); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Close tears down the subscription and waits for the dispatch goroutine.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watchNewDir(event.Name)
			return
		}
	}
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
		w.pipeline.HandlePath(event.Name)
	}
}

// watchNewDir registers a directory that appeared after Start and sweeps it
// once: files written between the mkdir and the watch registration produce
// no events, so the sweep is the only way they are seen promptly.
func (w *Watcher) watchNewDir(dir string) {
	if err := w.addRecursive(dir); err != nil {
		w.logger.Warn("watch new directory", logging.String("dir", dir), logging.Error(err))
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		w.pipeline.HandlePath(path)
		return nil
	})
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walk watch root: %w", err)
			}
			w.logger.Warn("skip unreadable entry", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.fs.Add(path); addErr != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", path, addErr)
			}
			w.logger.Warn("watch subdirectory", logging.String("dir", path), logging.Error(addErr))
		}
		return nil
	})
}
