package monitor

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"wxwatch/internal/logging"
)

// Scanner periodically walks the watched subtree and runs every file through
// the shared pipeline. It exists because filesystem notification APIs drop
// events under load; polling guarantees eventual detection with latency
// bounded by the interval. The dedup ledger absorbs everything the watcher
// already admitted.
type Scanner struct {
	pipeline *Pipeline
	root     string
	interval time.Duration
	logger   *slog.Logger
}

// NewScanner constructs a scanner over root.
func NewScanner(pipeline *Pipeline, root string, interval time.Duration, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{pipeline: pipeline, root: root, interval: interval, logger: logger}
}

// Run polls until ctx is cancelled. An in-progress sweep completes before
// the loop exits.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if admitted := s.ScanOnce(); admitted > 0 {
				s.logger.Debug("poll sweep admitted files missed by the watcher",
					logging.Int("admitted", admitted),
				)
			}
		}
	}
}

// ScanOnce walks the subtree once and returns how many files the pipeline
// admitted. Unreadable entries are logged and skipped; a bad subtree never
// aborts the sweep.
func (s *Scanner) ScanOnce() int {
	admitted := 0
	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("scan entry", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() && path != s.root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if s.pipeline.HandlePath(path) {
			admitted++
		}
		return nil
	})
	if walkErr != nil {
		s.logger.Warn("scan walk", logging.Error(walkErr))
	}
	return admitted
}
