package monitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wxwatch/internal/logging"
)

// Resolver maps a detected path to its chat identity. Paths that do not
// belong to a chat directory report ok false and are skipped silently.
type Resolver interface {
	Resolve(path string) (key, label string, ok bool)
}

// TransformSubmitter accepts per-file transform work without blocking.
// Submit reports false when the pool is no longer accepting tasks.
type TransformSubmitter interface {
	Submit(path, key, label string) bool
}

// Pipeline is the shared handling path behind every detection source: the
// dedup gate, the qualification filters, activity bookkeeping, queueing, and
// the hand-off to the transform pool. Both the fsnotify watcher and the
// polling scanner call HandlePath for every sighting; the ledger guarantees
// a single winner per path.
type Pipeline struct {
	ledger    *Ledger
	tracker   *Tracker
	queue     *Queue
	resolver  Resolver
	submitter TransformSubmitter

	extension   string
	baseline    time.Time
	maxFileSize int64

	logger *slog.Logger
}

// PipelineOptions configure the qualification filters.
type PipelineOptions struct {
	// Extension admits only matching files, compared case-insensitively.
	Extension string
	// Baseline drops files whose modification time predates it. Zero means
	// no cutoff.
	Baseline time.Time
	// MaxFileSize drops larger files silently. Zero means no limit.
	MaxFileSize int64
}

// NewPipeline wires the shared state behind the detection sources. submitter
// may be nil for observe-only runs.
func NewPipeline(ledger *Ledger, tracker *Tracker, queue *Queue, resolver Resolver, submitter TransformSubmitter, opts PipelineOptions, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		ledger:      ledger,
		tracker:     tracker,
		queue:       queue,
		resolver:    resolver,
		submitter:   submitter,
		extension:   strings.ToLower(opts.Extension),
		baseline:    opts.Baseline,
		maxFileSize: opts.MaxFileSize,
		logger:      logger,
	}
}

// HandlePath runs one detected path through the pipeline and reports whether
// it was admitted. Duplicate, unqualified, and unresolvable paths all return
// false with no side effects beyond the dedup mark.
func (p *Pipeline) HandlePath(path string) bool {
	if p.extension != "" && !strings.EqualFold(filepath.Ext(path), p.extension) {
		return false
	}
	if !p.ledger.MarkIfNew(path) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		p.logger.Debug("stat detected file", logging.String("path", path), logging.Error(err))
		return false
	}
	if info.IsDir() {
		return false
	}
	if !p.baseline.IsZero() && info.ModTime().Before(p.baseline) {
		return false
	}
	if p.maxFileSize > 0 && info.Size() > p.maxFileSize {
		return false
	}

	key, label, ok := p.resolver.Resolve(path)
	if !ok {
		return false
	}

	p.tracker.Update(key)
	if p.queue.MarkActivityDuringProcessing(key) {
		p.logger.Warn("file arrived while its chat is processing; chat will be reprocessed",
			logging.String("chat", label),
		)
	}
	p.queue.AddOrUpdate(key, label)

	p.logger.Info("new attachment detected",
		logging.String("path", path),
		logging.String("chat", label),
		logging.Time("modified", info.ModTime()),
		logging.Int("pending_files", p.tracker.PendingCount(key)),
	)

	if p.submitter != nil {
		if !p.submitter.Submit(path, key, label) {
			p.logger.Warn("transform pool not accepting work; file left encoded",
				logging.String("path", path),
			)
		}
	}
	return true
}
