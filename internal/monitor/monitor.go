package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wxwatch/internal/config"
	"wxwatch/internal/logging"
)

// Monitor owns the shared state and the concurrent tasks of one run: the
// dedup ledger, activity tracker, and processing queue, plus the fsnotify
// watcher, the polling scanner, and the queue processor loop. Everything is
// constructed here and passed by explicit reference; nothing is ambient.
type Monitor struct {
	cfg      *config.Config
	ledger   *Ledger
	tracker  *Tracker
	queue    *Queue
	pipeline *Pipeline
	watcher  *Watcher
	scanner  *Scanner
	runner   *Runner
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New wires a monitor from configuration. baseline drops files modified
// before it (zero means detect everything). submitter may be nil; it is
// ignored in observe mode regardless.
func New(cfg *config.Config, baseline time.Time, resolver Resolver, action Action, submitter TransformSubmitter, logger *slog.Logger) (*Monitor, error) {
	if cfg == nil {
		return nil, errors.New("monitor requires config")
	}
	if resolver == nil {
		return nil, errors.New("monitor requires a resolver")
	}
	if action == nil {
		return nil, errors.New("monitor requires an action")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	observe := cfg.Monitor.Mode == config.ModeObserve
	var maxSize int64
	if observe {
		maxSize = int64(cfg.Monitor.MaxObserveFileSizeMB) << 20
		submitter = nil
	}

	ledger := NewLedger()
	tracker := NewTracker()
	queue := NewQueue(tracker, QueueOptions{
		IdleThreshold:          time.Duration(cfg.Queue.IdleThreshold) * time.Second,
		MinFiles:               cfg.Queue.MinFiles,
		KeepPendingOnReprocess: cfg.Queue.ReprocessPending == config.ReprocessKeep,
	})
	pipeline := NewPipeline(ledger, tracker, queue, resolver, submitter, PipelineOptions{
		Extension:   cfg.Monitor.Extension,
		Baseline:    baseline,
		MaxFileSize: maxSize,
	}, logging.NewComponentLogger(logger, "detect"))

	watcher, err := NewWatcher(pipeline, logging.NewComponentLogger(logger, "watcher"))
	if err != nil {
		return nil, err
	}
	scanner := NewScanner(pipeline, cfg.Paths.WatchRoot,
		time.Duration(cfg.Monitor.ScanInterval)*time.Second,
		logging.NewComponentLogger(logger, "scanner"))
	runner := NewRunner(queue, action,
		time.Duration(cfg.Queue.PollInterval)*time.Second,
		time.Duration(cfg.Queue.ActionTimeout)*time.Second,
		logging.NewComponentLogger(logger, "queue"))

	return &Monitor{
		cfg:      cfg,
		ledger:   ledger,
		tracker:  tracker,
		queue:    queue,
		pipeline: pipeline,
		watcher:  watcher,
		scanner:  scanner,
		runner:   runner,
		logger:   logger,
	}, nil
}

// Start sweeps the existing tree once, subscribes the watcher, and launches
// the scanner and processor loops. Only a failed watch-root subscription is
// fatal.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	found := m.scanner.ScanOnce()
	m.logger.Info("initial scan complete", logging.Int("detected", found))

	if err := m.watcher.Start(m.cfg.Paths.WatchRoot); err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		m.scanner.Run(runCtx)
	}()
	go func() {
		defer m.wg.Done()
		m.runner.Run(runCtx)
	}()
	return nil
}

// Stop terminates the loops after their in-progress iterations complete and
// tears down the watcher subscription. Queued chats that never became
// eligible simply remain unprocessed.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	if err := m.watcher.Close(); err != nil {
		m.logger.Warn("close watcher", logging.Error(err))
	}
}

// QueueStatus reports the queued chats ordered by descending idle time.
func (m *Monitor) QueueStatus() []QueueStatus {
	return m.queue.Status()
}

// SeenFiles returns how many distinct paths the run has admitted or marked.
func (m *Monitor) SeenFiles() int {
	return m.ledger.Len()
}
