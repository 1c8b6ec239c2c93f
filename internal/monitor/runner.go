package monitor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"wxwatch/internal/logging"
)

// Action is the external per-chat processing step, injected so tests can
// substitute one with controllable latency and outcome. Run receives the
// chat label and pending file count and returns whatever output the action
// produced; the queue's control flow never branches on the result beyond
// logging it.
type Action interface {
	Run(ctx context.Context, label string, fileCount int) (string, error)
}

// Runner is the control loop that drains the queue: poll for an eligible
// chat, run the action single-flight, reconcile completion. The action is
// assumed to contend for an exclusive resource (the desktop UI), so only one
// invocation ever runs at a time across the whole queue.
type Runner struct {
	queue    *Queue
	action   Action
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRunner constructs the processing loop.
func NewRunner(queue *Queue, action Action, interval, timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{queue: queue, action: action, interval: interval, timeout: timeout, logger: logger}
}

// Run polls until ctx is cancelled. An in-flight action completes before the
// loop exits; its timeout bounds how long shutdown can take.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		candidate := r.queue.NextToProcess()
		if candidate == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.interval):
			}
			continue
		}
		r.process(ctx, candidate)
	}
}

func (r *Runner) process(ctx context.Context, candidate *Candidate) {
	logger := r.logger.With(
		logging.String("chat", candidate.Label),
		logging.String("invocation_id", uuid.NewString()),
	)
	logger.Info("chat settled; running action",
		logging.Int("pending_files", candidate.PendingCount),
		logging.Duration("idle", candidate.Idle),
	)

	// Detach from the run context so shutdown lets the in-flight action
	// finish; the hard timeout still bounds it.
	actionCtx := context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		actionCtx, cancel = context.WithTimeout(actionCtx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	output, err := r.action.Run(actionCtx, candidate.Label, candidate.PendingCount)
	elapsed := time.Since(start)

	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		logger.Error("action timed out", logging.Duration("elapsed", elapsed))
	case err != nil:
		logger.Error("action failed", logging.Error(err), logging.Duration("elapsed", elapsed))
	default:
		logger.Info("action completed", logging.Duration("elapsed", elapsed))
	}
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		logger.Debug("action output", logging.String("output", trimmed))
	}

	if r.queue.Finish(candidate.Key) {
		logger.Warn("files arrived during processing; chat queued for another run")
	}
}
