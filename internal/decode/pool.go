package decode

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"wxwatch/internal/logging"
)

// Task is one file awaiting decoding.
type Task struct {
	Path  string
	Key   string
	Label string
}

// Stats counts pool outcomes for end-of-run reporting.
type Stats struct {
	Decoded int64
	Failed  int64
}

// Pool decodes detected files on a fixed number of workers so detection
// latency stays decoupled from transform latency. The task queue is
// unbounded; concurrency, not admission, is what the pool limits. Drain
// stops intake, lets in-flight and queued tasks finish, and then returns.
type Pool struct {
	decoder   *Decoder
	annotator Annotator
	logger    *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool
	wg     sync.WaitGroup

	decoded int64
	failed  int64
}

// NewPool starts workers immediately. annotator may be nil.
func NewPool(workers int, decoder *Decoder, annotator Annotator, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pool{decoder: decoder, annotator: annotator, logger: logger}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues one file for decoding and returns immediately. Reports false
// once the pool is draining.
func (p *Pool) Submit(path, key, label string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, Task{Path: path, Key: key, Label: label})
	p.cond.Signal()
	return true
}

// Drain rejects further submissions and blocks until every queued and
// in-flight task has completed.
func (p *Pool) Drain() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// Stats returns the outcome counters so far.
func (p *Pool) Stats() Stats {
	return Stats{
		Decoded: atomic.LoadInt64(&p.decoded),
		Failed:  atomic.LoadInt64(&p.failed),
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	outputPath, err := p.decoder.Decode(task.Path, task.Label)
	if err != nil {
		atomic.AddInt64(&p.failed, 1)
		p.logger.Error("decode failed",
			logging.String("path", task.Path),
			logging.String("chat", task.Label),
			logging.Error(err),
		)
		return
	}
	atomic.AddInt64(&p.decoded, 1)
	p.logger.Info("decoded",
		logging.String("path", task.Path),
		logging.String("output", outputPath),
		logging.String("chat", task.Label),
	)

	if p.annotator == nil {
		return
	}
	// Annotation is best-effort and must never fail the decode.
	if err := p.annotator.Annotate(context.Background(), outputPath, task.Label); err != nil {
		p.logger.Debug("annotation failed",
			logging.String("output", outputPath),
			logging.Error(err),
		)
	}
}
