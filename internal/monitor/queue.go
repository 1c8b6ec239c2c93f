package monitor

import (
	"sort"
	"sync"
	"time"
)

// Entry is a chat awaiting or undergoing processing. At most one entry per
// chat exists at a time.
type Entry struct {
	Key        string
	Label      string
	EnqueuedAt time.Time
}

// Candidate is the entry selected for processing together with the metrics
// that made it eligible.
type Candidate struct {
	Entry
	PendingCount int
	Idle         time.Duration
}

// QueueStatus describes one queued chat for observability output.
type QueueStatus struct {
	Key          string
	Label        string
	PendingCount int
	Idle         time.Duration
	Processing   bool
}

// QueueOptions bound eligibility decisions.
type QueueOptions struct {
	// IdleThreshold is the minimum quiet period before a chat may run.
	IdleThreshold time.Duration
	// MinFiles is the minimum pending count before a chat may run.
	MinFiles int
	// KeepPendingOnReprocess keeps the whole accumulated pending count when
	// a chat is interrupted mid-processing; when false, the count already
	// handed to the action is discounted so a re-run reports only the delta.
	KeepPendingOnReprocess bool
}

// Queue is the central per-chat scheduling state machine:
//
//	absent -> queued -> processing -> queued again (interrupted) or absent
//
// Exactly one chat may be processing at a time, across the whole queue.
type Queue struct {
	mu      sync.Mutex
	tracker *Tracker
	opts    QueueOptions
	clock   func() time.Time

	entries        map[string]*Entry
	processing     string
	needsReprocess map[string]struct{}
	pendingAtStart int
}

// NewQueue builds a queue reading activity metrics from tracker.
func NewQueue(tracker *Tracker, opts QueueOptions) *Queue {
	return &Queue{
		tracker:        tracker,
		opts:           opts,
		clock:          tracker.clock,
		entries:        make(map[string]*Entry),
		needsReprocess: make(map[string]struct{}),
	}
}

// AddOrUpdate ensures an entry exists for key. Idempotent; the original
// enqueue time is kept when the entry already exists.
func (q *Queue) AddOrUpdate(key, label string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if entry, ok := q.entries[key]; ok {
		entry.Label = label
		return
	}
	q.entries[key] = &Entry{Key: key, Label: label, EnqueuedAt: q.clock()}
}

// MarkActivityDuringProcessing flags key for reprocessing if it is the chat
// currently being processed, and reports whether it did so. Callers log the
// returned true as a "will be reprocessed" warning.
func (q *Queue) MarkActivityDuringProcessing(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if key == "" || key != q.processing {
		return false
	}
	q.needsReprocess[key] = struct{}{}
	return true
}

// NextToProcess selects the next chat to run, or nil when one is already in
// flight or no queued chat is both idle past the threshold and holding
// enough pending files. Among eligible chats the longest-idle one wins. The
// chosen key is marked as processing before returning.
func (q *Queue) NextToProcess() *Candidate {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.processing != "" {
		return nil
	}

	var best *Candidate
	for key, entry := range q.entries {
		idle, ok := q.tracker.IdleSince(key)
		if !ok || idle < q.opts.IdleThreshold {
			continue
		}
		pending := q.tracker.PendingCount(key)
		if pending < q.opts.MinFiles {
			continue
		}
		if best == nil || idle > best.Idle {
			best = &Candidate{Entry: *entry, PendingCount: pending, Idle: idle}
		}
	}
	if best == nil {
		return nil
	}

	q.processing = best.Key
	q.pendingAtStart = best.PendingCount
	return best
}

// Finish reconciles the end of an action run for key and reports whether the
// chat needs reprocessing. On a clean finish the entry is removed and the
// activity record reset; on an interrupted one both are kept so the chat
// resurfaces once idle again.
func (q *Queue) Finish(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if key == q.processing {
		q.processing = ""
	}
	if _, interrupted := q.needsReprocess[key]; interrupted {
		delete(q.needsReprocess, key)
		if !q.opts.KeepPendingOnReprocess {
			q.tracker.Discount(key, q.pendingAtStart)
		}
		return true
	}
	delete(q.entries, key)
	q.tracker.Reset(key)
	return false
}

// InFlight returns the key currently being processed, if any.
func (q *Queue) InFlight() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing, q.processing != ""
}

// Len returns the number of queued chats, including one in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Status lists every queued chat ordered by descending idle time.
func (q *Queue) Status() []QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]QueueStatus, 0, len(q.entries))
	for key, entry := range q.entries {
		idle, _ := q.tracker.IdleSince(key)
		out = append(out, QueueStatus{
			Key:          key,
			Label:        entry.Label,
			PendingCount: q.tracker.PendingCount(key),
			Idle:         idle,
			Processing:   key == q.processing,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Idle != out[j].Idle {
			return out[i].Idle > out[j].Idle
		}
		return out[i].Key < out[j].Key
	})
	return out
}
