package monitor

import "sync"

// Ledger is the shared set of file paths every detection source has already
// admitted to the pipeline. Both the fsnotify watcher and the polling
// scanner race to mark a path; exactly one wins and the loser drops the
// detection. Entries are never evicted for the lifetime of the process, so a
// path can produce at most one detection per run.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// MarkIfNew atomically records path and reports whether it was unseen.
func (l *Ledger) MarkIfNew(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[path]; ok {
		return false
	}
	l.seen[path] = struct{}{}
	return true
}

// Len returns the number of distinct paths seen so far.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
