package monitor

import (
	"sync"
	"time"
)

type activityRecord struct {
	lastActivity time.Time
	pending      int
}

// Tracker records per-chat activity recency and pending-file volume. A
// record is created on the first detection for a chat, refreshed on every
// subsequent one, and deleted only when the chat finishes processing
// cleanly. lastActivity never moves backward while the record exists.
type Tracker struct {
	mu      sync.Mutex
	records map[string]*activityRecord
	clock   func() time.Time
}

// NewTracker returns a tracker using the wall clock.
func NewTracker() *Tracker {
	return NewTrackerWithClock(time.Now)
}

// NewTrackerWithClock returns a tracker with an injected clock, used by
// tests to step idle time without sleeping.
func NewTrackerWithClock(clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{records: make(map[string]*activityRecord), clock: clock}
}

// Update creates or refreshes the record for key: last activity becomes now
// and the pending count grows by one.
func (t *Tracker) Update(key string) {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.records[key]
	if !ok {
		record = &activityRecord{}
		t.records[key] = record
	}
	if now.After(record.lastActivity) {
		record.lastActivity = now
	}
	record.pending++
}

// IdleSince returns the elapsed time since the chat's last activity. ok is
// false when no record exists, meaning the chat is never eligible.
func (t *Tracker) IdleSince(key string) (time.Duration, bool) {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.records[key]
	if !ok {
		return 0, false
	}
	idle := now.Sub(record.lastActivity)
	if idle < 0 {
		idle = 0
	}
	return idle, true
}

// PendingCount returns the number of files detected for key since its record
// was created or last discounted.
func (t *Tracker) PendingCount(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.records[key]
	if !ok {
		return 0
	}
	return record.pending
}

// Reset deletes the record for key. Called only on a clean, non-reprocessing
// completion.
func (t *Tracker) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, key)
}

// Discount subtracts n from the pending count for key, flooring at zero.
// Used by the "reset" reprocess policy so a re-run only reports files that
// arrived after the interrupted action started.
func (t *Tracker) Discount(key string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.records[key]
	if !ok {
		return
	}
	record.pending -= n
	if record.pending < 0 {
		record.pending = 0
	}
}
