package monitor_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wxwatch/internal/groups"
	"wxwatch/internal/logging"
	"wxwatch/internal/monitor"
	"wxwatch/internal/testsupport"
)

type recordingSubmitter struct {
	mu       sync.Mutex
	accept   bool
	submits  []string
	labels   []string
	rejected int
}

func newRecordingSubmitter() *recordingSubmitter {
	return &recordingSubmitter{accept: true}
}

func (r *recordingSubmitter) Submit(path, key, label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.accept {
		r.rejected++
		return false
	}
	r.submits = append(r.submits, path)
	r.labels = append(r.labels, label)
	return true
}

func (r *recordingSubmitter) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.submits...)
}

type pipelineFixture struct {
	root      string
	ledger    *monitor.Ledger
	tracker   *monitor.Tracker
	queue     *monitor.Queue
	submitter *recordingSubmitter
	pipeline  *monitor.Pipeline
}

func newPipelineFixture(t *testing.T, opts monitor.PipelineOptions) *pipelineFixture {
	t.Helper()
	root := t.TempDir()
	ledger := monitor.NewLedger()
	tracker := monitor.NewTracker()
	queue := monitor.NewQueue(tracker, monitor.QueueOptions{IdleThreshold: time.Hour, MinFiles: 1})
	submitter := newRecordingSubmitter()
	resolver := groups.NewResolver(root, map[string]string{"chat1": "Team Alpha"})
	if opts.Extension == "" {
		opts.Extension = ".dat"
	}
	pipeline := monitor.NewPipeline(ledger, tracker, queue, resolver, submitter, opts, logging.NewNop())
	return &pipelineFixture{
		root:      root,
		ledger:    ledger,
		tracker:   tracker,
		queue:     queue,
		submitter: submitter,
		pipeline:  pipeline,
	}
}

func (f *pipelineFixture) write(t *testing.T, rel string, content []byte) string {
	t.Helper()
	return testsupport.WriteFile(t, filepath.Join(f.root, rel), content)
}

func TestPipelineAdmitsQualifyingFileOnce(t *testing.T) {
	f := newPipelineFixture(t, monitor.PipelineOptions{})
	path := f.write(t, "chat1/Image/2026-03/a.dat", []byte{0x01, 0x02})

	if !f.pipeline.HandlePath(path) {
		t.Fatal("first sighting should be admitted")
	}
	if f.pipeline.HandlePath(path) {
		t.Fatal("second sighting should be dropped by the ledger")
	}

	if got := f.tracker.PendingCount("chat1"); got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}
	if got := f.queue.Len(); got != 1 {
		t.Fatalf("queue len = %d, want 1", got)
	}
	if got := f.submitter.paths(); len(got) != 1 || got[0] != path {
		t.Fatalf("submitted = %v, want just %s", got, path)
	}
	if f.submitter.labels[0] != "Team Alpha" {
		t.Fatalf("submitted label = %q, want resolved label", f.submitter.labels[0])
	}
}

func TestPipelineFiltersExtension(t *testing.T) {
	f := newPipelineFixture(t, monitor.PipelineOptions{})
	path := f.write(t, "chat1/Image/2026-03/a.jpg", []byte{0x01})

	if f.pipeline.HandlePath(path) {
		t.Fatal("non-matching extension must be ignored")
	}
	if got := f.ledger.Len(); got != 0 {
		t.Fatal("extension misses must not consume ledger entries")
	}

	upper := f.write(t, "chat1/Image/2026-03/b.DAT", []byte{0x01})
	if !f.pipeline.HandlePath(upper) {
		t.Fatal("extension match must be case-insensitive")
	}
}

func TestPipelineSkipsUnresolvablePathSilently(t *testing.T) {
	f := newPipelineFixture(t, monitor.PipelineOptions{})
	path := f.write(t, "stray.dat", []byte{0x01})

	if f.pipeline.HandlePath(path) {
		t.Fatal("file outside any chat directory must be skipped")
	}
	if got := f.queue.Len(); got != 0 {
		t.Fatalf("queue len = %d, want 0", got)
	}
}

func TestPipelineBaselineCutoff(t *testing.T) {
	f := newPipelineFixture(t, monitor.PipelineOptions{Baseline: time.Now().Add(time.Hour)})
	path := f.write(t, "chat1/Image/2026-03/a.dat", []byte{0x01})

	if f.pipeline.HandlePath(path) {
		t.Fatal("file older than baseline must be ignored")
	}
	if f.pipeline.HandlePath(path) {
		t.Fatal("baseline misses stay marked and are never re-admitted")
	}
}

func TestPipelineMaxSizeCutoff(t *testing.T) {
	f := newPipelineFixture(t, monitor.PipelineOptions{MaxFileSize: 4})
	big := f.write(t, "chat1/Image/2026-03/big.dat", []byte{1, 2, 3, 4, 5})
	small := f.write(t, "chat1/Image/2026-03/small.dat", []byte{1, 2})

	if f.pipeline.HandlePath(big) {
		t.Fatal("oversize file must be ignored silently")
	}
	if !f.pipeline.HandlePath(small) {
		t.Fatal("small file must be admitted")
	}
}

func TestPipelineMissingFileIsDropped(t *testing.T) {
	f := newPipelineFixture(t, monitor.PipelineOptions{})
	ghost := filepath.Join(f.root, "chat1", "Image", "gone.dat")
	_ = os.MkdirAll(filepath.Dir(ghost), 0o755)

	if f.pipeline.HandlePath(ghost) {
		t.Fatal("unstattable path must not be admitted")
	}
}

func TestPipelineWithoutSubmitterStillQueues(t *testing.T) {
	root := t.TempDir()
	ledger := monitor.NewLedger()
	tracker := monitor.NewTracker()
	queue := monitor.NewQueue(tracker, monitor.QueueOptions{IdleThreshold: time.Hour, MinFiles: 1})
	resolver := groups.NewResolver(root, nil)
	pipeline := monitor.NewPipeline(ledger, tracker, queue, resolver, nil, monitor.PipelineOptions{Extension: ".dat"}, logging.NewNop())

	path := testsupport.WriteFile(t, filepath.Join(root, "chatX", "Image", "a.dat"), []byte{0x01})
	if !pipeline.HandlePath(path) {
		t.Fatal("observe-only pipeline should still admit files")
	}
	if got := queue.Len(); got != 1 {
		t.Fatalf("queue len = %d, want 1", got)
	}
}
