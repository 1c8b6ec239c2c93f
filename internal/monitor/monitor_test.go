package monitor_test

import (
	"context"
	"testing"
	"time"

	"wxwatch/internal/groups"
	"wxwatch/internal/logging"
	"wxwatch/internal/monitor"
	"wxwatch/internal/testsupport"
)

func TestMonitorEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("wall-clock scenario")
	}

	cfg := testsupport.NewConfig(t)
	cfg.Queue.IdleThreshold = 1
	cfg.Queue.MinFiles = 2

	// Two files already on disk before the run, one arriving after.
	testsupport.WriteAttachment(t, cfg.Paths.WatchRoot, "abc123", "2026-03", "a.dat", []byte{0x10, 0x20}, 0x5A)
	testsupport.WriteAttachment(t, cfg.Paths.WatchRoot, "abc123", "2026-03", "b.dat", []byte{0x30}, 0x5A)

	resolver := groups.NewResolver(cfg.Paths.WatchRoot, map[string]string{"abc123": "Family"})
	action := newStubAction()
	submitter := newRecordingSubmitter()

	mon, err := monitor.New(cfg, time.Time{}, resolver, action, submitter, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := mon.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer mon.Stop()

	if got := mon.SeenFiles(); got != 2 {
		t.Fatalf("initial scan saw %d files, want 2", got)
	}

	testsupport.WriteAttachment(t, cfg.Paths.WatchRoot, "abc123", "2026-03", "c.dat", []byte{0x40}, 0x5A)
	waitFor(t, "third file", func() bool { return len(submitter.paths()) == 3 })

	waitForAction(t, action)
	action.mu.Lock()
	call := action.calls[0]
	action.mu.Unlock()
	if call.label != "Family" || call.count != 3 {
		t.Fatalf("action ran with %q/%d, want Family/3", call.label, call.count)
	}

	waitFor(t, "queue drain", func() bool { return len(mon.QueueStatus()) == 0 })
}

func TestMonitorObserveModeSkipsTransformAndOversize(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Monitor.Mode = "observe"
	cfg.Monitor.MaxObserveFileSizeMB = 1

	small := make([]byte, 16)
	big := make([]byte, (1<<20)+1)
	testsupport.WriteFile(t, cfg.Paths.WatchRoot+"/abc123/Image/2026-03/small.dat", small)
	testsupport.WriteFile(t, cfg.Paths.WatchRoot+"/abc123/Image/2026-03/big.dat", big)

	resolver := groups.NewResolver(cfg.Paths.WatchRoot, nil)
	action := newStubAction()
	submitter := newRecordingSubmitter()

	mon, err := monitor.New(cfg, time.Time{}, resolver, action, submitter, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := mon.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	mon.Stop()

	if got := len(submitter.paths()); got != 0 {
		t.Fatalf("observe mode submitted %d files, want 0", got)
	}
	statuses := mon.QueueStatus()
	if len(statuses) != 1 || statuses[0].PendingCount != 1 {
		t.Fatalf("queue = %+v, want one chat with only the small file", statuses)
	}
}

func TestMonitorRejectsSecondStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	resolver := groups.NewResolver(cfg.Paths.WatchRoot, nil)
	mon, err := monitor.New(cfg, time.Time{}, resolver, newStubAction(), nil, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := mon.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer mon.Stop()

	if err := mon.Start(context.Background()); err == nil {
		t.Fatal("second start must fail while running")
	}
}
