package monitor_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"wxwatch/internal/monitor"
)

func TestLedgerMarksEachPathExactlyOnce(t *testing.T) {
	ledger := monitor.NewLedger()

	if !ledger.MarkIfNew("/a/b.dat") {
		t.Fatal("first mark should report new")
	}
	if ledger.MarkIfNew("/a/b.dat") {
		t.Fatal("second mark should report seen")
	}
	if ledger.MarkIfNew("/a/b.dat") {
		t.Fatal("every later mark should report seen")
	}
	if !ledger.MarkIfNew("/a/c.dat") {
		t.Fatal("distinct path should report new")
	}
	if got := ledger.Len(); got != 2 {
		t.Fatalf("expected 2 seen paths, got %d", got)
	}
}

func TestLedgerSingleWinnerUnderConcurrentMarks(t *testing.T) {
	ledger := monitor.NewLedger()

	const goroutines = 16
	const paths = 100

	var wins atomic.Int64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < paths; i++ {
				if ledger.MarkIfNew(fmt.Sprintf("/chat/file-%03d.dat", i)) {
					wins.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != paths {
		t.Fatalf("expected exactly %d winning marks, got %d", paths, got)
	}
}
