package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"wxwatch/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test
// and intervals short enough for test loops.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchRoot = filepath.Join(base, "msgattach")
	cfg.Paths.OutputDir = filepath.Join(base, "decoded")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Monitor.ScanInterval = 1
	cfg.Queue.PollInterval = 1

	if err := os.MkdirAll(cfg.Paths.WatchRoot, 0o755); err != nil {
		t.Fatalf("create watch root: %v", err)
	}
	return &cfg
}
