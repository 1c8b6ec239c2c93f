package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wxwatch/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wxwatch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsOverFile(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, `
[paths]
watch_root = "`+root+`"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %s exists=%v, want the given path", resolved, exists)
	}
	if cfg.Paths.WatchRoot != root {
		t.Fatalf("watch_root = %s, want %s", cfg.Paths.WatchRoot, root)
	}
	if cfg.Monitor.Mode != config.ModeAttach {
		t.Fatalf("mode = %q, want attach default", cfg.Monitor.Mode)
	}
	if cfg.Queue.IdleThreshold != 60 || cfg.Queue.MinFiles != 3 {
		t.Fatalf("queue defaults = %d/%d, want 60/3", cfg.Queue.IdleThreshold, cfg.Queue.MinFiles)
	}
	if cfg.Queue.ReprocessPending != config.ReprocessKeep {
		t.Fatalf("reprocess_pending = %q, want keep default", cfg.Queue.ReprocessPending)
	}
	if cfg.Decode.Workers != 4 {
		t.Fatalf("workers = %d, want 4", cfg.Decode.Workers)
	}
}

func TestLoadOverrides(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, `
[paths]
watch_root = "`+root+`"

[monitor]
mode = "Observe"
extension = "DAT"
scan_interval = 10

[queue]
idle_threshold = 15
min_files = 1
reprocess_pending = "RESET"

[logging]
format = "json"
level = "debug"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Monitor.Mode != config.ModeObserve {
		t.Fatalf("mode = %q, want lowered observe", cfg.Monitor.Mode)
	}
	if cfg.Monitor.Extension != ".dat" {
		t.Fatalf("extension = %q, want dotted lowercase .dat", cfg.Monitor.Extension)
	}
	if cfg.Queue.ReprocessPending != config.ReprocessReset {
		t.Fatalf("reprocess_pending = %q, want reset", cfg.Queue.ReprocessPending)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %q/%q, want json/debug", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadRejectsMissingWatchRoot(t *testing.T) {
	path := writeConfig(t, `
[monitor]
mode = "attach"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "watch_root") {
		t.Fatalf("err = %v, want watch_root requirement", err)
	}
}

func TestLoadRejectsBadEnums(t *testing.T) {
	root := t.TempDir()
	cases := []struct {
		name    string
		section string
		wantErr string
	}{
		{"mode", "[monitor]\nmode = \"panic\"", "monitor.mode"},
		{"reprocess", "[queue]\nreprocess_pending = \"maybe\"", "queue.reprocess_pending"},
		{"format", "[logging]\nformat = \"xml\"", "logging.format"},
		{"level", "[logging]\nlevel = \"loud\"", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "[paths]\nwatch_root = \""+root+"\"\n\n"+tc.section+"\n")
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestLoadRejectsNonPositiveIntervals(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, `
[paths]
watch_root = "`+root+`"

[queue]
idle_threshold = -5
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("negative idle threshold must be rejected")
	}
}

func TestLoadMissingFileUsesDefaultsButFailsValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	_, _, _, err := config.Load(missing)
	if err == nil || !strings.Contains(err.Error(), "watch_root") {
		t.Fatalf("err = %v, want watch_root requirement from defaults", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"watch_root", "idle_threshold", "min_files", "reprocess_pending"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("sample config missing %s", key)
		}
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := config.ExpandPath("~/logs")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "logs") {
		t.Fatalf("expanded = %s, want under %s", got, home)
	}
}

func TestEnsureDirectoriesCreatesOutputs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s missing after EnsureDirectories", dir)
		}
	}
}
