package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Run modes for the monitor.
const (
	// ModeAttach watches the MsgAttach tree and decodes detections.
	ModeAttach = "attach"
	// ModeObserve only reports detections; oversize files are ignored.
	ModeObserve = "observe"
)

// Reprocess policies for groups that receive activity mid-processing.
const (
	// ReprocessKeep reports the whole accumulated pending count again.
	ReprocessKeep = "keep"
	// ReprocessReset counts only files that arrive after the interruption.
	ReprocessReset = "reset"
)

// Paths contains directory configuration.
type Paths struct {
	// WatchRoot is the MsgAttach directory watched recursively.
	WatchRoot string `toml:"watch_root"`
	// OutputDir receives the decoded .jpg mirror tree.
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	// ContactsDB is the WeChat Msg database used to map chat directory ids
	// to display names. Optional; ids are used verbatim when absent.
	ContactsDB string `toml:"contacts_db"`
}

// Monitor contains detection-source configuration.
type Monitor struct {
	Mode      string `toml:"mode"`
	Extension string `toml:"extension"`
	// ScanInterval is the polling backstop interval in seconds.
	ScanInterval int `toml:"scan_interval"`
	// MaxObserveFileSizeMB filters oversize files in observe mode.
	MaxObserveFileSizeMB int `toml:"max_observe_file_size_mb"`
}

// Queue contains debounce and scheduling configuration.
type Queue struct {
	// IdleThreshold is the quiet period in seconds a chat must accumulate
	// before it becomes eligible for the external action.
	IdleThreshold int `toml:"idle_threshold"`
	// MinFiles is the minimum pending count required for eligibility.
	MinFiles int `toml:"min_files"`
	// PollInterval is the processor loop tick in seconds.
	PollInterval int `toml:"poll_interval"`
	// ActionTimeout is the hard wall-clock limit for one action run, seconds.
	ActionTimeout int `toml:"action_timeout"`
	// ReprocessPending selects what happens to the pending count when a chat
	// receives new files while its action is running: "keep" or "reset".
	ReprocessPending string `toml:"reprocess_pending"`
}

// Action configures the external per-chat processing command.
type Action struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Decode configures the transform worker pool.
type Decode struct {
	Workers int `toml:"workers"`
	// AnnotateCommand, when set, runs per decoded file with the output path
	// and chat label as arguments. Best-effort; failures are swallowed.
	AnnotateCommand string `toml:"annotate_command"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for wxwatch.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Monitor Monitor `toml:"monitor"`
	Queue   Queue   `toml:"queue"`
	Action  Action  `toml:"action"`
	Decode  Decode  `toml:"decode"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wxwatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("wxwatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the monitor writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
