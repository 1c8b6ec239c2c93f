package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateDecode(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchRoot) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/wxwatch/config.toml"
		}
		return fmt.Errorf("paths.watch_root is required. Edit %s (create with 'wxwatch config init')", defaultPath)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	switch c.Monitor.Mode {
	case ModeAttach, ModeObserve:
	default:
		return fmt.Errorf("monitor.mode must be %q or %q, got %q", ModeAttach, ModeObserve, c.Monitor.Mode)
	}
	if err := ensurePositiveMap(map[string]int{
		"monitor.scan_interval":            c.Monitor.ScanInterval,
		"monitor.max_observe_file_size_mb": c.Monitor.MaxObserveFileSizeMB,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateQueue() error {
	if err := ensurePositiveMap(map[string]int{
		"queue.idle_threshold": c.Queue.IdleThreshold,
		"queue.min_files":      c.Queue.MinFiles,
		"queue.poll_interval":  c.Queue.PollInterval,
		"queue.action_timeout": c.Queue.ActionTimeout,
	}); err != nil {
		return err
	}
	switch c.Queue.ReprocessPending {
	case ReprocessKeep, ReprocessReset:
	default:
		return fmt.Errorf("queue.reprocess_pending must be %q or %q, got %q", ReprocessKeep, ReprocessReset, c.Queue.ReprocessPending)
	}
	return nil
}

func (c *Config) validateDecode() error {
	if c.Decode.Workers <= 0 {
		return errors.New("decode.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
