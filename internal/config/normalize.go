package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMonitor()
	c.normalizeQueue()
	c.normalizeDecode()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WatchRoot, err = expandPath(c.Paths.WatchRoot); err != nil {
		return fmt.Errorf("paths.watch_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ContactsDB, err = expandPath(c.Paths.ContactsDB); err != nil {
		return fmt.Errorf("paths.contacts_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeMonitor() {
	c.Monitor.Mode = strings.ToLower(strings.TrimSpace(c.Monitor.Mode))
	if c.Monitor.Mode == "" {
		c.Monitor.Mode = ModeAttach
	}
	c.Monitor.Extension = strings.ToLower(strings.TrimSpace(c.Monitor.Extension))
	if c.Monitor.Extension == "" {
		c.Monitor.Extension = defaultExtension
	}
	if !strings.HasPrefix(c.Monitor.Extension, ".") {
		c.Monitor.Extension = "." + c.Monitor.Extension
	}
	if c.Monitor.ScanInterval == 0 {
		c.Monitor.ScanInterval = defaultScanInterval
	}
	if c.Monitor.MaxObserveFileSizeMB == 0 {
		c.Monitor.MaxObserveFileSizeMB = defaultMaxObserveFileSizeMB
	}
}

func (c *Config) normalizeQueue() {
	if c.Queue.IdleThreshold == 0 {
		c.Queue.IdleThreshold = defaultIdleThreshold
	}
	if c.Queue.MinFiles == 0 {
		c.Queue.MinFiles = defaultMinFiles
	}
	if c.Queue.PollInterval == 0 {
		c.Queue.PollInterval = defaultQueuePollInterval
	}
	if c.Queue.ActionTimeout == 0 {
		c.Queue.ActionTimeout = defaultActionTimeout
	}
	c.Queue.ReprocessPending = strings.ToLower(strings.TrimSpace(c.Queue.ReprocessPending))
	if c.Queue.ReprocessPending == "" {
		c.Queue.ReprocessPending = ReprocessKeep
	}
}

func (c *Config) normalizeDecode() {
	if c.Decode.Workers == 0 {
		c.Decode.Workers = defaultDecodeWorkers
	}
	c.Decode.AnnotateCommand = strings.TrimSpace(c.Decode.AnnotateCommand)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
