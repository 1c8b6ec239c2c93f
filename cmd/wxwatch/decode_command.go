package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wxwatch/internal/decode"
	"wxwatch/internal/groups"
	"wxwatch/internal/logging"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "Decode every attachment already present in the watched tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatchDecode(cmd, ctx)
		},
	}
}

func runBatchDecode(cmd *cobra.Command, cmdCtx *commandContext) error {
	cfg, err := cmdCtx.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	labels, err := groups.LoadLabels(cmd.Context(), cfg.Paths.ContactsDB)
	if err != nil {
		logger.Warn("load chat labels; falling back to chat ids", logging.Error(err))
		labels = nil
	}
	resolver := groups.NewResolver(cfg.Paths.WatchRoot, labels)

	decoder := decode.NewDecoder(cfg.Paths.WatchRoot, cfg.Paths.OutputDir)
	pool := decode.NewPool(cfg.Decode.Workers, decoder, nil, logging.NewComponentLogger(logger, "decode"))

	submitted := 0
	start := time.Now()
	walkErr := filepath.WalkDir(cfg.Paths.WatchRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("scan entry", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() && path != cfg.Paths.WatchRoot {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), cfg.Monitor.Extension) {
			return nil
		}
		key, label, ok := resolver.Resolve(path)
		if !ok {
			return nil
		}
		if pool.Submit(path, key, label) {
			submitted++
		}
		return nil
	})
	pool.Drain()
	if walkErr != nil {
		return fmt.Errorf("walk %s: %w", cfg.Paths.WatchRoot, walkErr)
	}

	stats := pool.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Decoded %d of %d file(s) in %s (%d failed)\n",
		stats.Decoded, submitted, formatDuration(time.Since(start)), stats.Failed)
	return nil
}
