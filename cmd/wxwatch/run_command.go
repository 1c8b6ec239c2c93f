package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wxwatch/internal/action"
	"wxwatch/internal/config"
	"wxwatch/internal/decode"
	"wxwatch/internal/groups"
	"wxwatch/internal/logging"
	"wxwatch/internal/monitor"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var sinceFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the attachment tree and process chats as they settle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, ctx, modeFlag, sinceFlag)
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", `Run mode: "attach" decodes detections, "observe" only reports them`)
	cmd.Flags().StringVar(&sinceFlag, "since", "", `Ignore files modified before this time ("YYYYMMDD HH:MM", default: now)`)
	return cmd
}

func runMonitor(cmd *cobra.Command, cmdCtx *commandContext, modeFlag, sinceFlag string) error {
	signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := cmdCtx.loadConfig()
	if err != nil {
		return err
	}
	if modeFlag != "" {
		cfg.Monitor.Mode = modeFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	baseline, err := parseBaseline(sinceFlag)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := uuid.NewString()[:8]
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("wxwatch-%s.log", time.Now().Format("20060102T150405")))
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	// Two concurrent runs would double-submit decodes and race for the
	// desktop UI the action automates.
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "wxwatch.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another wxwatch run already holds %s", lock.Path())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	labels, err := groups.LoadLabels(signalCtx, cfg.Paths.ContactsDB)
	if err != nil {
		logger.Warn("load chat labels; falling back to chat ids", logging.Error(err))
		labels = nil
	}
	resolver := groups.NewResolver(cfg.Paths.WatchRoot, labels)

	var pool *decode.Pool
	var submitter monitor.TransformSubmitter
	if cfg.Monitor.Mode == config.ModeAttach {
		decoder := decode.NewDecoder(cfg.Paths.WatchRoot, cfg.Paths.OutputDir)
		var annotator decode.Annotator
		if cfg.Decode.AnnotateCommand != "" {
			commandAnnotator, annotateErr := decode.NewCommandAnnotator(cfg.Decode.AnnotateCommand, 30*time.Second)
			if annotateErr != nil {
				logger.Warn("annotate command disabled", logging.Error(annotateErr))
			} else {
				annotator = commandAnnotator
			}
		}
		pool = decode.NewPool(cfg.Decode.Workers, decoder, annotator, logging.NewComponentLogger(logger, "decode"))
		submitter = pool
	}

	var chatAction monitor.Action
	if cfg.Action.Command != "" {
		client, actionErr := action.New(cfg.Action.Command, cfg.Action.Args)
		if actionErr != nil {
			return actionErr
		}
		chatAction = client
	} else {
		logger.Info("no action command configured; settled chats are only reported")
		chatAction = action.LogOnly{}
	}

	mon, err := monitor.New(cfg, baseline, resolver, chatAction, submitter, logger)
	if err != nil {
		return err
	}
	if err := mon.Start(signalCtx); err != nil {
		return err
	}
	logger.Info("monitoring started",
		logging.String("root", cfg.Paths.WatchRoot),
		logging.String("mode", cfg.Monitor.Mode),
		logging.Time("baseline", baseline),
		logging.Int("known_chats", len(labels)),
	)

	<-signalCtx.Done()
	logger.Info("shutting down")
	mon.Stop()
	if pool != nil {
		pool.Drain()
		stats := pool.Stats()
		logger.Info("decode pool drained",
			logging.Int64("decoded", stats.Decoded),
			logging.Int64("failed", stats.Failed),
		)
	}

	if remaining := mon.QueueStatus(); len(remaining) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Chats left unprocessed:")
		fmt.Fprintln(cmd.OutOrStdout(), renderQueueStatus(remaining))
	}
	return nil
}

func renderQueueStatus(statuses []monitor.QueueStatus) string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		state := "queued"
		if status.Processing {
			state = "processing"
		}
		rows = append(rows, []string{
			status.Label,
			fmt.Sprintf("%d", status.PendingCount),
			formatDuration(status.Idle),
			state,
		})
	}
	return renderTable([]tableColumn{
		{Title: "Chat"},
		{Title: "Pending", Right: true},
		{Title: "Idle", Right: true},
		{Title: "State"},
	}, rows)
}
