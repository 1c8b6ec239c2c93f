package config

const (
	defaultOutputDir            = "~/WeChat Decoded Images"
	defaultLogDir               = "~/.local/share/wxwatch/logs"
	defaultExtension            = ".dat"
	defaultScanInterval         = 30
	defaultMaxObserveFileSizeMB = 1
	defaultIdleThreshold        = 60
	defaultMinFiles             = 3
	defaultQueuePollInterval    = 5
	defaultActionTimeout        = 120
	defaultDecodeWorkers        = 4
	defaultLogFormat            = "auto"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Monitor: Monitor{
			Mode:                 ModeAttach,
			Extension:            defaultExtension,
			ScanInterval:         defaultScanInterval,
			MaxObserveFileSizeMB: defaultMaxObserveFileSizeMB,
		},
		Queue: Queue{
			IdleThreshold:    defaultIdleThreshold,
			MinFiles:         defaultMinFiles,
			PollInterval:     defaultQueuePollInterval,
			ActionTimeout:    defaultActionTimeout,
			ReprocessPending: ReprocessKeep,
		},
		Decode: Decode{
			Workers: defaultDecodeWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
