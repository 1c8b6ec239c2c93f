package main

import (
	"fmt"
	"strings"
	"time"

	"wxwatch/internal/config"
)

type commandContext struct {
	configFlag *string
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	path := ""
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// sinceLayout is the local-time form the --since flag accepts.
const sinceLayout = "20060102 15:04"

// parseBaseline interprets the --since flag: empty means "from now",
// anything else is a local time in "YYYYMMDD HH:MM" form.
func parseBaseline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now(), nil
	}
	baseline, err := time.ParseInLocation(sinceLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --since %q (want %q): %w", value, sinceLayout, err)
	}
	return baseline, nil
}

func formatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}
