package decode

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Annotator attaches metadata to a decoded file. Implementations are
// best-effort collaborators; the pool swallows their failures.
type Annotator interface {
	Annotate(ctx context.Context, outputPath, label string) error
}

// CommandAnnotator runs an external command per decoded file with the output
// path and chat label as arguments.
type CommandAnnotator struct {
	command string
	timeout time.Duration
}

// NewCommandAnnotator builds an annotator for command, or an error when the
// command is empty.
func NewCommandAnnotator(command string, timeout time.Duration) (*CommandAnnotator, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("annotate command required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CommandAnnotator{command: command, timeout: timeout}, nil
}

// Annotate invokes the command. Output is discarded; only the exit status
// matters, and even that only reaches a debug log.
func (a *CommandAnnotator) Annotate(ctx context.Context, outputPath, label string) error {
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, a.command, outputPath, label)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("annotate %s: %w (%s)", outputPath, err, strings.TrimSpace(string(out)))
	}
	return nil
}
