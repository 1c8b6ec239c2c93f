package action

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Client invokes the configured external processing command for one chat.
// The chat label and pending file count are appended as the final two
// arguments; stdout and stderr are captured for logging only.
type Client struct {
	command string
	args    []string
	exec    Executor
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// New constructs a client for command. The caller bounds each invocation
// with its own context deadline.
func New(command string, args []string, opts ...Option) (*Client, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("action command required")
	}
	client := &Client{
		command: command,
		args:    append([]string(nil), args...),
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Run executes the command for label and returns its combined output. A
// context deadline surfaces as the context error so callers can distinguish
// a timeout from a non-zero exit.
func (c *Client) Run(ctx context.Context, label string, fileCount int) (string, error) {
	args := append(append([]string(nil), c.args...), label, strconv.Itoa(fileCount))

	var output strings.Builder
	err := c.exec.Run(ctx, c.command, args, func(line string) {
		if output.Len() > 0 {
			output.WriteByte('\n')
		}
		output.WriteString(line)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output.String(), fmt.Errorf("run %s: %w", c.command, ctxErr)
		}
		return output.String(), fmt.Errorf("run %s: %w", c.command, err)
	}
	return output.String(), nil
}

// LogOnly is the action used when no command is configured: the queue still
// drains, the settled batch is only reported.
type LogOnly struct{}

// Run reports nothing and always succeeds.
func (LogOnly) Run(context.Context, string, int) (string, error) {
	return "", nil
}
