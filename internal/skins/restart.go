package skins

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"mediabrowse/internal/logging"
)

// ErrNoRestartCommand is returned when no restart command is configured.
var ErrNoRestartCommand = errors.New("no restart command configured")

// CommandRestarter restarts the GUI by running Command, e.g.
// "init 4 && init 3".
type CommandRestarter struct {
	Command string
	Timeout time.Duration
}

// Restart runs the command through /bin/sh.
func (c CommandRestarter) Restart() error {
	if strings.TrimSpace(c.Command) == "" {
		return ErrNoRestartCommand
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "/bin/sh", "-c", c.Command).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.Command, err, strings.TrimSpace(string(out)))
	}
	logging.Named("skins").Info("gui restart issued", zap.String("command", c.Command))
	return nil
}
