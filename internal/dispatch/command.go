package dispatch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/zulandar/cadence/internal/models"
)

// CommandSink runs a shell command template per notification, e.g.
// "notify-send 'Cadence' '{{.Title}}'". When running inside tmux it also
// flashes a tmux status message.
type CommandSink struct {
	command string
}

// NewCommandSink creates a CommandSink for the given template.
func NewCommandSink(command string) (*CommandSink, error) {
	if command == "" {
		return nil, fmt.Errorf("dispatch: command template is required")
	}
	return &CommandSink{command: command}, nil
}

func (c *CommandSink) Name() string { return "command" }

// Deliver runs the templated command. Command failures are returned for the
// caller to log; they carry no retry semantics.
func (c *CommandSink) Deliver(ctx context.Context, n *models.Notification) error {
	cmdStr := templateNotification(c.command, n)
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("dispatch: command sink: %v: %s", err, strings.TrimSpace(string(out)))
	}

	if os.Getenv("TMUX") != "" {
		tmuxMsg := n.Title + ": " + n.Message
		exec.CommandContext(ctx, "tmux", "display-message", tmuxMsg).Run()
	}
	return nil
}

func (c *CommandSink) Close() error { return nil }

// templateNotification replaces placeholders in the command template with
// notification values.
func templateNotification(command string, n *models.Notification) string {
	r := strings.NewReplacer(
		"{{.Title}}", n.Title,
		"{{.Message}}", n.Message,
		"{{.Category}}", n.Category,
		"{{.Priority}}", n.Priority,
		"{{.ID}}", n.ID,
	)
	return r.Replace(command)
}
