// Package meeting is the boundary to the browser-based meeting-join workflow.
// The join automation itself lives in an external command; this package only
// starts it and tears it down when the operator presses the end button.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNotConfigured is returned when no join command is configured.
var ErrNotConfigured = errors.New("no meeting command configured")

type Joiner interface {
	// Join runs the meeting until ctx is cancelled or the helper exits.
	Join(ctx context.Context) error
}

// CommandJoiner runs a configured external command (typically a browser kiosk
// launcher) for the duration of the meeting.
type CommandJoiner struct {
	command string
	args    []string
}

func NewCommandJoiner(command string, args []string) *CommandJoiner {
	return &CommandJoiner{command: command, args: args}
}

func (j *CommandJoiner) Join(ctx context.Context) error {
	if j.command == "" {
		return ErrNotConfigured
	}

	cmd := exec.CommandContext(ctx, j.command, j.args...)
	err := cmd.Run()
	if ctx.Err() != nil {
		// Ended by the operator, not a failure.
		return nil
	}
	if err != nil {
		return fmt.Errorf("meeting command: %w", err)
	}
	return nil
}
