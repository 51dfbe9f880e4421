package atcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

var (
	// ErrATCommand marks an AT command that returned an error result or no result.
	ErrATCommand = errors.New("AT command failed")

	// ErrNoATClient is returned when the device answers neither plain nor
	// shell-prefixed AT commands.
	ErrNoATClient = errors.New("device does not respond to AT commands")
)

// CommandError reports a failed AT command.
type CommandError struct {
	// Command is the command line, shortened for display.
	Command string
	// TimedOut is set when no final result arrived.
	TimedOut bool
}

// NewCommandError returns a CommandError for cmd.
func NewCommandError(cmd string, timedOut bool) *CommandError {
	return &CommandError{Command: summarize(cmd), TimedOut: timedOut}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("AT command %s timed out", e.Command)
	}
	return fmt.Sprintf("AT command %s failed", e.Command)
}

// Is matches ErrATCommand, and transport.ErrTimeout for timed out commands.
func (e *CommandError) Is(target error) bool {
	return target == ErrATCommand || (e.TimedOut && target == transport.ErrTimeout)
}

// writePrefix starts a credential write; the quoted payload follows the
// third comma.
const writePrefix = "AT%CMNG=0,"

// summarize shortens cmd for display. Credential writes are cut before the
// payload, other commands at the first line break or maxLen bytes.
func summarize(cmd string) string {
	const maxLen = 40
	if i := strings.Index(cmd, writePrefix); i >= 0 {
		rest := cmd[i+len(writePrefix):]
		if fields := strings.SplitN(rest, ",", 3); len(fields) == 3 {
			return cmd[:i+len(writePrefix)] + fields[0] + "," + fields[1]
		}
	}
	if i := strings.IndexAny(cmd, "\r\n"); i >= 0 {
		cmd = cmd[:i] + "..."
	}
	if len(cmd) > maxLen {
		cmd = cmd[:maxLen] + "..."
	}
	return cmd
}
