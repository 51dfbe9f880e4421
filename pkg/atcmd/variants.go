package atcmd

import (
	"fmt"
	"log/slog"
	"strings"
)

// ShellPrefix is the shell command that forwards its argument to the modem.
const ShellPrefix = "at "

// Host talks to an AT host application, which reads AT commands directly.
type Host struct {
	commander
}

// NewHost returns an Interface for an AT host application.
func NewHost(c Comms, logger *slog.Logger) *Host {
	return &Host{commander: newCommander(c, "", logger)}
}

// ShellMode reports false.
func (h *Host) ShellMode() bool { return false }

// Shell talks to an interactive shell that forwards "at <cmd>" lines to
// the modem and echoes its input.
type Shell struct {
	commander
}

// NewShell returns an Interface for an interactive shell.
func NewShell(c Comms, logger *slog.Logger) *Shell {
	return &Shell{commander: newCommander(c, ShellPrefix, logger)}
}

// ShellMode reports true.
func (s *Shell) ShellMode() bool { return true }

var (
	_ Interface = (*Host)(nil)
	_ Interface = (*Shell)(nil)
)

// Mode selects how the command interface is chosen.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeAT    Mode = "at"
	ModeShell Mode = "shell"
)

// ParseMode parses a --cmd-type value. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeAT, ModeShell:
		return m, nil
	}
	return "", fmt.Errorf("unknown command interface type %q (want auto, at or shell)", s)
}

// ForMode returns the Interface for mode, probing the device when mode
// is ModeAuto.
func ForMode(mode Mode, c Comms, logger *slog.Logger) (Interface, error) {
	switch mode {
	case ModeAT:
		return NewHost(c, logger), nil
	case ModeShell:
		return NewShell(c, logger), nil
	case ModeAuto, "":
		return Detect(c, logger)
	}
	return nil, fmt.Errorf("unknown command interface type %q", mode)
}
