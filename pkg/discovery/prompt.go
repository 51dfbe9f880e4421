package discovery

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Prompter asks the operator to choose one of several options and returns
// the chosen index.
type Prompter interface {
	Select(title string, options []string) (int, error)
}

// ErrSelectionAborted is returned when the operator provides no valid choice.
var ErrSelectionAborted = errors.New("device selection aborted")

var (
	titleFmt  = color.New(color.FgCyan, color.Bold).SprintFunc()
	indexFmt  = color.New(color.FgYellow).SprintFunc()
	promptFmt = color.New(color.Bold).SprintFunc()
)

// TerminalPrompter shows a numbered menu and reads the choice from In.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

// Select prints options and reads a choice. An empty answer selects the
// first option. Invalid answers are re-prompted until input ends.
func (p TerminalPrompter) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, ErrSelectionAborted
	}
	fmt.Fprintln(p.Out, titleFmt(title))
	for i, opt := range options {
		fmt.Fprintf(p.Out, "  [%s] %s\n", indexFmt(i), opt)
	}
	reader := bufio.NewReader(p.In)
	for {
		fmt.Fprint(p.Out, promptFmt("Enter number [0]: "))
		raw, err := reader.ReadString('\n')
		answer := strings.TrimSpace(raw)
		if answer == "" && err == nil {
			return 0, nil
		}
		if answer != "" {
			idx, convErr := strconv.Atoi(answer)
			if convErr == nil && idx >= 0 && idx < len(options) {
				return idx, nil
			}
			fmt.Fprintf(p.Out, "Invalid choice %q\n", answer)
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSelectionAborted, err)
		}
	}
}
