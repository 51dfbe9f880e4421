package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pascal-nordic/nrfcredstore/pkg/credential"
)

// usageError marks invalid invocations so they map to the usage exit code.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func (e usageError) Is(target error) bool { return target == credential.ErrUsage }

// ExactArgsWithUsage returns a validator that requires exactly n arguments
// and answers a wrong count with the command's argument list.
func ExactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		return argsError(cmd, n, len(args))
	}
}

// NoArgsWithUsage rejects positional arguments.
func NoArgsWithUsage() cobra.PositionalArgs {
	return ExactArgsWithUsage(0)
}

func argsError(cmd *cobra.Command, want, got int) error {
	names := extractArgNames(cmd.Use)

	var b strings.Builder
	fmt.Fprintf(&b, "requires %d argument(s), received %d\n\n", want, got)
	fmt.Fprintf(&b, "Usage: %s %s\n", cmd.CommandPath(), strings.Join(names, " "))
	if len(names) > 0 {
		b.WriteString("\nArguments:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s\n", strings.Trim(name, "<>[]"))
		}
	}
	fmt.Fprintf(&b, "\nRun '%s --help' for details.", cmd.CommandPath())
	return usageError{msg: b.String()}
}

// extractArgNames returns the <required> and [optional] placeholders of a
// Use string, e.g. "write <tag> <type> <file>" gives the last three fields.
func extractArgNames(use string) []string {
	var names []string
	for _, field := range strings.Fields(use)[1:] {
		if field[0] == '<' || field[0] == '[' {
			names = append(names, field)
		}
	}
	return names
}
