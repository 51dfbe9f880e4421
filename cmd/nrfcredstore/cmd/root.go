// Package cmd implements the nrfcredstore CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pascal-nordic/nrfcredstore/internal/config"
	"github.com/pascal-nordic/nrfcredstore/internal/version"
	"github.com/pascal-nordic/nrfcredstore/pkg/atcmd"
	"github.com/pascal-nordic/nrfcredstore/pkg/discovery"
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

var (
	// Global flags
	outputFormat    string
	portPath        string
	serialNumber    string
	probeMode       bool
	listAll         bool
	baudrate        int
	lineTimeout     time.Duration
	responseTimeout time.Duration
	cmdType         string
	nonInteractive  bool
	debugLogs       bool

	// Resolved in PersistentPreRunE
	cmdMode atcmd.Mode
	logger  = slog.Default()

	// Replaced by tests to run without hardware.
	portLister discovery.Lister = discovery.SystemLister{}
	mockPort   transport.Port
)

var rootCmd = &cobra.Command{
	Use:   "nrfcredstore",
	Short: "Manage credentials in the modem's secure storage",
	Long: `nrfcredstore lists, writes, deletes and generates TLS and PSK credentials
in the modem's secure storage using AT%CMNG, AT%KEYGEN and AT%ATTESTTOKEN.

The device is found automatically when a single supported board is connected.
Use --serial-number or --port to pick one of several. Every connection flag
can also be set with an NRFCREDSTORE_* environment variable, e.g.
NRFCREDSTORE_PORT=/dev/ttyACM0.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}
		if err := applyConfig(cmd); err != nil {
			return err
		}
		setupLogger(cmd.ErrOrStderr())
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for nrfcredstore.

To load completions:

Bash:
  source <(nrfcredstore completion bash)

Zsh:
  source <(nrfcredstore completion zsh)

Fish:
  nrfcredstore completion fish > ~/.config/fish/completions/nrfcredstore.fish

PowerShell:
  nrfcredstore completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	flags.StringVar(&portPath, "port", "", "Serial port of the modem, e.g. /dev/ttyACM0 or COM35")
	flags.StringVar(&serialNumber, "serial-number", "", "Serial number of the board or debug probe")
	flags.BoolVar(&probeMode, "probe", false, "Select the device by debug probe serial number")
	flags.BoolVar(&listAll, "list-all", false, "Consider every serial port, not only recognized boards")
	flags.IntVar(&baudrate, "baudrate", transport.DefaultBaudrate, "Serial baud rate")
	flags.DurationVar(&lineTimeout, "timeout", transport.DefaultLineTimeout, "Serial read timeout per line")
	flags.DurationVar(&responseTimeout, "response-timeout", transport.DefaultResponseTimeout, "Time to wait for a command result")
	flags.StringVar(&cmdType, "cmd-type", string(atcmd.ModeAuto), "Command interface: auto, at or shell")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; pick the first matching device")
	flags.BoolVar(&debugLogs, "debug", false, "Log every line sent to and read from the device")

	rootCmd.Version = version.Long()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// OutputFormat returns the effective --output value.
func OutputFormat() string {
	return outputFormat
}

// applyConfig fills every flag the operator did not set from the
// environment, then validates the result.
func applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return usageError{msg: err.Error()}
	}
	changed := cmd.Flags().Changed
	if !changed("output") {
		outputFormat = cfg.Output
	}
	if !changed("port") {
		portPath = cfg.Port
	}
	if !changed("serial-number") {
		serialNumber = cfg.SerialNumber
	}
	if !changed("probe") {
		probeMode = cfg.Probe
	}
	if !changed("list-all") {
		listAll = cfg.ListAll
	}
	if !changed("baudrate") {
		baudrate = cfg.Baudrate
	}
	if !changed("timeout") {
		lineTimeout = cfg.Timeout
	}
	if !changed("response-timeout") {
		responseTimeout = cfg.ResponseTimeout
	}
	if !changed("cmd-type") {
		cmdType = cfg.CmdType
	}
	if !changed("non-interactive") {
		nonInteractive = cfg.NonInteractive
	}
	if !changed("debug") {
		debugLogs = cfg.Debug
	}

	effective := config.Config{
		Baudrate:        baudrate,
		Timeout:         lineTimeout,
		ResponseTimeout: responseTimeout,
		Output:          outputFormat,
	}
	if err := effective.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	if cmdMode, err = atcmd.ParseMode(cmdType); err != nil {
		return usageError{msg: err.Error()}
	}
	return nil
}

// setupLogger tags every record of this invocation with a session id.
func setupLogger(w io.Writer) {
	level := slog.LevelInfo
	if debugLogs {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler).With("session", uuid.NewString())
}

// formatOutput handles output formatting based on the --output flag.
func formatOutput(cmd *cobra.Command, data interface{}) error {
	switch outputFormat {
	case "json":
		return outputJSON(cmd.OutOrStdout(), data)
	case "yaml":
		return outputYAML(cmd.OutOrStdout(), data)
	default:
		// Table format is handled by each command
		return nil
	}
}

func outputJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(w io.Writer, data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
