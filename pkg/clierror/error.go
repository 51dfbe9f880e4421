package clierror

import (
	"encoding/json"
	"fmt"
	"os"
)

// Exit codes. 10 through 13 are relied upon by provisioning scripts.
const (
	ExitSuccess    = 0  // Operation completed successfully
	ExitGeneral    = 1  // Unknown/unhandled error
	ExitUsage      = 2  // Invalid arguments
	ExitNoATClient = 10 // Device does not answer AT commands
	ExitATCommand  = 11 // Modem returned an error result
	ExitTimeout    = 12 // Modem did not answer in time
	ExitSerial     = 13 // Serial port could not be opened
	ExitNotFound   = 14 // No matching device connected
)

// Error codes (strings) for programmatic error handling
const (
	CodeNoATClient     = "NO_AT_CLIENT"
	CodeATCommand      = "AT_COMMAND_ERROR"
	CodeTimeout        = "TIMEOUT"
	CodeSerialOpen     = "SERIAL_OPEN_FAILED"
	CodeDeviceNotFound = "DEVICE_NOT_FOUND"
	CodeUsage          = "USAGE"
	CodeInternalError  = "INTERNAL_ERROR"
)

// CLIError represents a structured error for CLI output.
type CLIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
	ExitCode  int    `json:"-"` // Not serialized, used for os.Exit
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NoATClient creates an error for a device that answers neither plain
// nor shell-wrapped AT commands.
func NoATClient() *CLIError {
	return &CLIError{
		Code:      CodeNoATClient,
		Message:   "device does not respond to AT commands",
		Hint:      "Flash firmware with an AT host or AT shell, or pick another port with --port",
		Retryable: false,
		ExitCode:  ExitNoATClient,
	}
}

// ATCommandFailed creates an error for a command the modem rejected.
func ATCommandFailed(detail string) *CLIError {
	return &CLIError{
		Code:      CodeATCommand,
		Message:   detail,
		Hint:      "Run with --debug to see the modem response",
		Retryable: false,
		ExitCode:  ExitATCommand,
	}
}

// Timeout creates an error for a command that got no final result.
func Timeout(detail string) *CLIError {
	return &CLIError{
		Code:      CodeTimeout,
		Message:   detail,
		Hint:      "Check that the modem is powered and not busy, or raise NRFCREDSTORE_RESPONSE_TIMEOUT",
		Retryable: true,
		ExitCode:  ExitTimeout,
	}
}

// SerialOpenFailed creates an error for a serial port that could not be opened.
func SerialOpenFailed(detail string) *CLIError {
	return &CLIError{
		Code:      CodeSerialOpen,
		Message:   detail,
		Hint:      "Check that no other program holds the port and that you may access it",
		Retryable: true,
		ExitCode:  ExitSerial,
	}
}

// DeviceNotFound creates an error when no matching device is connected.
func DeviceNotFound(detail string) *CLIError {
	return &CLIError{
		Code:      CodeDeviceNotFound,
		Message:   detail,
		Hint:      "List connected boards with 'nrfcredstore devices'",
		Retryable: false,
		ExitCode:  ExitNotFound,
	}
}

// Usage creates an error for invalid arguments.
func Usage(detail string) *CLIError {
	return &CLIError{
		Code:      CodeUsage,
		Message:   detail,
		Retryable: false,
		ExitCode:  ExitUsage,
	}
}

// InternalError creates an error for unexpected internal errors.
func InternalError(err error) *CLIError {
	msg := "an unexpected internal error occurred"
	if err != nil {
		msg = fmt.Sprintf("internal error: %s", err.Error())
	}
	return &CLIError{
		Code:      CodeInternalError,
		Message:   msg,
		Hint:      "",
		Retryable: false,
		ExitCode:  ExitGeneral,
	}
}

// FormatError returns the error formatted for the given output format.
// Supported formats: "json" for JSON output, anything else for human-readable format.
func FormatError(err *CLIError, outputFormat string) string {
	if outputFormat == "json" {
		data, jsonErr := json.MarshalIndent(err, "", "  ")
		if jsonErr != nil {
			return fmt.Sprintf(`{"code":"%s","message":"%s"}`, err.Code, err.Message)
		}
		return string(data)
	}

	output := fmt.Sprintf("Error [%s]: %s", err.Code, err.Message)
	if err.Hint != "" {
		output += fmt.Sprintf("\nHint: %s", err.Hint)
	}
	return output
}

// PrintError prints the error to stderr in the appropriate format.
func PrintError(err *CLIError, outputFormat string) {
	fmt.Fprintln(os.Stderr, FormatError(err, outputFormat))
}
