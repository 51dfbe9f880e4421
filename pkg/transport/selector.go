package transport

import (
	"errors"
	"log/slog"
	"time"
)

// DefaultBaudrate is the UART speed of the modem's AT interface.
const DefaultBaudrate = 115200

// Config contains options for opening a connection.
type Config struct {
	// MockPort, if non-nil, is used directly by Open.
	// Used for test injection to bypass hardware access.
	MockPort Port

	// Path is the serial device, e.g. /dev/ttyACM0 or COM35.
	Path string

	// Baudrate defaults to DefaultBaudrate.
	Baudrate int

	// LineTimeout bounds each ReadLine. Defaults to DefaultLineTimeout.
	LineTimeout time.Duration

	// ResponseTimeout bounds each ExpectResponse. Defaults to DefaultResponseTimeout.
	ResponseTimeout time.Duration

	// Logger receives line traces. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Open creates a connection to the modem.
// Port selection follows this priority:
//  1. MockPort from config (test injection)
//  2. Serial device at Path
//
// Returns an error if neither is configured or the device cannot be opened.
func Open(cfg *Config) (*Conn, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	opts := []ConnOption{
		WithLineTimeout(cfg.LineTimeout),
		WithResponseTimeout(cfg.ResponseTimeout),
		WithLogger(cfg.Logger),
	}

	// Priority 1: Mock port for testing
	if cfg.MockPort != nil {
		return NewConn(cfg.MockPort, opts...), nil
	}

	// Priority 2: Serial device
	if cfg.Path == "" {
		return nil, errors.New("no serial port configured")
	}
	baud := cfg.Baudrate
	if baud <= 0 {
		baud = DefaultBaudrate
	}
	port, err := OpenSerial(cfg.Path, baud)
	if err != nil {
		return nil, err
	}
	return NewConn(port, opts...), nil
}
