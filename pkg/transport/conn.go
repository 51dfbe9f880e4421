package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	// LineTerminator ends every line written to the modem.
	LineTerminator = "\r\n"

	// LineSeparator joins captured lines returned by ExpectResponse.
	LineSeparator = "\r\n"

	// DefaultLineTimeout is how long ReadLine waits for one complete line.
	DefaultLineTimeout = time.Second

	// DefaultResponseTimeout is how long ExpectResponse waits for a final result.
	DefaultResponseTimeout = 15 * time.Second

	// idlePoll is the pause after a read that returned no data.
	idlePoll = 5 * time.Millisecond
)

// ansiEscape matches terminal control sequences emitted by interactive shells.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// Conn is an open line-oriented connection to the modem. It is owned by a
// single session and is not safe for concurrent use.
type Conn struct {
	port            Port
	lineTimeout     time.Duration
	responseTimeout time.Duration
	logger          *slog.Logger

	pending     []byte
	lastWritten string
	timedOut    bool
	closed      bool
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithLineTimeout sets how long ReadLine waits for a line.
func WithLineTimeout(d time.Duration) ConnOption {
	return func(c *Conn) {
		if d > 0 {
			c.lineTimeout = d
		}
	}
}

// WithResponseTimeout sets the default ExpectResponse timeout.
func WithResponseTimeout(d time.Duration) ConnOption {
	return func(c *Conn) {
		if d > 0 {
			c.responseTimeout = d
		}
	}
}

// WithLogger sets the logger used for line tracing and error decoding.
func WithLogger(l *slog.Logger) ConnOption {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConn wraps an already open port.
func NewConn(port Port, opts ...ConnOption) *Conn {
	c := &Conn{
		port:            port,
		lineTimeout:     DefaultLineTimeout,
		responseTimeout: DefaultResponseTimeout,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WriteLine sends text followed by the line terminator.
func (c *Conn) WriteLine(text string) error {
	if c.closed {
		return ErrClosed
	}
	c.logger.Debug("serial write", "line", text)
	if _, err := io.WriteString(c.port, text+LineTerminator); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	c.lastWritten = text
	return nil
}

// LastWritten returns the most recent line passed to WriteLine.
func (c *Conn) LastWritten() string {
	return c.lastWritten
}

// ReadLine returns the next line with its terminator and trailing
// whitespace removed. It returns an empty string if no complete line
// arrives within the line timeout.
func (c *Conn) ReadLine() (string, error) {
	if c.closed {
		return "", ErrClosed
	}
	deadline := time.Now().Add(c.lineTimeout)
	buf := make([]byte, 256)
	for {
		if i := bytes.IndexByte(c.pending, '\n'); i >= 0 {
			raw := string(c.pending[:i])
			c.pending = c.pending[i+1:]
			line := cleanLine(raw)
			c.logger.Debug("serial read", "line", line)
			return line, nil
		}
		if !time.Now().Before(deadline) {
			return "", nil
		}
		n, err := c.port.Read(buf)
		c.pending = append(c.pending, buf[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			time.Sleep(idlePoll)
		}
	}
}

func cleanLine(raw string) string {
	line := ansiEscape.ReplaceAllString(raw, "")
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

type expectConfig struct {
	capture        bool
	prefix         string
	timeout        time.Duration
	suppressErrors bool
	skipEcho       bool
}

// ExpectOption configures a single ExpectResponse call.
type ExpectOption func(*expectConfig)

// WithCapture collects every line that starts with prefix. An empty
// prefix captures every non-terminal line.
func WithCapture(prefix string) ExpectOption {
	return func(e *expectConfig) {
		e.capture = true
		e.prefix = prefix
	}
}

// WithTimeout overrides the response timeout for one call.
func WithTimeout(d time.Duration) ExpectOption {
	return func(e *expectConfig) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithSuppressedErrors disables logging of decoded error codes.
func WithSuppressedErrors() ExpectOption {
	return func(e *expectConfig) {
		e.suppressErrors = true
	}
}

// WithEchoSkip drops the echo of the last written line. Interactive
// shells echo input back, optionally behind a prompt.
func WithEchoSkip() ExpectOption {
	return func(e *expectConfig) {
		e.skipEcho = true
	}
}

// ExpectResponse reads lines until one equals okMarker (true) or
// errMarker (false), an extended error result is seen (false), or the
// timeout elapses (false). Captured lines have the prefix removed and are
// joined with LineSeparator in arrival order. On timeout the captured
// text is discarded.
func (c *Conn) ExpectResponse(okMarker, errMarker string, opts ...ExpectOption) (bool, string) {
	cfg := expectConfig{timeout: c.responseTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	c.timedOut = false
	deadline := time.Now().Add(cfg.timeout)
	var captured []string
	for time.Now().Before(deadline) {
		line, err := c.ReadLine()
		if err != nil {
			c.logger.Error("serial read failed", "error", err)
			return false, strings.Join(captured, LineSeparator)
		}
		if line == "" {
			continue
		}
		if cfg.skipEcho && isEcho(line, c.lastWritten) {
			continue
		}
		switch {
		case line == okMarker:
			return true, strings.Join(captured, LineSeparator)
		case line == errMarker:
			return false, strings.Join(captured, LineSeparator)
		}
		if code, ok := ParseErrorCode(line); ok {
			if !cfg.suppressErrors {
				c.logErrorCode(code)
			}
			return false, strings.Join(captured, LineSeparator)
		}
		if cfg.capture && strings.HasPrefix(line, cfg.prefix) {
			captured = append(captured, strings.TrimRightFunc(line[len(cfg.prefix):], unicode.IsSpace))
		}
	}
	c.timedOut = true
	c.logger.Debug("response timed out", "command", c.lastWritten, "timeout", cfg.timeout)
	return false, ""
}

func (c *Conn) logErrorCode(code int) {
	c.logger.Error("AT command error: " + DescribeErrorCode(code))
}

// TimedOut reports whether the last ExpectResponse ended without a final result.
func (c *Conn) TimedOut() bool {
	return c.timedOut
}

// Close releases the port. Closing twice is a no-op.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}

func isEcho(line, written string) bool {
	if written == "" {
		return false
	}
	return line == written || strings.HasSuffix(line, " "+written) || strings.HasSuffix(line, "$"+written)
}
