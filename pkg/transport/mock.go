package transport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
)

// MockPort provides an in-memory Port implementation for testing.
// It supports line recording, scripted responses, and error injection.
type MockPort struct {
	// rx holds bytes waiting to be returned by Read
	rx bytes.Buffer
	// tx accumulates written bytes until a full line is seen
	tx []byte

	// Configuration
	responder func(line string) []string
	writeErr  error
	readErr   error

	// State
	closed bool
	mu     sync.Mutex

	// Recording for test inspection
	written []string
}

// MockPortOption configures a MockPort.
type MockPortOption func(*MockPort)

// WithResponder sets a function that produces the response lines for
// each line written to the port.
func WithResponder(fn func(line string) []string) MockPortOption {
	return func(m *MockPort) {
		m.responder = fn
	}
}

// WithScript answers each written line with the lines mapped to it.
// Unmapped lines get no answer, which the reader observes as a timeout.
func WithScript(script map[string][]string) MockPortOption {
	return WithResponder(func(line string) []string {
		return script[line]
	})
}

// WithWriteError injects an error that will be returned by Write.
func WithWriteError(err error) MockPortOption {
	return func(m *MockPort) {
		m.writeErr = err
	}
}

// WithReadError injects an error that will be returned by Read.
func WithReadError(err error) MockPortOption {
	return func(m *MockPort) {
		m.readErr = err
	}
}

// NewMockPort creates a new MockPort for testing.
func NewMockPort(opts ...MockPortOption) *MockPort {
	m := &MockPort{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Read returns queued response bytes. An empty queue yields (0, nil),
// which the connection treats as an idle line.
func (m *MockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.EOF
	}
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.rx.Len() == 0 {
		return 0, nil
	}
	return m.rx.Read(p)
}

// Write records complete lines and queues the responder's answer.
func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.New("port closed")
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}

	m.tx = append(m.tx, p...)
	for {
		i := bytes.Index(m.tx, []byte(LineTerminator))
		if i < 0 {
			break
		}
		line := string(m.tx[:i])
		m.tx = m.tx[i+len(LineTerminator):]
		m.written = append(m.written, line)
		if m.responder != nil {
			m.enqueueLocked(m.responder(line))
		}
	}
	return len(p), nil
}

// Close marks the port closed.
func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// --- Test helper methods ---

// Enqueue adds response lines for Read to return.
func (m *MockPort) Enqueue(lines ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueueLocked(lines)
}

// EnqueueRaw adds bytes for Read to return without adding terminators.
func (m *MockPort) EnqueueRaw(data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx.WriteString(data)
}

func (m *MockPort) enqueueLocked(lines []string) {
	for _, l := range lines {
		m.rx.WriteString(l)
		m.rx.WriteString(LineTerminator)
	}
}

// Written returns all lines written to the port.
func (m *MockPort) Written() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.written))
	copy(result, m.written)
	return result
}

// WrittenText returns all written lines joined by newlines.
func (m *MockPort) WrittenText() string {
	return strings.Join(m.Written(), "\n")
}

// ClearRecords clears the recorded written lines.
func (m *MockPort) ClearRecords() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = m.written[:0]
}

// SetWriteError updates the error returned by Write.
// Pass nil to clear the error.
func (m *MockPort) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// IsClosed returns whether the port has been closed.
func (m *MockPort) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
