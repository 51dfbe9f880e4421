package transport

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConn returns a connection with short timeouts over a fresh mock port.
func newTestConn(t *testing.T, opts ...MockPortOption) (*Conn, *MockPort) {
	t.Helper()
	port := NewMockPort(opts...)
	conn := NewConn(port,
		WithLineTimeout(20*time.Millisecond),
		WithResponseTimeout(200*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
	return conn, port
}

func TestConn_WriteLineAddsTerminator(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)

	require.NoError(t, conn.WriteLine("AT+CGSN"))
	require.NoError(t, conn.WriteLine("AT+CGMM"))

	assert.Equal(t, []string{"AT+CGSN", "AT+CGMM"}, port.Written())
	assert.Equal(t, "AT+CGMM", conn.LastWritten())
}

func TestConn_WriteLineError(t *testing.T) {
	t.Parallel()
	conn, _ := newTestConn(t, WithWriteError(errors.New("device gone")))

	err := conn.WriteLine(`AT%CMNG=0,42,3,"00112233445566778899aabbccddeeff"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device gone")
	assert.NotContains(t, err.Error(), "0011223344")
	assert.Empty(t, conn.LastWritten())
}

func TestConn_ReadLine(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.EnqueueRaw("first\r\nsec")

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	// Partial line is kept until its terminator arrives.
	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "", line)

	port.EnqueueRaw("ond  \r\n")
	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "second", line)
}

func TestConn_ReadLineStripsTerminalEscapes(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.EnqueueRaw("\x1b[1;32muart:~$ \x1b[mOK\r\n")

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "uart:~$ OK", line)
}

func TestConn_ReadLineError(t *testing.T) {
	t.Parallel()
	conn, _ := newTestConn(t, WithReadError(errors.New("usb disconnect")))

	_, err := conn.ReadLine()
	require.Error(t, err)
}

func TestExpectResponse_OK(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.Enqueue("OK")

	ok, out := conn.ExpectResponse("OK", "ERROR")
	assert.True(t, ok)
	assert.Equal(t, "", out)
	assert.False(t, conn.TimedOut())
}

func TestExpectResponse_Error(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.Enqueue("ERROR")

	ok, out := conn.ExpectResponse("OK", "ERROR")
	assert.False(t, ok)
	assert.Equal(t, "", out)
	assert.False(t, conn.TimedOut())
}

func TestExpectResponse_Timeout(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.Enqueue("%CMNG: 1,0,\"AA\"")

	start := time.Now()
	ok, out := conn.ExpectResponse("OK", "ERROR", WithCapture("%CMNG: "), WithTimeout(60*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, "", out)
	assert.True(t, conn.TimedOut())
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestExpectResponse_CapturePreservesOrder(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.Enqueue(
		`%CMNG: 12345678,0,"978C"`,
		"unrelated",
		"",
		`%CMNG: 567890,1,"C485"  `,
		"OK",
	)

	ok, out := conn.ExpectResponse("OK", "ERROR", WithCapture("%CMNG: "))
	assert.True(t, ok)
	assert.Equal(t, `12345678,0,"978C"`+LineSeparator+`567890,1,"C485"`, out)
}

func TestExpectResponse_EmptyPrefixCapturesAll(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.Enqueue("352656100000001", "OK")

	ok, out := conn.ExpectResponse("OK", "ERROR", WithCapture(""))
	assert.True(t, ok)
	assert.Equal(t, "352656100000001", out)
}

func TestExpectResponse_NoCaptureDiscardsLines(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)
	port.Enqueue("noise", "OK")

	ok, out := conn.ExpectResponse("OK", "ERROR")
	assert.True(t, ok)
	assert.Empty(t, out)
}

func TestExpectResponse_SkipsShellEcho(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t, WithScript(map[string][]string{
		"at AT+CGSN": {"uart:~$ at AT+CGSN", "352656100000001", "OK"},
	}))
	require.NoError(t, conn.WriteLine("at AT+CGSN"))
	_ = port

	ok, out := conn.ExpectResponse("OK", "ERROR", WithCapture(""), WithEchoSkip())
	assert.True(t, ok)
	assert.Equal(t, "352656100000001", out)
}

func TestExpectResponse_LogsExtendedError(t *testing.T) {
	t.Parallel()
	var logBuf bytes.Buffer
	port := NewMockPort()
	conn := NewConn(port,
		WithLineTimeout(20*time.Millisecond),
		WithResponseTimeout(200*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
	)
	port.Enqueue("+CME ERROR: 514")

	ok, out := conn.ExpectResponse("OK", "ERROR")
	assert.False(t, ok)
	assert.Equal(t, "", out)
	assert.Equal(t, 1, strings.Count(logBuf.String(), "AT command error: Not allowed"))
}

func TestExpectResponse_UnknownExtendedCode(t *testing.T) {
	t.Parallel()
	var logBuf bytes.Buffer
	port := NewMockPort()
	conn := NewConn(port,
		WithLineTimeout(20*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
	)
	port.Enqueue("+CMS ERROR: 9999", "ERROR")

	// The extended result terminates the response on its own.
	ok, _ := conn.ExpectResponse("OK", "ERROR")
	assert.False(t, ok)
	assert.Contains(t, logBuf.String(), "AT command error: error code 9999")
}

func TestExpectResponse_SuppressedErrors(t *testing.T) {
	t.Parallel()
	var logBuf bytes.Buffer
	port := NewMockPort()
	conn := NewConn(port,
		WithLineTimeout(20*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
	)
	port.Enqueue("+CME ERROR: 514")

	ok, _ := conn.ExpectResponse("OK", "ERROR", WithSuppressedErrors())
	assert.False(t, ok)
	assert.NotContains(t, logBuf.String(), "AT command error")
}

func TestConn_Close(t *testing.T) {
	t.Parallel()
	conn, port := newTestConn(t)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.True(t, port.IsClosed())
	assert.ErrorIs(t, conn.WriteLine("AT"), ErrClosed)
	_, err := conn.ReadLine()
	assert.ErrorIs(t, err, ErrClosed)
}
