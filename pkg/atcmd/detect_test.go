package atcmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

func answerOnly(cmd string) func(string) response {
	return func(last string) response {
		if last == cmd {
			return response{ok: true, out: "123456789012345"}
		}
		return response{}
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("at host", func(t *testing.T) {
		t.Parallel()
		c := &fakeComms{respond: answerOnly("AT+CGSN")}
		iface, err := Detect(c, nil)
		require.NoError(t, err)
		assert.False(t, iface.ShellMode())
		assert.IsType(t, &Host{}, iface)
		assert.Equal(t, []string{"AT+CGSN"}, c.written)
	})

	t.Run("shell", func(t *testing.T) {
		t.Parallel()
		c := &fakeComms{respond: answerOnly("at AT+CGSN")}
		iface, err := Detect(c, nil)
		require.NoError(t, err)
		assert.True(t, iface.ShellMode())
		assert.Equal(t, []string{"AT+CGSN", "at AT+CGSN"}, c.written)
	})

	t.Run("no client", func(t *testing.T) {
		t.Parallel()
		c := &fakeComms{respond: func(string) response { return response{} }}
		_, err := Detect(c, nil)
		assert.ErrorIs(t, err, ErrNoATClient)
	})
}

func TestDetectOverConn(t *testing.T) {
	t.Parallel()

	port := transport.NewMockPort(transport.WithResponder(func(line string) []string {
		if line == "at AT+CGSN" {
			return []string{"uart:~$ at AT+CGSN", "352656100000000", "OK"}
		}
		return []string{"uart:~$ " + line, "AT+CGSN: command not found", "ERROR"}
	}))
	conn := transport.NewConn(port, transport.WithLineTimeout(10*time.Millisecond), transport.WithResponseTimeout(time.Second))

	iface, err := Detect(conn, nil)
	require.NoError(t, err)
	assert.True(t, iface.ShellMode())

	imei, err := iface.GetIMEI()
	require.NoError(t, err)
	assert.Equal(t, "352656100000000", imei)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Mode{"": ModeAuto, "auto": ModeAuto, "AT": ModeAT, "shell": ModeShell} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("serial")
	assert.Error(t, err)
}

func TestForMode(t *testing.T) {
	t.Parallel()

	c := &fakeComms{}
	iface, err := ForMode(ModeShell, c, nil)
	require.NoError(t, err)
	assert.True(t, iface.ShellMode())
	assert.Empty(t, c.written)

	iface, err = ForMode(ModeAT, c, nil)
	require.NoError(t, err)
	assert.False(t, iface.ShellMode())
}
