package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pascal-nordic/nrfcredstore/pkg/atcmd"
	"github.com/pascal-nordic/nrfcredstore/pkg/clierror"
)

func TestRootCmd_HelpShowsSubcommands(t *testing.T) {
	result := run("--help")
	result.AssertSuccess(t)
	result.AssertContains(t, "Available Commands")
	for _, name := range []string{"list", "write", "delete", "deleteall", "generate", "imei", "attoken", "info", "devices", "completion"} {
		result.AssertContains(t, name)
	}
}

func TestRootCmd_Version(t *testing.T) {
	result := run("--version")
	result.AssertSuccess(t)
	result.AssertContains(t, "nrfcredstore v")
}

func TestCompletion(t *testing.T) {
	result := run("completion", "bash")
	result.AssertSuccess(t)
	result.AssertContains(t, "nrfcredstore")
}

func TestConfig_EnvironmentFallback(t *testing.T) {
	setupDevice(t, newFakeModem(), thingyPorts)
	t.Setenv("NRFCREDSTORE_BAUDRATE", "1000000")
	t.Setenv("NRFCREDSTORE_RESPONSE_TIMEOUT", "3s")
	t.Setenv("NRFCREDSTORE_CMD_TYPE", "at")

	result := run("imei", "--baudrate", "9600")
	result.AssertSuccess(t)
	assert.Equal(t, 9600, baudrate, "explicit flag wins")
	assert.Equal(t, 3*time.Second, responseTimeout)
	assert.Equal(t, atcmd.ModeAT, cmdMode)
}

func TestConfig_InvalidValues(t *testing.T) {
	setupDevice(t, newFakeModem(), thingyPorts)

	for _, args := range [][]string{
		{"imei", "--cmd-type", "serial"},
		{"imei", "-o", "xml"},
		{"imei", "--baudrate", "0"},
		{"imei", "--no-such-flag"},
	} {
		result := run(args...)
		result.AssertError(t)
		assert.Equal(t, clierror.ExitUsage, ToCLIError(result.Err).ExitCode, args)
	}
}

func TestDebugLogging(t *testing.T) {
	setupDevice(t, newFakeModem(), thingyPorts)

	result := run("imei", "--debug")
	result.AssertSuccess(t)
	result.AssertStderrContains(t, "session=")
	result.AssertStderrContains(t, "AT+CGSN")
}
