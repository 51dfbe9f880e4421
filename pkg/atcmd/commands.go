package atcmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pascal-nordic/nrfcredstore/pkg/credential"
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

// Result markers and response prefixes.
const (
	resultOK    = "OK"
	resultError = "ERROR"

	keygenPrefix      = "%KEYGEN: "
	attestTokenPrefix = "%ATTESTTOKEN: "
)

// %CMNG operations.
const (
	cmngWrite  = 0
	cmngList   = 1
	cmngDelete = 3
)

// %KEYGEN output format for a certificate signing request.
const (
	keygenCSR        = 2
	keygenCSRSubMode = 0
)

// commander holds the behavior both variants share. Only the line prefix
// and echo handling differ.
type commander struct {
	comms  Comms
	prefix string
	logger *slog.Logger
}

func newCommander(c Comms, prefix string, logger *slog.Logger) commander {
	if logger == nil {
		logger = slog.Default()
	}
	return commander{comms: c, prefix: prefix, logger: logger}
}

func (c commander) Comms() Comms { return c.comms }

func (c commander) Prefix() string { return c.prefix }

func (c commander) WriteRaw(line string) error {
	return c.comms.WriteLine(line)
}

func (c commander) expectOptions(opts ...transport.ExpectOption) []transport.ExpectOption {
	if c.prefix != "" {
		opts = append(opts, transport.WithEchoSkip())
	}
	return opts
}

// query sends cmd and returns the captured response lines.
func (c commander) query(cmd string, opts ...transport.ExpectOption) (string, error) {
	if err := c.comms.WriteLine(c.prefix + cmd); err != nil {
		return "", err
	}
	ok, out := c.comms.ExpectResponse(resultOK, resultError, c.expectOptions(opts...)...)
	if !ok {
		return "", NewCommandError(cmd, c.comms.TimedOut())
	}
	return out, nil
}

func (c commander) ATCommand(cmd string, waitForResult bool) error {
	if err := c.comms.WriteLine(c.prefix + cmd); err != nil {
		return err
	}
	if !waitForResult {
		return nil
	}
	if ok, _ := c.comms.ExpectResponse(resultOK, resultError, c.expectOptions()...); !ok {
		return NewCommandError(cmd, c.comms.TimedOut())
	}
	return nil
}

func (c commander) WriteCredential(tag uint32, t credential.Type, text string) error {
	return c.ATCommand(WriteCommand(tag, t, text), true)
}

func (c commander) DeleteCredential(tag uint32, t credential.Type) error {
	return c.ATCommand(DeleteCommand(tag, t), true)
}

func (c commander) CheckCredentialExists(tag uint32, t credential.Type) (bool, string, error) {
	cmd := fmt.Sprintf("AT%%CMNG=%d,%d,%d", cmngList, tag, t.Code())
	if err := c.comms.WriteLine(c.prefix + cmd); err != nil {
		return false, "", err
	}
	ok, out := c.comms.ExpectResponse(resultOK, resultError, c.expectOptions(transport.WithCapture(credential.ListingPrefix))...)
	if !ok {
		return false, "", nil
	}
	for _, line := range splitLines(out) {
		cred, err := credential.ParseListing(line)
		if err != nil {
			c.logger.Debug("ignoring listing line", "line", line, "error", err)
			continue
		}
		if cred.Tag == tag && cred.Type == t {
			return true, cred.SHA, nil
		}
	}
	return false, "", nil
}

func (c commander) GetCSR(tag uint32, attributes string) (string, error) {
	out, err := c.query(KeygenCommand(tag, attributes), transport.WithCapture(keygenPrefix))
	if err != nil {
		return "", err
	}
	return firstValue(out, keygenPrefix), nil
}

func (c commander) GetAttestationToken() (string, error) {
	out, err := c.query("AT%ATTESTTOKEN", transport.WithCapture(attestTokenPrefix))
	if err != nil {
		return "", err
	}
	return firstValue(out, attestTokenPrefix), nil
}

func (c commander) GetIMEI() (string, error) {
	return c.plainQuery("AT+CGSN")
}

func (c commander) GetModelID() (string, error) {
	return c.plainQuery("AT+CGMM")
}

func (c commander) GetMFWVersion() (string, error) {
	return c.plainQuery("AT+CGMR")
}

func (c commander) GoOffline() error {
	return c.ATCommand("AT+CFUN=4", true)
}

func (c commander) EnableErrorCodes() error {
	return c.ATCommand("AT+CMEE=1", true)
}

// plainQuery returns the first information line of a command whose
// response has no prefix.
func (c commander) plainQuery(cmd string) (string, error) {
	out, err := c.query(cmd, transport.WithCapture(""))
	if err != nil {
		return "", err
	}
	lines := splitLines(out)
	if len(lines) == 0 {
		return "", NewCommandError(cmd, false)
	}
	return lines[0], nil
}

// WriteCommand formats a %CMNG write. text is sent exactly as given.
func WriteCommand(tag uint32, t credential.Type, text string) string {
	return fmt.Sprintf("AT%%CMNG=%d,%d,%d,\"%s\"", cmngWrite, tag, t.Code(), text)
}

// DeleteCommand formats a %CMNG delete.
func DeleteCommand(tag uint32, t credential.Type) string {
	return fmt.Sprintf("AT%%CMNG=%d,%d,%d", cmngDelete, tag, t.Code())
}

// KeygenCommand formats a %KEYGEN CSR request. The attributes clause is
// omitted when attributes is empty.
func KeygenCommand(tag uint32, attributes string) string {
	cmd := fmt.Sprintf("AT%%KEYGEN=%d,%d,%d", tag, keygenCSR, keygenCSRSubMode)
	if attributes != "" {
		cmd += fmt.Sprintf(",\"%s\"", attributes)
	}
	return cmd
}

// firstValue returns the unquoted value of the first captured line.
func firstValue(out, prefix string) string {
	lines := splitLines(out)
	if len(lines) == 0 {
		return ""
	}
	return credential.Unquote(strings.TrimPrefix(lines[0], prefix))
}

// splitLines splits captured output on any line break and drops blank lines.
func splitLines(out string) []string {
	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == '\r' || r == '\n' || r == '\f'
	})
	lines := fields[:0]
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
