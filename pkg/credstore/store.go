package credstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/pascal-nordic/nrfcredstore/pkg/atcmd"
	"github.com/pascal-nordic/nrfcredstore/pkg/credential"
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

// Functional modes accepted by FuncMode.
const (
	FuncModeMinimum = 0
	FuncModeNormal  = 1
	FuncModeOffline = 4
)

// FirstReservedTag is the lowest security tag reserved for the modem's
// own credentials.
const FirstReservedTag uint32 = 2147483648

var (
	// ErrAnyType is returned when a mutation is given credential.Any.
	ErrAnyType = fmt.Errorf("%w: credential type ANY is only valid for listing", credential.ErrUsage)

	// ErrTypeWithoutTag is returned when List filters by type without a tag.
	ErrTypeWithoutTag = fmt.Errorf("%w: listing by type requires a tag", credential.ErrUsage)

	// ErrEmptyCSR is returned when the modem reports success without a CSR.
	ErrEmptyCSR = errors.New("modem returned an empty CSR")
)

// Store runs credential operations over a command interface.
type Store struct {
	iface  atcmd.Interface
	logger *slog.Logger
}

// New returns a Store using iface. A nil logger uses slog.Default().
func New(iface atcmd.Interface, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{iface: iface, logger: logger}
}

// Interface returns the command interface the store runs on.
func (s *Store) Interface() atcmd.Interface {
	return s.iface
}

// FuncMode sets the modem functional mode and waits for the result.
func (s *Store) FuncMode(mode int) error {
	return s.iface.ATCommand(fmt.Sprintf("AT+CFUN=%d", mode), true)
}

// List returns stored credentials in the order the modem reports them.
// A nil tag lists every credential. t filters by type and requires a tag.
func (s *Store) List(tag *uint32, t credential.Type) ([]credential.Credential, error) {
	cmd := "AT%CMNG=1"
	switch {
	case tag == nil && t != credential.Any:
		return nil, ErrTypeWithoutTag
	case tag != nil && t != credential.Any:
		cmd += fmt.Sprintf(",%d,%d", *tag, t.Code())
	case tag != nil:
		cmd += fmt.Sprintf(",%d", *tag)
	}

	if err := s.iface.ATCommand(cmd, false); err != nil {
		return nil, err
	}
	comms := s.iface.Comms()
	ok, out := comms.ExpectResponse("OK", "ERROR", listOptions(s.iface)...)
	if !ok {
		return nil, atcmd.NewCommandError(cmd, comms.TimedOut())
	}

	var creds []credential.Credential
	for _, line := range splitCaptured(out) {
		cred, err := credential.ParseListing(line)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}
	s.logger.Debug("listed credentials", "count", len(creds))
	return creds, nil
}

func listOptions(iface atcmd.Interface) []transport.ExpectOption {
	opts := []transport.ExpectOption{transport.WithCapture(credential.ListingPrefix)}
	if iface.ShellMode() {
		opts = append(opts, transport.WithEchoSkip())
	}
	return opts
}

// Write stores the full contents of r under tag with type t. The text
// is sent exactly as read.
func (s *Store) Write(tag uint32, t credential.Type, r io.Reader) error {
	if t == credential.Any {
		return ErrAnyType
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	return s.iface.ATCommand(atcmd.WriteCommand(tag, t, string(data)), true)
}

// Delete removes the credential of type t under tag.
func (s *Store) Delete(tag uint32, t credential.Type) error {
	if t == credential.Any {
		return ErrAnyType
	}
	return s.iface.ATCommand(atcmd.DeleteCommand(tag, t), true)
}

// DeleteAll deletes every user-writable credential outside the reserved
// tag range and returns how many were deleted. Individual failures do not
// stop the sweep and are returned together.
func (s *Store) DeleteAll() (int, error) {
	creds, err := s.List(nil, credential.Any)
	if err != nil {
		return 0, err
	}
	var (
		deleted int
		result  *multierror.Error
	)
	for _, c := range creds {
		if !c.Type.Writable() || c.Tag >= FirstReservedTag {
			s.logger.Debug("skipping credential", "tag", c.Tag, "type", c.Type)
			continue
		}
		if err := s.Delete(c.Tag, c.Type); err != nil {
			result = multierror.Append(result, fmt.Errorf("delete %d %s: %w", c.Tag, c.Type, err))
			continue
		}
		deleted++
	}
	return deleted, result.ErrorOrNil()
}

// Keygen has the modem generate a key pair under tag and return a CSR.
// The first decoded segment (the DER CSR) is written to out. All decoded
// segments are returned. The meaning of the second segment is not
// interpreted; callers get its bytes exactly as decoded.
//
// A successful response without a %KEYGEN line fails with an error that
// matches both ErrEmptyCSR and atcmd.ErrATCommand.
func (s *Store) Keygen(tag uint32, out io.Writer, attributes string) ([][]byte, error) {
	csr, err := s.iface.GetCSR(tag, attributes)
	if err != nil {
		return nil, err
	}
	if csr == "" {
		return nil, fmt.Errorf("%w: %w", ErrEmptyCSR, atcmd.NewCommandError(atcmd.KeygenCommand(tag, attributes), false))
	}
	segments, err := DecodeSegments(csr)
	if err != nil {
		return nil, err
	}
	if _, err := out.Write(segments[0]); err != nil {
		return nil, fmt.Errorf("write CSR: %w", err)
	}
	return segments, nil
}

// AttestationToken returns the modem attestation token.
func (s *Store) AttestationToken() (string, error) {
	token, err := s.iface.GetAttestationToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", atcmd.NewCommandError("AT%ATTESTTOKEN", false)
	}
	return token, nil
}

// IMEI returns the modem IMEI.
func (s *Store) IMEI() (string, error) {
	return s.iface.GetIMEI()
}

// DeviceInfo identifies the modem.
type DeviceInfo struct {
	IMEI     string `json:"imei" yaml:"imei"`
	Model    string `json:"model" yaml:"model"`
	Firmware string `json:"firmware" yaml:"firmware"`
}

// Info queries IMEI, model and modem firmware version.
func (s *Store) Info() (DeviceInfo, error) {
	var info DeviceInfo
	var err error
	if info.IMEI, err = s.iface.GetIMEI(); err != nil {
		return info, err
	}
	if info.Model, err = s.iface.GetModelID(); err != nil {
		return info, err
	}
	if info.Firmware, err = s.iface.GetMFWVersion(); err != nil {
		return info, err
	}
	return info, nil
}

// DecodeSegments splits a dot-joined base64 value and decodes each part.
// Both URL-safe and standard alphabets are accepted, padded or not.
func DecodeSegments(value string) ([][]byte, error) {
	parts := strings.Split(value, ".")
	segments := make([][]byte, 0, len(parts))
	for i, p := range parts {
		b, err := decodeBase64(p)
		if err != nil {
			return nil, fmt.Errorf("decode segment %d: %w", i, err)
		}
		segments = append(segments, b)
	}
	return segments, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if strings.ContainsAny(s, "+/") {
		return base64.RawStdEncoding.DecodeString(s)
	}
	return base64.RawURLEncoding.DecodeString(s)
}

// splitCaptured splits captured output on any line break and drops blanks.
func splitCaptured(out string) []string {
	var lines []string
	for _, f := range strings.FieldsFunc(out, func(r rune) bool {
		return r == '\r' || r == '\n' || r == '\f'
	}) {
		if f = strings.TrimSpace(f); f != "" {
			lines = append(lines, f)
		}
	}
	return lines
}
