package atcmd

import (
	"github.com/pascal-nordic/nrfcredstore/pkg/credential"
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

// Comms is the line transport the command interfaces run on.
// *transport.Conn implements it.
type Comms interface {
	WriteLine(text string) error
	ExpectResponse(okMarker, errMarker string, opts ...transport.ExpectOption) (bool, string)
	TimedOut() bool
}

// Interface is the command set shared by both firmware front ends.
//
// Commands that return data report a failed or missing result as a
// *CommandError. CheckCredentialExists reports failure as "not found".
type Interface interface {
	// Comms returns the underlying transport.
	Comms() Comms
	// ShellMode reports whether commands are wrapped for the interactive shell.
	ShellMode() bool
	// Prefix returns the text placed before every AT command.
	Prefix() string

	// WriteRaw sends line unmodified.
	WriteRaw(line string) error
	// ATCommand sends cmd with the variant prefix. With waitForResult it
	// waits for OK or ERROR; otherwise it returns once the line is written.
	ATCommand(cmd string, waitForResult bool) error

	WriteCredential(tag uint32, t credential.Type, text string) error
	DeleteCredential(tag uint32, t credential.Type) error
	CheckCredentialExists(tag uint32, t credential.Type) (bool, string, error)
	GetCSR(tag uint32, attributes string) (string, error)
	GetIMEI() (string, error)
	GoOffline() error
	GetModelID() (string, error)
	GetMFWVersion() (string, error)
	GetAttestationToken() (string, error)
	EnableErrorCodes() error
}
