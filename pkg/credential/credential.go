package credential

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUsage marks errors caused by invalid caller input. They are raised
// before anything is written to the device.
var ErrUsage = errors.New("usage error")

// ErrUnknownType is returned when a credential type name or code is not recognized.
var ErrUnknownType = fmt.Errorf("%w: unknown credential type", ErrUsage)

// Type is the credential kind stored in a security tag.
// The numeric value is the code used on the wire.
type Type int

const (
	// Any matches every type in queries. It is never valid for mutation.
	Any Type = -1

	RootCACert     Type = 0
	ClientCert     Type = 1
	ClientKey      Type = 2
	PSK            Type = 3
	PSKIdentity    Type = 4
	PublicKey      Type = 5
	DevIDPubKey    Type = 6
	Reserved       Type = 7
	EndorsementKey Type = 8
	OwnershipKey   Type = 9
	NordicIDRootCA Type = 10
	NordicPubKey   Type = 11
)

var typeNames = map[Type]string{
	Any:            "ANY",
	RootCACert:     "ROOT_CA_CERT",
	ClientCert:     "CLIENT_CERT",
	ClientKey:      "CLIENT_KEY",
	PSK:            "PSK",
	PSKIdentity:    "PSK_IDENTITY",
	PublicKey:      "PUBLIC_KEY",
	DevIDPubKey:    "DEV_ID_PUB_KEY",
	Reserved:       "RESERVED",
	EndorsementKey: "ENDORSEMENT_KEY",
	OwnershipKey:   "OWNERSHIP_KEY",
	NordicIDRootCA: "NORDIC_ID_ROOT_CA",
	NordicPubKey:   "NORDIC_PUB_KEY",
}

// Types returns every known type in wire-code order, Any first.
func Types() []Type {
	return []Type{
		Any, RootCACert, ClientCert, ClientKey, PSK, PSKIdentity, PublicKey,
		DevIDPubKey, Reserved, EndorsementKey, OwnershipKey, NordicIDRootCA, NordicPubKey,
	}
}

// String returns the canonical upper-case name, or the numeric code for
// values outside the enumeration.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// Code returns the integer sent in AT commands.
func (t Type) Code() int {
	return int(t)
}

// Valid reports whether t is a member of the enumeration.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Writable reports whether credentials of this type can be written or
// deleted by a client. Device-generated kinds are read-only.
func (t Type) Writable() bool {
	switch t {
	case RootCACert, ClientCert, ClientKey, PSK, PSKIdentity:
		return true
	}
	return false
}

// MarshalText encodes the type by name for JSON and YAML output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the forms understood by ParseType.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType converts a name ("CLIENT_KEY", case-insensitive) or a wire
// code ("2") into a Type.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		t := Type(n)
		if !t.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnknownType, n)
		}
		return t, nil
	}
	upper := strings.ToUpper(s)
	for t, name := range typeNames {
		if name == upper {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Credential is one entry of a %CMNG listing.
type Credential struct {
	Tag  uint32 `json:"tag" yaml:"tag"`
	Type Type   `json:"type" yaml:"type"`
	SHA  string `json:"sha" yaml:"sha"`
}

// ParseTag parses a security tag, which must fit in an unsigned 32-bit integer.
func ParseTag(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid security tag %q: must be 0-%d", ErrUsage, s, uint32(1<<32-1))
	}
	return uint32(n), nil
}
