package discovery

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// PortInfo describes one serial port as reported by the host.
type PortInfo struct {
	// Device is the path used to open the port, e.g. /dev/ttyACM0 or COM35.
	Device string `json:"device" yaml:"device"`
	// VID and PID are upper-case 4-digit hex USB identifiers, empty for non-USB ports.
	VID string `json:"vid,omitempty" yaml:"vid,omitempty"`
	PID string `json:"pid,omitempty" yaml:"pid,omitempty"`
	// SerialNumber is the USB iSerial string.
	SerialNumber string `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	// Location is the bus path with optional ":<config>.<interface>" suffix,
	// e.g. 3-12.1.3.2.4:1.0.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

var (
	vidPidPattern   = regexp.MustCompile(`VID:PID=([0-9A-Fa-f]{4}):([0-9A-Fa-f]{4})`)
	serialPattern   = regexp.MustCompile(`SER=(\S+)`)
	locationPattern = regexp.MustCompile(`LOCATION=(\S+)`)
)

// ParseHWID builds a PortInfo from a hardware ID string of the form
// "USB VID:PID=1366:1069 SER=001051202135 LOCATION=3-12.1.3.2.4:1.0".
// Non-USB IDs yield a PortInfo with only Device set.
func ParseHWID(device, hwid string) PortInfo {
	p := PortInfo{Device: device}
	if m := vidPidPattern.FindStringSubmatch(hwid); m != nil {
		p.VID = strings.ToUpper(m[1])
		p.PID = strings.ToUpper(m[2])
	}
	if m := serialPattern.FindStringSubmatch(hwid); m != nil {
		p.SerialNumber = m[1]
	}
	if m := locationPattern.FindStringSubmatch(hwid); m != nil {
		p.Location = m[1]
	}
	return p
}

// HWID renders the port in the same form ParseHWID accepts.
func (p PortInfo) HWID() string {
	if p.VID == "" {
		return "n/a"
	}
	s := fmt.Sprintf("USB VID:PID=%s:%s", p.VID, p.PID)
	if p.SerialNumber != "" {
		s += " SER=" + p.SerialNumber
	}
	if p.Location != "" {
		s += " LOCATION=" + p.Location
	}
	return s
}

// IsUSB reports whether the port has USB identifiers.
func (p PortInfo) IsUSB() bool {
	return p.VID != ""
}

// InterfaceNumber returns the USB interface the port belongs to, or -1
// when it cannot be determined.
//
// The interface is the digit after the last '.' of the location suffix
// ("3-12.1.3.2.4:1.2" is interface 2, "1-21:x.1" is interface 1). macOS
// does not report it; there the CDC device name ends in the interface
// number plus one (tty.usbmodem0010512021351 is interface 0).
func (p PortInfo) InterfaceNumber() int {
	if i := strings.LastIndexByte(p.Location, ':'); i >= 0 {
		suffix := p.Location[i+1:]
		if j := strings.LastIndexByte(suffix, '.'); j >= 0 {
			if n, err := strconv.Atoi(suffix[j+1:]); err == nil {
				return n
			}
		}
		return -1
	}
	base := path.Base(p.Device)
	if strings.Contains(base, "usbmodem") && base != "" {
		last := rune(base[len(base)-1])
		if unicode.IsDigit(last) && last != '0' {
			return int(last-'0') - 1
		}
	}
	return -1
}

// NormalizeSerial strips leading zeros from purely numeric serial numbers
// so "001051202135" and "1051202135" compare equal. Other serials are
// returned unchanged.
func NormalizeSerial(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits != len(s) {
		return s
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// leadingNumber returns the leading decimal digits of s with leading
// zeros removed, or "" when s does not start with a digit.
func leadingNumber(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	return NormalizeSerial(s[:end])
}
