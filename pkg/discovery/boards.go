package discovery

import "sort"

// Board is a connected development board and the port that carries its
// AT interface.
type Board struct {
	Name         string   `json:"name" yaml:"name"`
	SerialNumber string   `json:"serial_number" yaml:"serial_number"`
	Port         PortInfo `json:"port" yaml:"port"`
}

type serialFormat int

const (
	// serialVerbatim keeps the whole SER= token, e.g. THINGY91X_F39CC1B120C.
	serialVerbatim serialFormat = iota
	// serialNumeric keeps the leading digits without leading zeros, e.g. 1051202135.
	serialNumeric
)

// boardRule classifies ports by USB identity. ATInterface is the USB
// interface number whose CDC port accepts AT commands.
type boardRule struct {
	VID         string
	PID         string
	Name        string
	ATInterface int
	Format      serialFormat
}

// boardRules lists the supported boards. The two J-Link OB variants share
// the SEGGER vendor ID and expose the modem UART on different interfaces.
var boardRules = []boardRule{
	{VID: "1915", PID: "910A", Name: "Thingy:91 X", ATInterface: 1, Format: serialVerbatim},
	{VID: "1366", PID: "1069", Name: "nRF9151-DK", ATInterface: 0, Format: serialNumeric},
	{VID: "1366", PID: "1051", Name: "nRF7002-DK", ATInterface: 2, Format: serialNumeric},
}

// probeVID is the SEGGER vendor ID. Every port with it belongs to a J-Link
// debug probe, including probe-only interfaces (PID 0105) that have no AT port.
const probeVID = "1366"

func ruleFor(p PortInfo) (boardRule, bool) {
	for _, r := range boardRules {
		if r.VID == p.VID && r.PID == p.PID {
			return r, true
		}
	}
	return boardRule{}, false
}

func (r boardRule) serial(p PortInfo) string {
	if r.Format == serialNumeric {
		return leadingNumber(p.SerialNumber)
	}
	return p.SerialNumber
}

// SerialFor returns the serial number discovery reports for a port: the
// board serial for known boards, the numeric probe serial for other
// SEGGER ports, and the raw USB serial otherwise.
func SerialFor(p PortInfo) string {
	if r, ok := ruleFor(p); ok {
		return r.serial(p)
	}
	if p.VID == probeVID {
		return leadingNumber(p.SerialNumber)
	}
	return p.SerialNumber
}

// Boards classifies ports into boards, one entry per physical board in
// order of first appearance. Unrecognized ports are ignored.
//
// Within a board the port on the rule's AT interface is chosen. If no port
// reports that interface, the lexicographically last device path is used.
func Boards(ports []PortInfo) []Board {
	type group struct {
		rule  boardRule
		ports []PortInfo
	}
	var order []string
	groups := map[string]*group{}
	for _, p := range ports {
		r, ok := ruleFor(p)
		if !ok {
			continue
		}
		serial := r.serial(p)
		if serial == "" {
			continue
		}
		key := r.Name + "\x00" + serial
		g, exists := groups[key]
		if !exists {
			g = &group{rule: r}
			groups[key] = g
			order = append(order, key)
		}
		g.ports = append(g.ports, p)
	}

	boards := make([]Board, 0, len(order))
	for _, key := range order {
		g := groups[key]
		boards = append(boards, Board{
			Name:         g.rule.Name,
			SerialNumber: g.rule.serial(g.ports[0]),
			Port:         atPort(g.rule, g.ports),
		})
	}
	return boards
}

func atPort(r boardRule, ports []PortInfo) PortInfo {
	for _, p := range ports {
		if p.InterfaceNumber() == r.ATInterface {
			return p
		}
	}
	sorted := make([]PortInfo, len(ports))
	copy(sorted, ports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Device < sorted[j].Device })
	return sorted[len(sorted)-1]
}

// ProbeSerials returns the distinct serial numbers of connected J-Link
// probes, in order of first appearance.
func ProbeSerials(ports []PortInfo) []string {
	seen := map[string]bool{}
	var serials []string
	for _, p := range ports {
		if p.VID != probeVID {
			continue
		}
		s := leadingNumber(p.SerialNumber)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		serials = append(serials, s)
	}
	return serials
}
