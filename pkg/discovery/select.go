package discovery

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNoDevice is returned when no port matches the selection criteria.
	ErrNoDevice = errors.New("no device found")

	// ErrNoProbe is returned in probe mode when no debug probe is connected.
	ErrNoProbe = errors.New("no J-Link device found")
)

// Options are the operator's hints for SelectDevice.
type Options struct {
	// Probe selects a debug probe serial instead of a serial port.
	Probe bool
	// SerialNumber restricts candidates to one board or probe.
	SerialNumber string
	// Port is an explicit device path. It takes precedence over everything else.
	Port string
	// ListAll considers every serial port (or every probe) rather than only
	// recognized boards.
	ListAll bool
	// Interactive allows prompting when several candidates remain.
	// Otherwise the first candidate is chosen.
	Interactive bool
}

// Selection is the resolved device.
type Selection struct {
	// Port is nil in probe mode when the probe has no recognized board port.
	Port         *PortInfo
	SerialNumber string
	// Name is the board name when the port belongs to a recognized board.
	Name string
}

// Selector resolves the device to connect to.
type Selector struct {
	Lister   Lister
	Prompter Prompter
	Logger   *slog.Logger
}

// NewSelector creates a Selector. A nil logger uses slog.Default().
func NewSelector(lister Lister, prompter Prompter, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{Lister: lister, Prompter: prompter, Logger: logger}
}

// SelectDevice applies the selection policy:
//  1. Probe mode selects among probe serials.
//  2. An explicit port is used directly; its serial is looked up by rescanning.
//  3. An explicit serial number filters boards (or all ports with ListAll).
//  4. Otherwise all boards (or all ports with ListAll) are candidates.
//
// Zero candidates is an error, one is selected without prompting, and
// several are prompted for when Interactive is set.
func (s *Selector) SelectDevice(opts Options) (Selection, error) {
	ports, err := s.Lister.Ports()
	if err != nil {
		return Selection{}, err
	}

	if opts.Probe {
		return s.selectProbe(ports, opts)
	}
	if opts.Port != "" {
		return s.selectPort(ports, opts.Port), nil
	}
	if opts.SerialNumber != "" {
		return s.selectBySerial(ports, opts)
	}

	if opts.ListAll {
		p, err := choose(s, opts.Interactive, "Select a serial port:", ports, portLabel, ErrNoDevice)
		if err != nil {
			return Selection{}, err
		}
		return s.selectPort(ports, p.Device), nil
	}
	b, err := choose(s, opts.Interactive, "Select a device:", Boards(ports), boardLabel, ErrNoDevice)
	if err != nil {
		return Selection{}, err
	}
	return boardSelection(b), nil
}

func (s *Selector) selectPort(ports []PortInfo, device string) Selection {
	for _, b := range Boards(ports) {
		if b.Port.Device == device {
			return boardSelection(b)
		}
	}
	for _, p := range ports {
		if p.Device == device {
			p := p
			return Selection{Port: &p, SerialNumber: SerialFor(p)}
		}
	}
	s.Logger.Debug("port not found during scan, using it as given", "port", device)
	return Selection{Port: &PortInfo{Device: device}}
}

func (s *Selector) selectBySerial(ports []PortInfo, opts Options) (Selection, error) {
	want := NormalizeSerial(opts.SerialNumber)
	notFound := fmt.Errorf("%w with serial %s", ErrNoDevice, opts.SerialNumber)

	if opts.ListAll {
		var matching []PortInfo
		for _, p := range ports {
			if p.SerialNumber != "" && NormalizeSerial(SerialFor(p)) == want {
				matching = append(matching, p)
			}
		}
		p, err := choose(s, opts.Interactive, "Select a serial port:", matching, portLabel, notFound)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Port: &p, SerialNumber: SerialFor(p)}, nil
	}

	var matching []Board
	for _, b := range Boards(ports) {
		if NormalizeSerial(b.SerialNumber) == want {
			matching = append(matching, b)
		}
	}
	b, err := choose(s, opts.Interactive, "Select a device:", matching, boardLabel, notFound)
	if err != nil {
		return Selection{}, err
	}
	return boardSelection(b), nil
}

func (s *Selector) selectProbe(ports []PortInfo, opts Options) (Selection, error) {
	probes := ProbeSerials(ports)
	boards := Boards(ports)

	var serial string
	if opts.SerialNumber != "" {
		want := NormalizeSerial(opts.SerialNumber)
		for _, p := range probes {
			if p == want {
				serial = p
				break
			}
		}
		if serial == "" {
			return Selection{}, fmt.Errorf("%w with serial %s", ErrNoDevice, opts.SerialNumber)
		}
	} else {
		candidates := probes
		if !opts.ListAll {
			candidates = probesWithBoards(probes, boards)
		}
		var err error
		serial, err = choose(s, opts.Interactive, "Select a J-Link:", candidates, func(p string) string { return p }, ErrNoProbe)
		if err != nil {
			return Selection{}, err
		}
	}

	for _, b := range boards {
		if b.SerialNumber == serial {
			return boardSelection(b), nil
		}
	}
	return Selection{SerialNumber: serial}, nil
}

// probesWithBoards keeps the probes that sit on a recognized board.
func probesWithBoards(probes []string, boards []Board) []string {
	known := map[string]bool{}
	for _, b := range boards {
		known[NormalizeSerial(b.SerialNumber)] = true
	}
	var out []string
	for _, p := range probes {
		if known[p] {
			out = append(out, p)
		}
	}
	return out
}

func boardSelection(b Board) Selection {
	port := b.Port
	return Selection{Port: &port, SerialNumber: b.SerialNumber, Name: b.Name}
}

func boardLabel(b Board) string {
	return fmt.Sprintf("%s  %s  %s", b.Name, b.SerialNumber, b.Port.Device)
}

func portLabel(p PortInfo) string {
	return fmt.Sprintf("%s  %s", p.Device, p.HWID())
}

// choose applies the zero/one/many rule to candidates.
func choose[T any](s *Selector, interactive bool, title string, items []T, label func(T) string, none error) (T, error) {
	var zero T
	switch {
	case len(items) == 0:
		return zero, none
	case len(items) == 1:
		return items[0], nil
	case !interactive || s.Prompter == nil:
		s.Logger.Debug("multiple candidates, choosing the first", "count", len(items))
		return items[0], nil
	}

	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = label(it)
	}
	idx, err := s.Prompter.Select(title, labels)
	if err != nil {
		return zero, err
	}
	if idx < 0 || idx >= len(items) {
		return zero, fmt.Errorf("%w: choice %d out of range", ErrSelectionAborted, idx)
	}
	return items[idx], nil
}
