package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Lister enumerates the serial ports present on the host.
type Lister interface {
	Ports() ([]PortInfo, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func() ([]PortInfo, error)

// Ports calls f.
func (f ListerFunc) Ports() ([]PortInfo, error) {
	return f()
}

// StaticLister returns a fixed port list. Used for testing.
type StaticLister []PortInfo

// Ports returns a copy of the list.
func (s StaticLister) Ports() ([]PortInfo, error) {
	out := make([]PortInfo, len(s))
	copy(out, s)
	return out, nil
}

// SystemLister enumerates real ports through the OS.
type SystemLister struct {
	// SysfsRoot overrides /sys for location lookup on Linux.
	SysfsRoot string
}

// Ports returns every serial port sorted by device path.
func (l SystemLister) Ports() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		p := PortInfo{Device: d.Name}
		if d.IsUSB {
			p.VID = strings.ToUpper(d.VID)
			p.PID = strings.ToUpper(d.PID)
			p.SerialNumber = d.SerialNumber
			p.Location = l.location(d.Name)
		}
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Device < ports[j].Device })
	return ports, nil
}

// location resolves the USB interface path of a tty on Linux, which sysfs
// exposes as the name of the tty's parent device directory. Other
// platforms return an empty location.
func (l SystemLister) location(device string) string {
	if runtime.GOOS != "linux" {
		return ""
	}
	root := l.SysfsRoot
	if root == "" {
		root = "/sys"
	}
	link := filepath.Join(root, "class", "tty", filepath.Base(device), "device")
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return ""
	}
	if _, err := os.Stat(target); err != nil {
		return ""
	}
	return filepath.Base(target)
}
