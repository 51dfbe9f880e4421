package discovery

// Port lists captured from real hosts.

func ports(pairs ...[2]string) StaticLister {
	out := make(StaticLister, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, ParseHWID(p[0], p[1]))
	}
	return out
}

var (
	portsMac = ports(
		[2]string{"/dev/cu.debug-console", "n/a"},
		[2]string{"/dev/cu.Bluetooth-Incoming-Port", "n/a"},
		[2]string{"/dev/cu.usbmodem0010512021353", "USB VID:PID=1366:1069 SER=001051202135 LOCATION=1-1.4.4"},
		[2]string{"/dev/cu.usbmodem0010512021351", "USB VID:PID=1366:1069 SER=001051202135 LOCATION=1-1.4.4"},
	)

	portsWindows = ports(
		[2]string{"COM1", `ACPI\PNP0501\1`},
		[2]string{"COM35", "USB VID:PID=1915:910A SER=THINGY91X_F39CC1B120C LOCATION=1-21:x.1"},
		[2]string{"COM36", "USB VID:PID=1915:910A SER=THINGY91X_F39CC1B120C LOCATION=1-21:x.4"},
	)

	portsLinuxOne = ports(
		[2]string{"/dev/ttyS0", "n/a"},
		[2]string{"/dev/ttyS1", "n/a"},
		[2]string{"/dev/ttyACM0", "USB VID:PID=1915:910A SER=THINGY91X_F39CC1B120C LOCATION=3-12.1.3.2.1.4:1.1"},
		[2]string{"/dev/ttyACM1", "USB VID:PID=1915:910A SER=THINGY91X_F39CC1B120C LOCATION=3-12.1.3.2.1.4:1.4"},
	)

	portsLinuxMulti = ports(
		[2]string{"/dev/ttyS0", "n/a"},
		[2]string{"/dev/ttyS1", "n/a"},
		[2]string{"/dev/ttyACM0", "USB VID:PID=1915:910A SER=THINGY91X_F39CC1B120C LOCATION=3-12.1.3.2.1.4:1.1"},
		[2]string{"/dev/ttyACM1", "USB VID:PID=1915:910A SER=THINGY91X_F39CC1B120C LOCATION=3-12.1.3.2.1.4:1.4"},
		[2]string{"/dev/ttyACM2", "USB VID:PID=1366:1069 SER=001051202135 LOCATION=3-12.1.3.2.4:1.0"},
		[2]string{"/dev/ttyACM3", "USB VID:PID=1366:1069 SER=001051202135 LOCATION=3-12.1.3.2.4:1.2"},
		[2]string{"/dev/ttyACM4", "USB VID:PID=1366:1051 SER=001050760093 LOCATION=3-12.1.3.2.4:1.0"},
		[2]string{"/dev/ttyACM5", "USB VID:PID=1366:1051 SER=001050760093 LOCATION=3-12.1.3.2.4:1.2"},
	)

	portsLinuxJLink = ports(
		[2]string{"/dev/ttyS0", "n/a"},
		[2]string{"/dev/ttyS1", "n/a"},
		[2]string{"/dev/ttyACM0", "USB VID:PID=1366:0105 SER=000821001234 LOCATION=3-12.1.3.2.4:1.0"},
	)

	portsLinuxMixed = ports(
		[2]string{"/dev/ttyS0", "n/a"},
		[2]string{"/dev/ttyS1", "n/a"},
		[2]string{"/dev/ttyACM0", "USB VID:PID=1366:0105 SER=000821001234 LOCATION=3-12.1.3.2.4:1.0"},
		[2]string{"/dev/ttyACM1", "USB VID:PID=1366:1051 SER=001050760093 LOCATION=3-12.1.3.2.4:1.0"},
		[2]string{"/dev/ttyACM2", "USB VID:PID=1366:1051 SER=001050760093 LOCATION=3-12.1.3.2.4:1.2"},
	)

	portsLinuxJLinkMultiCom = ports(
		[2]string{"/dev/ttyS0", "n/a"},
		[2]string{"/dev/ttyS1", "n/a"},
		[2]string{"/dev/ttyACM0", "USB VID:PID=1366:0105 SER=000821001234 LOCATION=3-12.1.3.2.4:1.0"},
		[2]string{"/dev/ttyACM1", "USB VID:PID=1366:0105 SER=000821001234 LOCATION=3-12.1.3.2.4:1.2"},
		[2]string{"/dev/ttyACM2", "USB VID:PID=1366:0105 SER=000821001234 LOCATION=3-12.1.3.2.4:1.4"},
	)

	portsEmpty = StaticLister{}
)

// scriptedPrompter returns a fixed choice and records what it was shown.
type scriptedPrompter struct {
	choice  int
	err     error
	calls   int
	title   string
	options []string
}

func (p *scriptedPrompter) Select(title string, options []string) (int, error) {
	p.calls++
	p.title = title
	p.options = options
	return p.choice, p.err
}
