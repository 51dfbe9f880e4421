package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the byte stream to the modem.
type Port interface {
	io.Reader
	io.Writer
	io.Closer
}

// serialReadTimeout bounds a single blocking read so line deadlines are
// honored with at most this much overshoot.
const serialReadTimeout = 100 * time.Millisecond

// OpenSerial opens a serial device at the given baud rate.
func OpenSerial(path string, baud int) (Port, error) {
	c := &serial.Config{Name: path, Baud: baud, ReadTimeout: serialReadTimeout}
	p, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrSerialOpen, path, err)
	}
	_ = p.Flush()
	return p, nil
}
