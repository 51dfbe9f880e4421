package atcmd

import (
	"log/slog"
	"time"

	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

const (
	detectCommand = "AT+CGSN"
	detectTimeout = 2 * time.Second
)

// Detect sends a harmless query first as a plain AT command and then
// behind the shell prefix, returning the variant that answers OK.
// Error output from the probes is not logged.
func Detect(c Comms, logger *slog.Logger) (Interface, error) {
	if logger == nil {
		logger = slog.Default()
	}
	probes := []struct {
		prefix string
		build  func() Interface
	}{
		{"", func() Interface { return NewHost(c, logger) }},
		{ShellPrefix, func() Interface { return NewShell(c, logger) }},
	}
	for _, p := range probes {
		if err := c.WriteLine(p.prefix + detectCommand); err != nil {
			return nil, err
		}
		opts := []transport.ExpectOption{
			transport.WithSuppressedErrors(),
			transport.WithTimeout(detectTimeout),
		}
		if p.prefix != "" {
			opts = append(opts, transport.WithEchoSkip())
		}
		if ok, _ := c.ExpectResponse(resultOK, resultError, opts...); ok {
			iface := p.build()
			logger.Debug("detected command interface", "shell", iface.ShellMode())
			return iface, nil
		}
	}
	return nil, ErrNoATClient
}
