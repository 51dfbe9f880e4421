package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pascal-nordic/nrfcredstore/pkg/atcmd"
	"github.com/pascal-nordic/nrfcredstore/pkg/credstore"
	"github.com/pascal-nordic/nrfcredstore/pkg/discovery"
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

// session is one connection to the modem. It owns the serial port until
// Close.
type session struct {
	device discovery.Selection
	conn   *transport.Conn
	store  *credstore.Store
}

// sessionOptions controls modem setup after connecting.
type sessionOptions struct {
	// offline puts the modem in offline mode, which %CMNG mutations need.
	offline bool
}

// newSelector builds the device selector for cmd. Prompts go to stderr
// so stdout stays parseable.
func newSelector(cmd *cobra.Command) *discovery.Selector {
	prompter := discovery.TerminalPrompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
	return discovery.NewSelector(portLister, prompter, logger)
}

func selectionOptions() discovery.Options {
	return discovery.Options{
		Probe:        probeMode,
		SerialNumber: serialNumber,
		Port:         portPath,
		ListAll:      listAll,
		Interactive:  !nonInteractive,
	}
}

// openSession selects the device, opens the port, settles on a command
// interface and enables numeric error reporting. The caller must Close
// the returned session.
func openSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	sel, err := newSelector(cmd).SelectDevice(selectionOptions())
	if err != nil {
		return nil, err
	}
	if sel.Port == nil {
		return nil, fmt.Errorf("%w: probe %s has no AT serial port", discovery.ErrNoDevice, sel.SerialNumber)
	}
	log := logger.With("port", sel.Port.Device)
	log.Debug("connecting", "serial", sel.SerialNumber, "board", sel.Name)

	conn, err := transport.Open(&transport.Config{
		MockPort:        mockPort,
		Path:            sel.Port.Device,
		Baudrate:        baudrate,
		LineTimeout:     lineTimeout,
		ResponseTimeout: responseTimeout,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}
	s := &session{device: sel, conn: conn}

	if err := s.setup(opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) setup(opts sessionOptions) error {
	iface, err := atcmd.ForMode(cmdMode, s.conn, logger)
	if err != nil {
		return err
	}
	if err := iface.EnableErrorCodes(); err != nil {
		return err
	}
	s.store = credstore.New(iface, logger)
	if opts.offline {
		return s.store.FuncMode(credstore.FuncModeOffline)
	}
	return nil
}

// Close releases the serial port.
func (s *session) Close() error {
	return s.conn.Close()
}

// withSession runs fn on an open session and always releases the port.
func withSession(cmd *cobra.Command, opts sessionOptions, fn func(*session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
