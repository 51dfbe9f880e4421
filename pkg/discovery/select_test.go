package discovery

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSelector(lister Lister, prompter Prompter) *Selector {
	return NewSelector(lister, prompter, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestSelectDevice_NoDevices(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsEmpty, nil)

	_, err := s.SelectDevice(Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDevice))
	assert.Equal(t, "no device found", err.Error())
}

func TestSelectDevice_OneDeviceNoPrompt(t *testing.T) {
	t.Parallel()
	prompter := &scriptedPrompter{}
	s := newTestSelector(portsLinuxOne, prompter)

	sel, err := s.SelectDevice(Options{Interactive: true})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", sel.Port.Device)
	assert.Equal(t, "THINGY91X_F39CC1B120C", sel.SerialNumber)
	assert.Equal(t, "Thingy:91 X", sel.Name)
	assert.Zero(t, prompter.calls)
}

func TestSelectDevice_MultipleDevicesPrompts(t *testing.T) {
	t.Parallel()
	prompter := &scriptedPrompter{choice: 2}
	s := newTestSelector(portsLinuxMulti, prompter)

	sel, err := s.SelectDevice(Options{Interactive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, prompter.calls)
	require.Len(t, prompter.options, 3)
	assert.Contains(t, prompter.options[2], "nRF7002-DK")
	assert.Equal(t, "/dev/ttyACM5", sel.Port.Device)
	assert.Equal(t, "1050760093", sel.SerialNumber)
}

func TestSelectDevice_MultipleDevicesNonInteractivePicksFirst(t *testing.T) {
	t.Parallel()
	prompter := &scriptedPrompter{choice: 2}
	s := newTestSelector(portsLinuxMulti, prompter)

	sel, err := s.SelectDevice(Options{})
	require.NoError(t, err)
	assert.Zero(t, prompter.calls)
	assert.Equal(t, "/dev/ttyACM0", sel.Port.Device)
}

func TestSelectDevice_PromptError(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, &scriptedPrompter{err: ErrSelectionAborted})

	_, err := s.SelectDevice(Options{Interactive: true})
	assert.ErrorIs(t, err, ErrSelectionAborted)
}

func TestSelectDevice_PortGiven(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, nil)

	sel, err := s.SelectDevice(Options{Port: "/dev/ttyACM0"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", sel.Port.Device)
	assert.Equal(t, "THINGY91X_F39CC1B120C", sel.SerialNumber)
}

func TestSelectDevice_PortGivenNotAtPort(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, nil)

	sel, err := s.SelectDevice(Options{Port: "/dev/ttyACM3"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM3", sel.Port.Device)
	assert.Equal(t, "1051202135", sel.SerialNumber)
	assert.Empty(t, sel.Name)
}

func TestSelectDevice_PortGivenUnknown(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsEmpty, nil)

	sel, err := s.SelectDevice(Options{Port: "/dev/pts/4"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/pts/4", sel.Port.Device)
	assert.Empty(t, sel.SerialNumber)
}

func TestSelectDevice_SerialGiven(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, nil)

	sel, err := s.SelectDevice(Options{SerialNumber: "THINGY91X_F39CC1B120C"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", sel.Port.Device)
	assert.Equal(t, "THINGY91X_F39CC1B120C", sel.SerialNumber)

	sel, err = s.SelectDevice(Options{SerialNumber: "001051202135"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM2", sel.Port.Device)
}

func TestSelectDevice_SerialNotFound(t *testing.T) {
	t.Parallel()
	for name, lister := range map[string]StaticLister{"empty": portsEmpty, "one": portsLinuxOne} {
		t.Run(name, func(t *testing.T) {
			s := newTestSelector(lister, nil)
			_, err := s.SelectDevice(Options{SerialNumber: "999999999"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoDevice))
			assert.Equal(t, "no device found with serial 999999999", err.Error())
		})
	}
}

func TestSelectDevice_SerialMultiplePortsPrompts(t *testing.T) {
	t.Parallel()
	prompter := &scriptedPrompter{choice: 2}
	s := newTestSelector(portsLinuxJLinkMultiCom, prompter)

	sel, err := s.SelectDevice(Options{SerialNumber: "821001234", ListAll: true, Interactive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, prompter.calls)
	assert.Equal(t, "/dev/ttyACM2", sel.Port.Device)
	assert.Equal(t, "821001234", sel.SerialNumber)
}

func TestSelectDevice_SharedSerialNonInteractiveIsDeterministic(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, &scriptedPrompter{choice: 1})

	for i := 0; i < 3; i++ {
		sel, err := s.SelectDevice(Options{SerialNumber: "1051202135", ListAll: true})
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyACM2", sel.Port.Device)
		assert.Equal(t, "1051202135", sel.SerialNumber)
	}
}

func TestSelectDevice_ListAllPromptsAmongAllPorts(t *testing.T) {
	t.Parallel()
	prompter := &scriptedPrompter{choice: 0}
	s := newTestSelector(portsLinuxMulti, prompter)

	sel, err := s.SelectDevice(Options{ListAll: true, Interactive: true})
	require.NoError(t, err)
	assert.Len(t, prompter.options, len(portsLinuxMulti))
	assert.Equal(t, "/dev/ttyS0", sel.Port.Device)
}

func TestSelectDevice_ProbeNoSerialPrompts(t *testing.T) {
	t.Parallel()
	prompter := &scriptedPrompter{choice: 0}
	s := newTestSelector(portsLinuxMulti, prompter)

	sel, err := s.SelectDevice(Options{Probe: true, Interactive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1051202135", "1050760093"}, prompter.options)
	assert.Equal(t, "1051202135", sel.SerialNumber)
	require.NotNil(t, sel.Port)
	assert.Equal(t, "/dev/ttyACM2", sel.Port.Device)
}

func TestSelectDevice_ProbeSerialFound(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, nil)

	sel, err := s.SelectDevice(Options{Probe: true, SerialNumber: "1050760093"})
	require.NoError(t, err)
	assert.Equal(t, "1050760093", sel.SerialNumber)
}

func TestSelectDevice_ProbeSerialNotFound(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMulti, nil)

	_, err := s.SelectDevice(Options{Probe: true, SerialNumber: "999999999"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no device found with serial 999999999"))
}

func TestSelectDevice_ProbeFiltersToBoards(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxMixed, nil)

	sel, err := s.SelectDevice(Options{Probe: true})
	require.NoError(t, err)
	assert.Equal(t, "1050760093", sel.SerialNumber)
}

func TestSelectDevice_ProbeWithoutBoards(t *testing.T) {
	t.Parallel()
	s := newTestSelector(portsLinuxJLink, nil)

	_, err := s.SelectDevice(Options{Probe: true})
	assert.ErrorIs(t, err, ErrNoProbe)

	// Listing all probes includes probe-only interfaces.
	sel, err := s.SelectDevice(Options{Probe: true, ListAll: true})
	require.NoError(t, err)
	assert.Equal(t, "821001234", sel.SerialNumber)
	assert.Nil(t, sel.Port)
}

func TestSelectDevice_ListerError(t *testing.T) {
	t.Parallel()
	boom := errors.New("enumeration failed")
	s := newTestSelector(ListerFunc(func() ([]PortInfo, error) { return nil, boom }), nil)

	_, err := s.SelectDevice(Options{})
	assert.ErrorIs(t, err, boom)
}
