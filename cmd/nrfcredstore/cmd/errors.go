package cmd

import (
	"errors"

	"github.com/pascal-nordic/nrfcredstore/pkg/atcmd"
	"github.com/pascal-nordic/nrfcredstore/pkg/clierror"
	"github.com/pascal-nordic/nrfcredstore/pkg/credential"
	"github.com/pascal-nordic/nrfcredstore/pkg/discovery"
	"github.com/pascal-nordic/nrfcredstore/pkg/transport"
)

// ToCLIError classifies err for display and exit status. Timeouts are
// checked before command failures since a timed out command is both.
func ToCLIError(err error) *clierror.CLIError {
	var cliErr *clierror.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	switch {
	case errors.Is(err, credential.ErrUsage):
		return clierror.Usage(err.Error())
	case errors.Is(err, atcmd.ErrNoATClient):
		return clierror.NoATClient()
	case errors.Is(err, transport.ErrTimeout):
		return clierror.Timeout(err.Error())
	case errors.Is(err, atcmd.ErrATCommand):
		return clierror.ATCommandFailed(err.Error())
	case errors.Is(err, transport.ErrSerialOpen):
		return clierror.SerialOpenFailed(err.Error())
	case errors.Is(err, discovery.ErrNoDevice), errors.Is(err, discovery.ErrNoProbe):
		return clierror.DeviceNotFound(err.Error())
	default:
		return clierror.InternalError(err)
	}
}
