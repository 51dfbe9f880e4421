// Command nrfcredstore manages credentials in the modem's secure storage
// over a serial AT interface.
package main

import (
	"os"

	"github.com/pascal-nordic/nrfcredstore/cmd/nrfcredstore/cmd"
	"github.com/pascal-nordic/nrfcredstore/pkg/clierror"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cliErr := cmd.ToCLIError(err)
		clierror.PrintError(cliErr, cmd.OutputFormat())
		os.Exit(cliErr.ExitCode)
	}
}
