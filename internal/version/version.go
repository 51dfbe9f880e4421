// Package version holds build metadata for nrfcredstore.
package version

import (
	"fmt"
	"strings"
)

// Set with -ldflags "-X github.com/pascal-nordic/nrfcredstore/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version with a single 'v' prefix for display.
func String() string {
	return "v" + strings.TrimPrefix(Version, "v")
}

// Long returns the version line printed by --version.
func Long() string {
	if Commit == "" {
		return fmt.Sprintf("nrfcredstore %s", String())
	}
	return fmt.Sprintf("nrfcredstore %s (%s)", String(), Commit)
}
