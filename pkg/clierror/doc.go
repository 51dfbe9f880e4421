// Package clierror provides structured error handling for CLI commands.
//
// CLI errors carry an exit code, a user-facing message and an optional
// troubleshooting hint. Scripts driving nrfcredstore rely on the exit
// codes to tell a missing device from a modem that refused a command.
//
// # Usage
//
//	if err != nil {
//	    return clierror.ATCommandFailed(err.Error())
//	}
package clierror
