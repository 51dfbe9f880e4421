// Package cli provides shared test utilities for testing cobra commands.
//
// # Basic Usage
//
//	result := cli.Run(rootCmd, "list", "--tag", "42")
//	result.AssertSuccess(t)
//	result.AssertContains(t, "CLIENT_CERT")
//
// # Standard Input
//
// Commands that read from stdin, such as "write <tag> <type> -", get
// their input through RunWithInput:
//
//	result := cli.RunWithInput(rootCmd, pem, "write", "42", "ROOT_CA_CERT", "-")
//
// # Resetting Commands
//
// For commands with persistent state, use Reset before execution:
//
//	result := cli.Reset(rootCmd).Run("--help")
package cli
