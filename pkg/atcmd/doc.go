// Package atcmd issues the modem's credential, identity and attestation
// AT commands.
//
// Two firmware front ends are supported. An AT host application reads AT
// commands directly from the UART. An interactive shell wraps the same
// commands behind the "at" shell command and echoes every input line.
// [Host] and [Shell] implement [Interface] for each, and [Detect] probes
// the connection once to choose between them.
package atcmd
