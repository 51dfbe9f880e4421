// Package credential defines the records held in a modem's secure
// credential storage and the closed set of credential types used by the
// %CMNG command family.
//
// Credentials are produced only by parsing a listing response and carry
// no lifecycle of their own: all state lives on the device.
package credential
