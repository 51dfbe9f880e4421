// Package credstore implements credential management on top of an
// atcmd.Interface: listing, writing, deleting and generating keys in the
// modem's secure storage, plus the identity queries the CLI exposes.
//
// Mutations validate their arguments before anything is sent to the
// device. Callers are expected to put the modem offline with FuncMode
// first, since some firmware rejects %CMNG while the radio is active.
package credstore
