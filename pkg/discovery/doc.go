// Package discovery finds the serial port of a connected development
// board.
//
// Ports are classified by USB vendor/product ID and interface number into
// named boards. Boards expose several ports that share one serial number;
// discovery collapses them to the single AT-capable port per board.
// Debug probes are reported separately as probe serial numbers.
//
// # Selection
//
// [Selector.SelectDevice] resolves the port to open from an explicit port
// path, an explicit serial number, or the set of connected boards,
// prompting the operator when several candidates remain and prompting is
// allowed.
package discovery
