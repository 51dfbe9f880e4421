// Package transport owns the serial link to the modem.
//
// The link carries line-oriented AT traffic: every command is one line
// terminated by CR LF and every response is a sequence of lines ending in
// a final result such as "OK" or "ERROR".
//
// # Transport Implementations
//
// Two ports are available:
//
//   - Serial: a real UART or USB CDC ACM device opened with
//     github.com/tarm/serial. Used in production.
//
//   - MockPort: an in-memory port that records written lines and replays
//     scripted responses. Used in tests.
//
// # Protocol
//
// [Conn.ExpectResponse] reads lines until the success or error marker is
// seen or the response timeout elapses. Lines starting with a capture
// prefix are collected and returned. Failure is reported only through
// the boolean result; the call never returns an error for protocol-level
// failure.
//
// # Usage
//
//	conn, err := transport.Open(&transport.Config{Path: "/dev/ttyACM0", Baudrate: 115200})
//	defer conn.Close()
//
//	_ = conn.WriteLine("AT+CGMM")
//	ok, model := conn.ExpectResponse("OK", "ERROR", transport.WithCapture(""))
package transport
