// Package server implements the TCP front of the SIP2 service: the listener,
// the per-connection session loop and the wire-level error handling that sits
// between the codec and the action dispatcher.
//
// Each accepted connection gets its own goroutine and its own client session
// record, created on accept and deleted on disconnect. The session loop reads
// one terminated line at a time, verifies the checksum and sequence trailer
// when error detection is enabled, dispatches the parsed message and writes
// the response back. Integrity failures are answered with a request-resend
// message instead of closing the connection.
package server
