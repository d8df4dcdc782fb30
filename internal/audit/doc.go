// Package audit dispatches sign and verify events to a caller-supplied sink.
//
// [Dispatcher] is a buffered async relay started only when auditing is
// enabled. With DropIfFull it never blocks the caller and counts what it
// drops; otherwise Emit waits for buffer space or context cancellation.
//
// This package does not decide which events to emit and never sees token
// material.
package audit
