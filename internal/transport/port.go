// Package transport provides the per-device read/write primitive the
// capture/validate layer sits on. It exposes a minimal Port interface, a real
// serial backend, and an in-memory scripted port for hardware-free use.
package transport

import "time"

// Port is the opaque device handle consumed by the session layer. The layer
// above never interprets payload bytes; protocol semantics live elsewhere.
type Port interface {
	// Write sends p to the device. The timeout bounds the whole operation
	// where the backend supports it.
	Write(p []byte, timeout time.Duration) (int, error)

	// Read returns whatever bytes the device produced within timeout. A nil
	// slice with a nil error means no data arrived before the timeout; that
	// is a normal outcome, not an error.
	Read(timeout time.Duration) ([]byte, error)

	Close() error
}
