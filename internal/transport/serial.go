package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// readChunk is the buffer size for a single read from the serial port. Lab
// instrument responses are short lines; one chunk is always enough.
const readChunk = 4096

// SerialPort adapts a go.bug.st/serial port to the Port interface, mapping
// the driver's zero-byte timeout reads onto the explicit no-data signal.
type SerialPort struct {
	port serial.Port
}

// Open opens the serial device at path with the given options.
func Open(path string, opts Options) (*SerialPort, error) {
	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return &SerialPort{port: port}, nil
}

func (s *SerialPort) Write(p []byte, timeout time.Duration) (int, error) {
	return s.port.Write(p)
}

func (s *SerialPort) Read(timeout time.Duration) ([]byte, error) {
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	buf := make([]byte, readChunk)
	n, err := s.port.Read(buf)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// go.bug.st/serial reports an expired read timeout as (0, nil).
		return nil, nil
	}
	return buf[:n], nil
}

func (s *SerialPort) Close() error {
	return s.port.Close()
}
