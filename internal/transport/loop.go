package transport

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// ErrPortClosed is returned by operations on a closed port.
var ErrPortClosed = errors.New("port is closed")

// LoopPort implements Port entirely in memory with configurable behaviour.
// It captures everything written and serves reads from a queue of scripted
// chunks, which makes it usable both as a test double and as the no-hardware
// backend for replaying captures.
type LoopPort struct {
	mu sync.Mutex

	reads   [][]byte
	written bytes.Buffer

	// ReadLatency adds a delay to each Read call
	ReadLatency time.Duration

	// WriteLatency adds a delay to each Write call
	WriteLatency time.Duration

	nextReadErr  error
	nextWriteErr error
	closed       bool

	// ReadCalls and WriteCalls record call counts
	ReadCalls  int
	WriteCalls int
}

// NewLoopPort creates an empty LoopPort.
func NewLoopPort() *LoopPort {
	return &LoopPort{}
}

// QueueRead schedules a chunk to be returned by a subsequent Read call.
func (l *LoopPort) QueueRead(data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads = append(l.reads, append([]byte(nil), data...))
}

// FailNextRead makes the next Read call return err.
func (l *LoopPort) FailNextRead(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextReadErr = err
}

// FailNextWrite makes the next Write call return err.
func (l *LoopPort) FailNextWrite(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextWriteErr = err
}

// Written returns all data written to the port so far.
func (l *LoopPort) Written() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]byte(nil), l.written.Bytes()...)
}

func (l *LoopPort) Write(p []byte, timeout time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.WriteCalls++
	if l.closed {
		return 0, ErrPortClosed
	}
	if l.nextWriteErr != nil {
		err := l.nextWriteErr
		l.nextWriteErr = nil
		return 0, err
	}
	if l.WriteLatency > 0 {
		l.mu.Unlock()
		time.Sleep(l.WriteLatency)
		l.mu.Lock()
	}
	return l.written.Write(p)
}

func (l *LoopPort) Read(timeout time.Duration) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ReadCalls++
	if l.closed {
		return nil, ErrPortClosed
	}
	if l.nextReadErr != nil {
		err := l.nextReadErr
		l.nextReadErr = nil
		return nil, err
	}
	if l.ReadLatency > 0 {
		l.mu.Unlock()
		time.Sleep(l.ReadLatency)
		l.mu.Lock()
	}
	if len(l.reads) == 0 {
		// Nothing scripted: behave like a device that stayed silent for the
		// whole timeout window.
		return nil, nil
	}
	data := l.reads[0]
	l.reads = l.reads[1:]
	return data, nil
}

func (l *LoopPort) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
