// Package session implements the capture/validate layer that sits directly
// above the device transport. A Controller owns one session at a time: while
// capturing it records every write/read crossing any of its device handles
// and persists them as a versioned capture file; while validating it replays
// a previously recorded file, comparing live calls against the recording and
// answering reads from it so no hardware is needed. Call shape is identical
// in every mode, so protocol code never knows which mode is active.
package session

import (
	"fmt"
	"sync"

	"github.com/plateworks/wiretap/internal/capture"
	"github.com/plateworks/wiretap/internal/monitoring"
)

// Mode is the session state. Exactly one mode holds at any time.
type Mode int

const (
	Inactive Mode = iota
	Capturing
	Validating
)

func (m Mode) String() string {
	switch m {
	case Inactive:
		return "inactive"
	case Capturing:
		return "capturing"
	case Validating:
		return "validating"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Controller is the session state machine. The capture log and validation
// queue are shared across every device handle it issues; all mutation happens
// under one mutex so that interleaved calls from different devices land in a
// single globally consistent order. That order is the contract being
// recorded and replayed.
type Controller struct {
	mu       sync.Mutex
	mode     Mode
	strategy ioStrategy
	encoding string

	// Capturing state. The file at capturePath is rewritten after every
	// recorded entry, so at any moment it is a complete, loadable document
	// holding everything recorded so far.
	capturePath string
	log         []capture.Entry

	// Validating state: the loaded entry queue and the global cursor. The
	// queue is FIFO across all devices, mirroring wall-clock capture order.
	queue  []capture.Entry
	cursor int
}

// Option configures a Controller.
type Option func(*Controller)

// WithEncoding selects the payload encoding written into capture files.
// Defaults to capture.EncodingText; use capture.EncodingHex for binary wire
// protocols.
func WithEncoding(encoding string) Option {
	return func(c *Controller) { c.encoding = encoding }
}

// NewController creates an inactive Controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		mode:     Inactive,
		strategy: passthrough{},
		encoding: capture.EncodingText,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current session mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// StartCapture transitions Inactive -> Capturing. An empty capture document
// is written immediately so a bad path fails here rather than after a full
// hardware run.
func (c *Controller) StartCapture(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Inactive {
		return &ModeError{Op: "start_capture", Mode: c.mode}
	}

	if err := capture.New(c.encoding).Save(path); err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}

	c.capturePath = path
	c.log = nil
	c.mode = Capturing
	c.strategy = recorder{c}
	monitoring.Logf("capture started: %s", path)
	return nil
}

// StopCapture transitions Capturing -> Inactive after a final authoritative
// write of the capture file. The session returns to Inactive even when that
// write fails; whatever the per-entry writes already persisted remains on
// disk.
func (c *Controller) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Capturing {
		return &ModeError{Op: "stop_capture", Mode: c.mode}
	}

	err := c.persistLocked()
	entries := len(c.log)
	path := c.capturePath
	c.resetLocked()

	if err != nil {
		return fmt.Errorf("failed to write capture file: %w", err)
	}
	monitoring.Logf("capture stopped: %s (%d entries)", path, entries)
	return nil
}

// BeginValidation transitions Inactive -> Validating, loading the capture
// file into the replay queue. Format problems surface as
// *capture.FormatError before any traffic is validated.
func (c *Controller) BeginValidation(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Inactive {
		return &ModeError{Op: "begin_validation", Mode: c.mode}
	}

	f, err := capture.Load(path)
	if err != nil {
		return err
	}

	c.queue = f.Commands
	c.cursor = 0
	c.mode = Validating
	c.strategy = validator{c}
	monitoring.Logf("validation started: %s (%d entries)", path, len(f.Commands))
	return nil
}

// EndValidation transitions Validating -> Inactive. If recorded entries
// remain unconsumed the run under test was incomplete and an
// *IncompleteValidationError is returned; the session still resets, since a
// half-consumed queue cannot be resumed.
func (c *Controller) EndValidation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Validating {
		return &ModeError{Op: "end_validation", Mode: c.mode}
	}

	remaining := len(c.queue) - c.cursor
	var next *capture.Entry
	if remaining > 0 {
		e := c.queue[c.cursor]
		next = &e
	}
	c.resetLocked()

	if remaining > 0 {
		return &IncompleteValidationError{Remaining: remaining, Next: next}
	}
	monitoring.Logf("validation complete: queue empty")
	return nil
}

// Abort tears down whatever session is in flight and returns to Inactive.
// Entries recorded before the abort stay in the capture file; the underlying
// transport is untouched and remains usable. Safe to call in any mode;
// intended for signal handlers and error-exit paths.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Capturing {
		if err := c.persistLocked(); err != nil {
			monitoring.Logf("failed to write capture file on abort: %v", err)
		}
	}
	if c.mode != Inactive {
		monitoring.Logf("session aborted while %s", c.mode)
	}
	c.resetLocked()
}

// persistLocked rewrites the capture file with every entry recorded so far.
// Save goes through a temp file and rename, so the document at capturePath
// is replaced whole or not at all. Caller holds c.mu.
func (c *Controller) persistLocked() error {
	f := capture.New(c.encoding)
	f.Commands = c.log
	return f.Save(c.capturePath)
}

// resetLocked clears all session state. Caller holds c.mu.
func (c *Controller) resetLocked() {
	c.capturePath = ""
	c.log = nil
	c.queue = nil
	c.cursor = 0
	c.mode = Inactive
	c.strategy = passthrough{}
}

// currentStrategy snapshots the strategy for one I/O call. The transport
// call itself runs outside the controller lock; only log mutation is held
// under it.
func (c *Controller) currentStrategy() ioStrategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strategy
}

// appendEntry records one transport event while capturing. The capture file
// is rewritten after each entry, so an abort or crash never loses an entry
// that a later flush would have carried. A failed write is reported to the
// log but does not interrupt the run; the next successful write carries the
// entry anyway, since every rewrite covers the full sequence.
func (c *Controller) appendEntry(e capture.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Capturing {
		return
	}
	c.log = append(c.log, e)
	monitoring.Debugf("recorded %s for %s (%d bytes)", e.Action, e.DeviceID, len(e.Data))
	if err := c.persistLocked(); err != nil {
		monitoring.Logf("failed to write capture file: %v", err)
	}
}

// consume pops the next expected entry and checks it against the live call.
// The queue is global: a device acting out of recorded turn fails here even
// if its own sub-sequence matches the recording.
func (c *Controller) consume(h *DeviceHandle, action capture.Action) (capture.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Validating {
		return capture.Entry{}, &ModeError{Op: string(action), Mode: c.mode}
	}
	if c.cursor >= len(c.queue) {
		return capture.Entry{}, &ValidationError{
			DeviceID: h.id,
			Reason:   fmt.Sprintf("unexpected %s: no recorded traffic remains", action),
		}
	}

	e := c.queue[c.cursor]
	c.cursor++

	if e.DeviceID != h.id {
		return capture.Entry{}, &ValidationError{
			DeviceID: h.id,
			Reason: fmt.Sprintf("out-of-order traffic: next recorded event is a %s on device %q",
				e.Action, e.DeviceID),
		}
	}
	if e.Action != action {
		return capture.Entry{}, &ValidationError{
			DeviceID: h.id,
			Reason:   fmt.Sprintf("action mismatch: recorded %s, got %s", e.Action, action),
		}
	}
	return e, nil
}
