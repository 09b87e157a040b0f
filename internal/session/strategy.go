package session

import (
	"bytes"
	"time"

	"github.com/plateworks/wiretap/internal/align"
	"github.com/plateworks/wiretap/internal/capture"
)

// ioStrategy is the per-mode behaviour behind a device handle. One variant
// is selected at each session transition rather than branching on mode at
// every call.
type ioStrategy interface {
	write(h *DeviceHandle, data []byte, timeout time.Duration) (int, error)
	read(h *DeviceHandle, timeout time.Duration) ([]byte, error)
}

// passthrough forwards straight to the real transport with no accounting.
type passthrough struct{}

func (passthrough) write(h *DeviceHandle, data []byte, timeout time.Duration) (int, error) {
	return h.port.Write(data, timeout)
}

func (passthrough) read(h *DeviceHandle, timeout time.Duration) ([]byte, error) {
	return h.port.Read(timeout)
}

// recorder appends every event to the session log and otherwise behaves
// exactly like passthrough, so recording never alters transport traffic.
type recorder struct {
	c *Controller
}

func (r recorder) write(h *DeviceHandle, data []byte, timeout time.Duration) (int, error) {
	// The entry is appended before the transport call and regardless of its
	// outcome: a faithful capture includes the writes that failed.
	r.c.appendEntry(capture.Entry{
		Module:   h.module,
		DeviceID: h.id,
		Action:   capture.ActionWrite,
		Data:     append([]byte(nil), data...),
	})
	return h.port.Write(data, timeout)
}

func (r recorder) read(h *DeviceHandle, timeout time.Duration) ([]byte, error) {
	data, err := h.port.Read(timeout)
	// A timeout read records as an entry with empty data, so replay
	// reproduces the silence too.
	r.c.appendEntry(capture.Entry{
		Module:   h.module,
		DeviceID: h.id,
		Action:   capture.ActionRead,
		Data:     append([]byte(nil), data...),
	})
	return data, err
}

// validator answers every call from the loaded capture queue and never
// touches the transport.
type validator struct {
	c *Controller
}

func (v validator) write(h *DeviceHandle, data []byte, timeout time.Duration) (int, error) {
	e, err := v.c.consume(h, capture.ActionWrite)
	if err != nil {
		return 0, err
	}
	if !bytes.Equal(e.Data, data) {
		return 0, &ValidationError{
			DeviceID: h.id,
			Reason:   "write payload differs from recording",
			Diff:     align.Align(e.Data, data).Render(),
		}
	}
	return len(data), nil
}

func (v validator) read(h *DeviceHandle, timeout time.Duration) ([]byte, error) {
	e, err := v.c.consume(h, capture.ActionRead)
	if err != nil {
		return nil, err
	}
	if len(e.Data) == 0 {
		// The recorded read saw no data before its timeout; replay the
		// silence rather than inventing an empty payload.
		return nil, nil
	}
	return append([]byte(nil), e.Data...), nil
}
