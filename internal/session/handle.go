package session

import (
	"time"

	"github.com/plateworks/wiretap/internal/transport"
)

// DeviceHandle is the per-device entry point protocol code writes and reads
// through. Behaviour follows the controller's current mode; the call shape
// never changes, so callers are agnostic to capture, replay or plain
// pass-through.
type DeviceHandle struct {
	ctrl   *Controller
	module string
	id     string
	port   transport.Port
}

// Device issues a handle for one logical device. The module tag labels the
// transport kind ("serial", "usb"); id must be stable across capture and
// replay since it is the key entries are matched on.
func (c *Controller) Device(module, id string, port transport.Port) *DeviceHandle {
	return &DeviceHandle{ctrl: c, module: module, id: id, port: port}
}

// DeviceID returns the handle's stable device identity.
func (h *DeviceHandle) DeviceID() string { return h.id }

// Write sends data to the device, or checks it against the recording when
// validating.
func (h *DeviceHandle) Write(data []byte, timeout time.Duration) (int, error) {
	return h.ctrl.currentStrategy().write(h, data, timeout)
}

// Read returns the device's next chunk of data, or the recorded response
// when validating. A nil slice with nil error means no data arrived before
// the timeout.
func (h *DeviceHandle) Read(timeout time.Duration) ([]byte, error) {
	return h.ctrl.currentStrategy().read(h, timeout)
}
