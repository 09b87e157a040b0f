// Package testutil provides shared test helpers and capture fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/plateworks/wiretap/internal/capture"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteEntry builds a write entry for the given device.
func WriteEntry(device, data string) capture.Entry {
	return capture.Entry{Module: "serial", DeviceID: device, Action: capture.ActionWrite, Data: []byte(data)}
}

// ReadEntry builds a read entry for the given device.
func ReadEntry(device, data string) capture.Entry {
	return capture.Entry{Module: "serial", DeviceID: device, Action: capture.ActionRead, Data: []byte(data)}
}

// SaveCapture writes a text-encoded capture file containing entries into a
// temp directory and returns its path.
func SaveCapture(t *testing.T, entries ...capture.Entry) string {
	t.Helper()
	f := capture.New(capture.EncodingText)
	f.Commands = entries
	path := filepath.Join(t.TempDir(), "capture.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("failed to save capture fixture: %v", err)
	}
	return path
}
