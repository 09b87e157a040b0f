package capture

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip_Text(t *testing.T) {
	f := New(EncodingText)
	f.Append(Entry{Module: "serial", DeviceID: "dev-a", Action: ActionWrite, Data: []byte("PING\n")})
	f.Append(Entry{Module: "serial", DeviceID: "dev-a", Action: ActionRead, Data: []byte("PONG\r\n")})
	// Arbitrary bytes survive the text encoding too.
	f.Append(Entry{Module: "usb", DeviceID: "dev-b", Action: ActionWrite, Data: []byte{0x00, 0x1b, 0x80, 0xff}})

	path := filepath.Join(t.TempDir(), "capture.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(f.Commands, loaded.Commands); diff != "" {
		t.Errorf("entries changed across round trip (-want +got):\n%s", diff)
	}
	if loaded.Version != SchemaVersion {
		t.Errorf("Version = %q, want %q", loaded.Version, SchemaVersion)
	}
	if loaded.Encoding != EncodingText {
		t.Errorf("Encoding = %q, want %q", loaded.Encoding, EncodingText)
	}
}

func TestRoundTrip_Hex(t *testing.T) {
	f := New(EncodingHex)
	f.Append(Entry{Module: "usb", DeviceID: "dev-a", Action: ActionWrite, Data: []byte{0xde, 0xad, 0xbe, 0xef}})
	f.Append(Entry{Module: "usb", DeviceID: "dev-a", Action: ActionRead, Data: nil})

	path := filepath.Join(t.TempDir(), "capture.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(f.Commands, loaded.Commands, cmp.Comparer(bytesEqual)); diff != "" {
		t.Errorf("entries changed across round trip (-want +got):\n%s", diff)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMarshal_Stable(t *testing.T) {
	f := New(EncodingText)
	f.Append(Entry{Module: "serial", DeviceID: "dev-a", Action: ActionWrite, Data: []byte("V?")})

	first, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Marshal output is not stable across calls")
	}
}

// Saving, loading and re-serializing a capture reproduces the original
// bytes exactly.
func TestSaveLoadMarshal_ByteIdentical(t *testing.T) {
	f := New(EncodingText)
	f.Append(Entry{Module: "serial", DeviceID: "dev-a", Action: ActionWrite, Data: []byte("PING\n")})
	f.Append(Entry{Module: "serial", DeviceID: "dev-a", Action: ActionRead, Data: []byte("PONG\n")})
	f.Append(Entry{Module: "serial", DeviceID: "dev-b", Action: ActionRead, Data: nil})

	want, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "capture.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(raw, want) {
		t.Errorf("file on disk differs from Marshal output:\n%s\nwant:\n%s", raw, want)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := loaded.Marshal()
	if err != nil {
		t.Fatalf("Marshal of loaded file failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("re-serialized capture differs from original:\n%s\nwant:\n%s", got, want)
	}
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	path := writeRaw(t, `{"version": "99", "encoding": "text", "commands": []}`)

	_, err := Load(path)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
	if !strings.Contains(ferr.Reason, "version") {
		t.Errorf("error should name the version problem, got %q", ferr.Reason)
	}
}

func TestLoad_UnknownEncoding(t *testing.T) {
	path := writeRaw(t, `{"version": "1", "encoding": "base85", "commands": []}`)

	var ferr *FormatError
	if _, err := Load(path); !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
}

func TestLoad_UnknownAction(t *testing.T) {
	path := writeRaw(t, `{"version": "1", "encoding": "text", "commands": [
		{"module": "serial", "device_id": "a", "action": "poke", "data": ""}]}`)

	var ferr *FormatError
	if _, err := Load(path); !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeRaw(t, `{"version": "1",`)

	var ferr *FormatError
	if _, err := Load(path); !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
}

func TestLoad_BadHexPayload(t *testing.T) {
	path := writeRaw(t, `{"version": "1", "encoding": "hex", "commands": [
		{"module": "usb", "device_id": "a", "action": "write", "data": "zz"}]}`)

	var ferr *FormatError
	if _, err := Load(path); !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
}

func TestLoad_DefaultsToTextEncoding(t *testing.T) {
	path := writeRaw(t, `{"version": "1", "commands": [
		{"module": "serial", "device_id": "a", "action": "write", "data": "hi"}]}`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Encoding != EncodingText {
		t.Errorf("Encoding = %q, want default %q", f.Encoding, EncodingText)
	}
	if string(f.Commands[0].Data) != "hi" {
		t.Errorf("Data = %q, want %q", f.Commands[0].Data, "hi")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var ferr *FormatError
	if errors.As(err, &ferr) {
		t.Error("missing file should be an I/O error, not a *FormatError")
	}
}

func writeRaw(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
