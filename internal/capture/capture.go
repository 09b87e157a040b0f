// Package capture defines the capture log entry model and the versioned file
// format used to persist recorded device traffic. A capture file is an
// ordered list of write/read events across all logical devices; the order in
// the file is the order the bus saw, and is the contract replay enforces.
package capture

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SchemaVersion is the capture file format version written by this code. A
// loader refuses any other version rather than guessing at compatibility.
const SchemaVersion = "1"

// Payload encodings declared in the capture file. Text stores each byte as
// the rune of equal value, a lossless byte-to-text mapping that keeps
// ASCII-safe wire protocols human-diffable while tolerating arbitrary bytes.
// Hex stores the payload hex-encoded for genuinely binary protocols.
const (
	EncodingText = "text"
	EncodingHex  = "hex"
)

// Action is the kind of transport event an entry records.
type Action string

const (
	ActionWrite Action = "write"
	ActionRead  Action = "read"
)

// Entry is one recorded transport event. Entries are immutable once
// recorded.
type Entry struct {
	// Module is a free-form transport-kind label, e.g. "serial" or "usb".
	Module string
	// DeviceID distinguishes logical devices sharing one capture file.
	DeviceID string
	Action   Action
	// Data is the raw payload written to or read from the device. Empty for
	// a read that timed out with no data.
	Data []byte
}

// File is a parsed capture file: a format version, a payload encoding, and
// the globally ordered event sequence.
type File struct {
	Version  string
	Encoding string
	Commands []Entry
}

// FormatError reports a malformed or version-incompatible capture file.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("capture file %s: %s", e.Path, e.Reason)
}

// Wire representation. Data is a string whose interpretation depends on the
// file-level encoding field.
type fileJSON struct {
	Version  string      `json:"version"`
	Encoding string      `json:"encoding"`
	Commands []entryJSON `json:"commands"`
}

type entryJSON struct {
	Module   string `json:"module"`
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
	Data     string `json:"data"`
}

// New returns an empty File using the current schema version and the given
// payload encoding.
func New(encoding string) *File {
	return &File{Version: SchemaVersion, Encoding: encoding}
}

// Append adds an entry to the end of the file's event sequence.
func (f *File) Append(e Entry) {
	f.Commands = append(f.Commands, e)
}

// Marshal serializes the file to its JSON wire form.
func (f *File) Marshal() ([]byte, error) {
	out := fileJSON{
		Version:  f.Version,
		Encoding: f.Encoding,
		Commands: make([]entryJSON, 0, len(f.Commands)),
	}
	for _, e := range f.Commands {
		data, err := encodeData(e.Data, f.Encoding)
		if err != nil {
			return nil, err
		}
		out.Commands = append(out.Commands, entryJSON{
			Module:   e.Module,
			DeviceID: e.DeviceID,
			Action:   string(e.Action),
			Data:     data,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// Save writes the file to path. The write goes through a temporary file in
// the same directory followed by a rename, so an interrupted save never
// leaves a partially written capture behind.
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize capture: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".capture-*")
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write capture file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush capture file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize capture file: %w", err)
	}
	return nil
}

// Load reads and validates a capture file. Any structural problem, unknown
// version, unknown encoding, or undecodable payload is reported as a
// *FormatError; nothing is partially interpreted.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in fileJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if in.Version != SchemaVersion {
		return nil, &FormatError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported schema version %q (want %q)", in.Version, SchemaVersion),
		}
	}
	encoding := in.Encoding
	if encoding == "" {
		encoding = EncodingText
	}
	if encoding != EncodingText && encoding != EncodingHex {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unknown payload encoding %q", encoding)}
	}

	f := &File{Version: in.Version, Encoding: encoding, Commands: make([]Entry, 0, len(in.Commands))}
	for i, e := range in.Commands {
		action := Action(e.Action)
		if action != ActionWrite && action != ActionRead {
			return nil, &FormatError{Path: path, Reason: fmt.Sprintf("entry %d: unknown action %q", i, e.Action)}
		}
		data, err := decodeData(e.Data, encoding)
		if err != nil {
			return nil, &FormatError{Path: path, Reason: fmt.Sprintf("entry %d: %v", i, err)}
		}
		f.Commands = append(f.Commands, Entry{
			Module:   e.Module,
			DeviceID: e.DeviceID,
			Action:   action,
			Data:     data,
		})
	}
	return f, nil
}

// encodeData maps raw payload bytes to the string stored in the file.
func encodeData(data []byte, encoding string) (string, error) {
	switch encoding {
	case EncodingText:
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		return string(runes), nil
	case EncodingHex:
		return hex.EncodeToString(data), nil
	default:
		return "", fmt.Errorf("unknown payload encoding %q", encoding)
	}
}

// decodeData is the inverse of encodeData.
func decodeData(s string, encoding string) ([]byte, error) {
	switch encoding {
	case EncodingText:
		data := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0xff {
				return nil, fmt.Errorf("rune %q outside byte range in text-encoded payload", r)
			}
			data = append(data, byte(r))
		}
		return data, nil
	case EncodingHex:
		data, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex payload: %v", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown payload encoding %q", encoding)
	}
}
