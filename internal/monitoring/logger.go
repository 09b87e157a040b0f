// Package monitoring holds the package-level diagnostic sinks shared by the
// capture/validate layer. Two levels exist: Logf for session lifecycle
// events and failures, Debugf for per-entry traffic chatter.
package monitoring

import "log"

// Logf records session-level events. Defaults to log.Printf; the CLI
// replaces it with a structured sink via SetLogger, and tests can mute it
// the same way.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf records per-entry detail while capturing or validating. Muted by
// default; wire it up via SetDebugLogger when the chatter is wanted.
var Debugf func(format string, v ...interface{}) = discard

func discard(string, ...interface{}) {}

// SetLogger replaces the session-level sink. Passing nil installs a no-op
// sink.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = discard
	}
	Logf = f
}

// SetDebugLogger replaces the per-entry sink. Passing nil mutes it.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = discard
	}
	Debugf = f
}
