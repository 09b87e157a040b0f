package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("capture started: %s", "x")
	if got != "capture started: %s" {
		t.Errorf("custom logger not invoked, got %q", got)
	}

	// nil installs a no-op sink rather than a nil function.
	called := false
	SetLogger(nil)
	Logf("dropped")
	SetLogger(func(string, ...interface{}) { called = true })
	Logf("kept")
	if !called {
		t.Error("replacement logger after nil was not invoked")
	}
}

func TestSetDebugLogger(t *testing.T) {
	original := Debugf
	defer func() { Debugf = original }()

	// Debug chatter is dropped until a sink is wired.
	Debugf("dropped")

	var got string
	SetDebugLogger(func(format string, v ...interface{}) { got = format })
	Debugf("recorded %s", "write")
	if got != "recorded %s" {
		t.Errorf("debug sink not invoked, got %q", got)
	}

	SetDebugLogger(nil)
	got = ""
	Debugf("muted again")
	if got != "" {
		t.Error("nil should mute the debug sink")
	}
}

func TestDefaultSinks(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf must have a default sink")
	}
	if Debugf == nil {
		t.Fatal("Debugf must have a default sink")
	}
}
