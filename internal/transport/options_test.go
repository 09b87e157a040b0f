package transport

import (
	"testing"

	"go.bug.st/serial"
)

func TestOptions_NormalizeDefaults(t *testing.T) {
	opts, err := Options{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if opts.BaudRate != 9600 {
		t.Errorf("BaudRate = %d, want 9600", opts.BaudRate)
	}
	if opts.DataBits != 8 {
		t.Errorf("DataBits = %d, want 8", opts.DataBits)
	}
	if opts.StopBits != 1 {
		t.Errorf("StopBits = %d, want 1", opts.StopBits)
	}
	if opts.Parity != "N" {
		t.Errorf("Parity = %q, want N", opts.Parity)
	}
}

func TestOptions_NormalizeParity(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "N", false},
		{"n", "N", false},
		{"none", "N", false},
		{"EVEN", "E", false},
		{"odd", "O", false},
		{" e ", "E", false},
		{"mark", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			opts, err := Options{Parity: tc.in}.Normalize()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) should fail", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", tc.in, err)
			}
			if opts.Parity != tc.want {
				t.Errorf("Parity = %q, want %q", opts.Parity, tc.want)
			}
		})
	}
}

func TestOptions_NormalizeRejectsBadValues(t *testing.T) {
	if _, err := (Options{DataBits: 9}).Normalize(); err == nil {
		t.Error("DataBits 9 should be rejected")
	}
	if _, err := (Options{StopBits: 3}).Normalize(); err == nil {
		t.Error("StopBits 3 should be rejected")
	}
}

func TestOptions_Mode(t *testing.T) {
	mode, err := Options{BaudRate: 115200, StopBits: 2, Parity: "E"}.Mode()
	if err != nil {
		t.Fatalf("Mode failed: %v", err)
	}
	if mode.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", mode.BaudRate)
	}
	if mode.StopBits != serial.TwoStopBits {
		t.Errorf("StopBits = %v, want TwoStopBits", mode.StopBits)
	}
	if mode.Parity != serial.EvenParity {
		t.Errorf("Parity = %v, want EvenParity", mode.Parity)
	}
}
