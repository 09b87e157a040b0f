package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/plateworks/wiretap/internal/capture"
	"github.com/plateworks/wiretap/internal/capturedb"
	"github.com/plateworks/wiretap/internal/session"
	"github.com/plateworks/wiretap/internal/transport"

	"go.uber.org/zap"
)

var (
	recordBaud     int
	recordModule   string
	recordDeviceID string
	recordTimeout  time.Duration
	recordSend     []string
	recordNote     string
	recordHex      bool
)

var recordCmd = &cobra.Command{
	Use:   "record <port> <out.json>",
	Short: "Record a command exchange with a real device into a capture file",
	Long: `Opens the serial port, sends each --send command followed by a read, and
records the full write/read sequence into a versioned capture file. The
completed capture is registered in the catalog.`,
	Args: cobra.ExactArgs(2),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().IntVar(&recordBaud, "baud", 0, "baud rate (default from config)")
	recordCmd.Flags().StringVar(&recordModule, "module", "serial", "transport-kind label stored with each entry")
	recordCmd.Flags().StringVar(&recordDeviceID, "device-id", "", "stable device identity (default: port path)")
	recordCmd.Flags().DurationVar(&recordTimeout, "timeout", 2*time.Second, "per-operation transport timeout")
	recordCmd.Flags().StringArrayVar(&recordSend, "send", nil, "command to send (repeatable; a newline is appended)")
	recordCmd.Flags().StringVar(&recordNote, "note", "", "free-form note stored in the catalog")
	recordCmd.Flags().BoolVar(&recordHex, "hex", false, "store payloads hex-encoded (for binary protocols)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	portPath, outPath := args[0], args[1]
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(cfg.Dir(), outPath)
	}

	opts := cfg.PortOptions()
	if recordBaud > 0 {
		opts.BaudRate = recordBaud
	}
	port, err := transport.Open(portPath, opts)
	if err != nil {
		return err
	}
	defer port.Close()

	deviceID := recordDeviceID
	if deviceID == "" {
		deviceID = portPath
	}

	encoding := capture.EncodingText
	if recordHex {
		encoding = capture.EncodingHex
	}
	ctrl := session.NewController(session.WithEncoding(encoding))

	// An interrupt mid-run aborts the session; entries recorded so far stay
	// in the capture file, and the port is left usable for a clean close.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	defer signal.Stop(sigCh)
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			ctrl.Abort()
		case <-done:
		}
	}()

	if err := ctrl.StartCapture(outPath); err != nil {
		return err
	}

	h := ctrl.Device(recordModule, deviceID, port)
	for _, send := range recordSend {
		data := []byte(send)
		if !strings.HasSuffix(send, "\n") {
			data = append(data, '\n')
		}
		if _, err := h.Write(data, recordTimeout); err != nil {
			ctrl.Abort()
			return fmt.Errorf("write %q failed: %w", send, err)
		}
		resp, err := h.Read(recordTimeout)
		if err != nil {
			ctrl.Abort()
			return fmt.Errorf("read after %q failed: %w", send, err)
		}
		if resp == nil {
			logger.Warn("no response before timeout", zap.String("command", send))
		}
	}

	if err := ctrl.StopCapture(); err != nil {
		return err
	}
	fmt.Printf("recorded %d commands to %s\n", len(recordSend), outPath)

	return registerCapture(outPath, recordNote)
}

// registerCapture adds a completed capture file to the catalog.
func registerCapture(path, note string) error {
	f, err := capture.Load(path)
	if err != nil {
		return err
	}
	db, err := capturedb.Open(catalogPath)
	if err != nil {
		return err
	}
	defer db.Close()

	rec := capturedb.NewRecord(path, f, note)
	if err := db.Register(rec); err != nil {
		return err
	}
	logger.Info("capture catalogued",
		zap.String("id", rec.ID),
		zap.String("path", rec.Path),
		zap.Int("entries", rec.Entries),
	)
	return nil
}
