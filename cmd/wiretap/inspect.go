package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/plateworks/wiretap/internal/capture"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <capture.json>",
	Short: "Summarize a capture file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := capture.Load(path)
	if err != nil {
		return err
	}

	type deviceStats struct {
		writes, reads int
		bytes         int
	}
	stats := make(map[string]*deviceStats)
	for _, e := range f.Commands {
		s, ok := stats[e.DeviceID]
		if !ok {
			s = &deviceStats{}
			stats[e.DeviceID] = s
		}
		if e.Action == capture.ActionWrite {
			s.writes++
		} else {
			s.reads++
		}
		s.bytes += len(e.Data)
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  version:  %s\n", f.Version)
	fmt.Printf("  encoding: %s\n", f.Encoding)
	fmt.Printf("  entries:  %d\n", len(f.Commands))

	devices := make([]string, 0, len(stats))
	for id := range stats {
		devices = append(devices, id)
	}
	sort.Strings(devices)
	for _, id := range devices {
		s := stats[id]
		fmt.Printf("  device %q: %d writes, %d reads, %d bytes\n", id, s.writes, s.reads, s.bytes)
	}
	return nil
}
