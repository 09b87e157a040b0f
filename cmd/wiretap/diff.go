package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plateworks/wiretap/internal/align"
	"github.com/plateworks/wiretap/internal/capture"
)

var diffCmd = &cobra.Command{
	Use:   "diff <a.json> <b.json>",
	Short: "Align two capture files and show where their payloads diverge",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := capture.Load(args[0])
	if err != nil {
		return err
	}
	b, err := capture.Load(args[1])
	if err != nil {
		return err
	}

	n := len(a.Commands)
	if len(b.Commands) < n {
		n = len(b.Commands)
	}

	divergences := 0
	for i := 0; i < n; i++ {
		ea, eb := a.Commands[i], b.Commands[i]
		if ea.DeviceID != eb.DeviceID || ea.Action != eb.Action {
			divergences++
			fmt.Printf("entry %d: %s on %q vs %s on %q\n", i, ea.Action, ea.DeviceID, eb.Action, eb.DeviceID)
			continue
		}
		if !bytes.Equal(ea.Data, eb.Data) {
			divergences++
			fmt.Printf("entry %d (%s on %q):\n%s\n", i, ea.Action, ea.DeviceID,
				align.Align(ea.Data, eb.Data).Render())
		}
	}
	if len(a.Commands) != len(b.Commands) {
		divergences++
		fmt.Printf("entry counts differ: %d vs %d\n", len(a.Commands), len(b.Commands))
	}

	if divergences == 0 {
		fmt.Println("captures are identical")
		return nil
	}
	return fmt.Errorf("%d divergences found", divergences)
}
