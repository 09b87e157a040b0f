package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plateworks/wiretap/internal/capturedb"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the capture catalog database",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued captures, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := capturedb.Open(catalogPath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("catalog is empty")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %s  %4d entries  %d devices  %s  %s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Entries, r.Devices, r.Path, r.Note)
		}
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <capture.json>",
	Short: "Register an existing capture file in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return registerCapture(args[0], note)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one catalogued capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := capturedb.Open(catalogPath)
		if err != nil {
			return err
		}
		defer db.Close()

		r, err := db.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("id:       %s\n", r.ID)
		fmt.Printf("path:     %s\n", r.Path)
		fmt.Printf("version:  %s\n", r.Version)
		fmt.Printf("encoding: %s\n", r.Encoding)
		fmt.Printf("entries:  %d\n", r.Entries)
		fmt.Printf("devices:  %d\n", r.Devices)
		fmt.Printf("created:  %s\n", r.CreatedAt.Format(time.RFC3339))
		if r.Note != "" {
			fmt.Printf("note:     %s\n", r.Note)
		}
		return nil
	},
}

var catalogMigrateCmd = &cobra.Command{
	Use:       "migrate <up|down|status>",
	Short:     "Manage the catalog schema",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := capturedb.Open(catalogPath)
		if err != nil {
			return err
		}
		defer db.Close()

		switch args[0] {
		case "up":
			return db.MigrateUp()
		case "down":
			return db.MigrateDown()
		case "status":
			version, dirty, err := db.MigrateVersion()
			if err != nil {
				return err
			}
			fmt.Printf("schema version %d (dirty=%v)\n", version, dirty)
			return nil
		default:
			return fmt.Errorf("unknown migrate action %q", args[0])
		}
	},
}

func init() {
	catalogAddCmd.Flags().String("note", "", "free-form note stored with the capture")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogMigrateCmd)
}
