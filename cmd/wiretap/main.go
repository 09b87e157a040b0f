// wiretap records serial device traffic into versioned capture files and
// replays protocol runs against them without hardware present.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/plateworks/wiretap/internal/config"
	"github.com/plateworks/wiretap/internal/monitoring"
)

const defaultCatalogPath = "wiretap_catalog.db"

var (
	// Global flags
	configPath  string
	catalogPath string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wiretap",
	Short: "Capture and replay serial device traffic",
	Long: `wiretap sits between protocol code and the serial transport. It records
every byte written to and read from a device during a real run into a
versioned capture file, and can later replay a run against that file,
asserting bit-for-bit equivalence with no hardware attached.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.Verbose != nil && *cfg.Verbose {
			verbose = true
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		// Route library diagnostics through zap.
		sugar := logger.Sugar()
		monitoring.SetLogger(sugar.Infof)
		monitoring.SetDebugLogger(sugar.Debugf)

		if catalogPath == "" {
			catalogPath = cfg.Catalog(defaultCatalogPath)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "wiretap.json", "config file path")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "db", "", "capture catalog database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(catalogCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
