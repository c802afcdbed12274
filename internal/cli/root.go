package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goRippled/internal/config"
	"github.com/LeJamon/goRippled/internal/log"
)

var (
	// Global flags
	configFile string
	debugLog   bool
	verbose    bool
	quiet      bool

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rippled",
	Short: "goRippled - ripple settlement core in Go",
	Long: `goRippled applies ripple transactions (payments, trust lines, offers and
account maintenance) to a ledger held in a local node store.

Ledgers are seeded from JSON fixtures; transactions are applied one at a time
and their results can be recorded to a SQL transaction index.`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

// initConfig reads the config file and environment and sets up logging.
func initConfig(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	cfg = c

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	switch {
	case verbose:
		level = uint32(logrus.TraceLevel)
	case debugLog:
		level = uint32(logrus.DebugLevel)
	case quiet:
		level = uint32(logrus.WarnLevel)
	}
	log.SetLogger(level, cfg.Log.Format == "json", cfg.Log.Color)

	if cfg.Log.File != "" {
		return log.SetLogFile(cfg.Log.File, cfg.Log.MaxAge, cfg.Log.RotationTime)
	}
	// Command output goes to stdout; keep logs off it.
	log.SetOutput(os.Stderr)
	return nil
}
