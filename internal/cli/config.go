package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goRippled/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with every default",
	Long: `Init writes the default configuration as TOML to path (rippled.toml in the
current directory when omitted). An existing file is left untouched.`,
	Args: cobra.MaximumNArgs(1),
	// Loading a config is not needed to write one.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultFileName
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.SaveExampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		source := cfg.GetConfigPath()
		if source == "" {
			source = "defaults"
		}
		fmt.Fprintf(out, "# source: %s\n", source)
		fmt.Fprintf(out, "ledger:   %+v\n", cfg.Ledger)
		fmt.Fprintf(out, "fees:     %+v\n", cfg.Fees)
		fmt.Fprintf(out, "payment:  %+v\n", cfg.Payment)
		fmt.Fprintf(out, "log:      %+v\n", cfg.Log)
		fmt.Fprintf(out, "tx_index: %+v\n", cfg.TxIndex)
		fmt.Fprintf(out, "verify:   %+v\n", cfg.Verify)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
