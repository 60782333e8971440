package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/subnamehq/subctl/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	testnet bool
	mainnet bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "subctl",
	Short: "Mint and manage ENS subnames from the terminal",
	Long: `subctl — terminal tool for ENS subname listings.

  Mint subnames under a configured parent name, set your primary name,
  manage text records and browse everything minted under the listing.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. Without either flag the persisted mode is used.
Run 'subctl init' for first-time setup.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.Testnet = true
		}
		if mainnet {
			cfg.Testnet = false
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// SUBCTL_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("SUBCTL_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.subctl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use the testnet variant of the listing network")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet even when the config says testnet")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		mintCmd,
		checkCmd,
		listCmd,
		recordsCmd,
		primaryCmd,
		statsCmd,
		resolveCmd,
		networkCmd,
		walletCmd,
		rpcCmd,
		configCmd,
	)
}
