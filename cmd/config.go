package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetParentCmd = &cobra.Command{
	Use:   "set-parent <name>",
	Short: "Set the parent name subnames are minted under",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.ParentName = strings.ToLower(args[0])
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Parent name set to %q", cfg.ParentName)))
		return nil
	},
}

var configSetControllerCmd = &cobra.Command{
	Use:   "set-controller <address>",
	Short: "Set the mint controller contract address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.MintController = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Mint controller set to " + ui.Addr(args[0])))
		return nil
	},
}

var configSetResolverCmd = &cobra.Command{
	Use:   "set-resolver <address>",
	Short: "Set the subname resolver contract address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Resolver = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Resolver set to " + ui.Addr(args[0])))
		return nil
	},
}

var configSetIndexerCmd = &cobra.Command{
	Use:   "set-indexer <url>",
	Short: "Set the indexer API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.IndexerURL = strings.TrimRight(args[0], "/")
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Indexer URL set to " + cfg.IndexerURL))
		return nil
	},
}

var configSetRentalCmd = &cobra.Command{
	Use:   "set-rental <true|false>",
	Short: "Mark the listing as rental (time-limited) or permanent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "true":
			cfg.Rental = true
		case "false":
			cfg.Rental = false
		default:
			return fmt.Errorf("expected true or false, got %q", args[0])
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Rental mode set to %v", cfg.Rental)))
		return nil
	},
}

var configSetAvatarCmd = &cobra.Command{
	Use:   "set-avatar <uri>",
	Short: "Set the default avatar record attached at mint time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DefaultAvatarURI = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default avatar set."))
		return nil
	},
}

var configSetDefaultWalletCmd = &cobra.Command{
	Use:   "set-default-wallet <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q", args[0])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configListCmd,
		configSetParentCmd,
		configSetControllerCmd,
		configSetResolverCmd,
		configSetIndexerCmd,
		configSetRentalCmd,
		configSetAvatarCmd,
		configSetDefaultWalletCmd,
	)
}
