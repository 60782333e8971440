package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/ens"
	"github.com/subnamehq/subctl/internal/primary"
	"github.com/subnamehq/subctl/internal/ui"
)

var primaryWallet string

var primaryCmd = &cobra.Command{
	Use:   "primary",
	Short: "Manage your primary (reverse) name",
}

var primarySetCmd = &cobra.Command{
	Use:   "set <label>",
	Short: "Set a subname as your wallet's primary name",
	Long: `Point your wallet's reverse record at label.<parent> by calling the
reverse registrar. Waits for two confirmations before reporting success.

Example:
  subctl primary set alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		full := args[0] + "." + cfg.ParentName

		w, err := signingWallet(primaryWallet)
		if err != nil {
			return err
		}

		client, net, err := dialEVM()
		if err != nil {
			return err
		}

		warnIfNoSession()
		setter := primary.New(client, newSigner(w), chainIDOf(net), net.Testnet)

		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Minute)
		defer cancel()

		spin := ui.NewSpinner("Setting primary name...")
		spin.Start()
		hash, err := setter.SetPrimaryName(ctx, full)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("setting primary name: %w", err)
		}

		fmt.Println(ui.Success("Primary name set to " + full))
		fmt.Println(ui.Meta("tx: " + hash))
		return nil
	},
}

var primaryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current primary name of a wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := activeWallet(primaryWallet)
		if err != nil {
			return err
		}

		client, _, err := dialEVM()
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Looking up reverse record...")
		spin.Start()
		name, err := ens.ReverseLookup(w.Address, client)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("reverse lookup: %w", err)
		}

		if name == "" {
			fmt.Println(ui.Info("No primary name set for " + ui.TruncateAddr(w.Address) + "."))
			fmt.Println(ui.Hint("Set one with: subctl primary set <label>"))
			return nil
		}
		fmt.Printf("%s %s %s\n", ui.Addr(ui.TruncateAddr(w.Address)), ui.Meta("→"), ui.Val(name))
		return nil
	},
}

func init() {
	primarySetCmd.Flags().StringVar(&primaryWallet, "wallet", "", "wallet to set the primary name for")
	primaryShowCmd.Flags().StringVar(&primaryWallet, "wallet", "", "wallet to look up")
	primaryCmd.AddCommand(primarySetCmd, primaryShowCmd)
}
