package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Display", Width: 18},
			{Title: "Chain ID", Width: 10},
			{Title: "Type", Width: 8},
			{Title: "Explorer", Width: 32},
		})

		nets := chain.Networks()
		for _, n := range nets {
			kind := "mainnet"
			if n.Testnet {
				kind = "testnet"
			}
			t.AddRow(ui.Row{
				ui.ChainName(n.Name),
				n.DisplayName,
				fmt.Sprintf("%d", n.ChainID),
				ui.Meta(kind),
				n.Explorer,
			})
		}

		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d networks total", len(nets))))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the listing network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := chain.NetworkByName(args[0])
		if err != nil {
			return fmt.Errorf("unknown network %q — run `subctl network list`", args[0])
		}
		cfg.Network = n.Name
		cfg.Testnet = n.Testnet
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Listing network set to " + n.DisplayName))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
