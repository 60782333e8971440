package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/ens"
	"github.com/subnamehq/subctl/internal/ui"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name-or-address>",
	Short: "Resolve an ENS name to an address, or the reverse",
	Long: `Resolve an ENS name to an address or perform a reverse lookup.

Auto-detects direction: input starting with 0x does a reverse lookup,
anything else resolves forward. Resolution runs on the active network's
ENS registry (Sepolia when --testnet is in effect).

Examples:
  subctl resolve alice.noun.eth
  subctl resolve 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]

		client, _, err := dialEVM()
		if err != nil {
			return err
		}

		if strings.HasPrefix(strings.ToLower(input), "0x") {
			spin := ui.NewSpinner("Looking up reverse record...")
			spin.Start()
			name, err := ens.ReverseLookup(input, client)
			spin.Stop()
			if err != nil {
				return fmt.Errorf("reverse lookup: %w", err)
			}
			if name == "" {
				fmt.Println(ui.Info("No primary name set for " + ui.TruncateAddr(input) + "."))
				return nil
			}
			fmt.Printf("%s %s %s\n", ui.Addr(ui.TruncateAddr(input)), ui.Meta("→"), ui.Val(name))
			return nil
		}

		spin := ui.NewSpinner("Resolving " + input + "...")
		spin.Start()
		addr, err := ens.Resolve(input, client)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("resolving %s: %w", input, err)
		}
		if addr == "" {
			fmt.Println(ui.Info(input + " does not resolve to an address."))
			return nil
		}
		fmt.Printf("%s %s %s\n", ui.Val(input), ui.Meta("→"), ui.Addr(addr))
		return nil
	},
}
