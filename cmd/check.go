package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/internal/minter"
	"github.com/subnamehq/subctl/internal/price"
	"github.com/subnamehq/subctl/internal/registration"
	"github.com/subnamehq/subctl/internal/ui"
)

var checkYears int

var checkCmd = &cobra.Command{
	Use:   "check <label>",
	Short: "Check whether a subname is available and what it costs",
	Long: `Check a label's availability under the configured parent name and,
for rental listings, the mint fee for the requested duration.

Examples:
  subctl check alice
  subctl check alice --years 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		label := args[0]
		full := label + "." + cfg.ParentName

		oracle := indexer.NewOracle(newIndexerClient(), cfg.ParentName)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		spin := ui.NewSpinner("Checking availability...")
		spin.Start()
		available, err := oracle.CheckAvailable(ctx, label)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("checking availability: %w", err)
		}

		if !available {
			fmt.Println(ui.Err(full + " is not available"))
			return nil
		}
		fmt.Println(ui.Success(full + " is available"))

		// Mint fee: best effort, a free listing or an unreachable RPC just
		// skips the fee line.
		printMintFee(label)
		return nil
	},
}

func printMintFee(label string) {
	if cfg.MintController == "" {
		return
	}
	client, net, err := dialEVM()
	if err != nil {
		return
	}

	executor := minter.New(client, nil, cfg.MintController, chainIDOf(net))
	params, err := executor.BuildParameters(context.Background(), registration.MintRequest{
		Label:       label,
		ParentName:  cfg.ParentName,
		Owner:       "0x0000000000000000000000000000000000000000",
		ExpiryYears: checkYears,
	})
	if err != nil || params.Value == nil || params.Value.Sign() == 0 {
		fmt.Println(ui.Meta("Mint fee: free"))
		return
	}

	line := "Mint fee: " + chain.WeiToETH(params.Value) + " ETH"
	if usd, err := price.NewFetcher("usd").GetPrice(net.Name); err == nil {
		eth, _ := new(big.Float).Quo(
			new(big.Float).SetInt(params.Value),
			big.NewFloat(1e18),
		).Float64()
		line += fmt.Sprintf(" (~$%.2f)", eth*usd)
	}
	fmt.Println(ui.Val(line))
}

func init() {
	checkCmd.Flags().IntVar(&checkYears, "years", 1, "rental duration in years (rental listings only)")
}
