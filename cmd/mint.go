package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/internal/minter"
	"github.com/subnamehq/subctl/internal/primary"
	"github.com/subnamehq/subctl/internal/registration"
	"github.com/subnamehq/subctl/internal/ui"
)

var mintWallet string

var mintCmd = &cobra.Command{
	Use:   "mint [label]",
	Short: "Mint a subname under the configured parent",
	Long: `Mint a subname under the listing's parent name.

Without arguments an interactive wizard opens: type a label, watch
availability resolve live, mint, then optionally set the new name as your
primary name. With a label argument the same flow runs non-interactively.

Examples:
  subctl mint                 # interactive wizard
  subctl mint alice           # mint alice.<parent> directly
  subctl mint alice --wallet deployer`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		w, err := signingWallet(mintWallet)
		if err != nil {
			return err
		}

		client, net, err := dialEVM()
		if err != nil {
			return err
		}

		listing := currentListing(net)
		signer := newSigner(w)
		oracle := indexer.NewOracle(newIndexerClient(), listing.ParentName)
		executor := minter.New(client, signer, cfg.MintController, chainIDOf(net))
		setter := primary.New(client, signer, chainIDOf(net), net.Testnet)

		if len(args) == 1 {
			warnIfNoSession()
			return mintDirect(listing, w.Address, args[0], oracle, executor, setter)
		}

		// The TUI owns stdin, so signing confirmations would fight with it.
		// The wizard signs without an extra prompt; the ahead-of-time summary
		// is the wizard's own mint screen.
		signer.Confirm = nil
		return ui.RunMintWizard(listing, w.Address, oracle, executor, setter)
	},
}

// mintDirect drives the registration engine without the TUI.
func mintDirect(listing registration.Listing, owner, label string, oracle registration.AvailabilityOracle, executor registration.MintExecutor, setter registration.PrimaryNameSetter) error {
	eng := registration.New(listing, owner, oracle, executor, setter,
		registration.WithDebounce(0))

	eng.UpdateLabel(label)
	if eng.Snapshot().Label != label {
		return fmt.Errorf("invalid label %q", label)
	}

	spin := ui.NewSpinner("Checking availability...")
	spin.Start()
	if err := waitForCheck(eng, 15*time.Second); err != nil {
		spin.Stop()
		return err
	}
	spin.Stop()

	full := eng.FullName()
	if !eng.Snapshot().Availability.Available {
		return fmt.Errorf("%s is not available", full)
	}
	fmt.Println(ui.Success(full + " is available"))

	if !eng.SubmitMint(context.Background()) {
		return fmt.Errorf("mint could not be submitted")
	}
	state := eng.Snapshot()
	if state.MintError != "" {
		return fmt.Errorf("%s", state.MintError)
	}
	if state.Step != registration.StepAwaitingPrimary {
		// Wallet rejection: abort without noise.
		fmt.Println(ui.Meta("Cancelled."))
		return nil
	}
	fmt.Println(ui.Success("Minted " + full))
	fmt.Println(ui.Meta("tx: " + state.TxHash))

	if ui.Confirm("Set " + full + " as your primary name?") {
		spin = ui.NewSpinner("Setting primary name...")
		spin.Start()
		eng.SetPrimaryName(context.Background())
		spin.Stop()
		state = eng.Snapshot()
		if state.Step == registration.StepComplete {
			fmt.Println(ui.Success(state.Notice))
		} else {
			fmt.Println(ui.Warn(state.Notice))
		}
	}
	eng.SkipOrFinish()
	return nil
}

// waitForCheck polls until the availability check resolves.
func waitForCheck(eng *registration.Engine, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for eng.Snapshot().Availability.Checking {
		if time.Now().After(deadline) {
			return fmt.Errorf("availability check timed out")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func init() {
	mintCmd.Flags().StringVar(&mintWallet, "wallet", "", "wallet to mint with (default: configured default wallet)")
}
