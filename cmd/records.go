package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/contract"
	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/internal/records"
	"github.com/subnamehq/subctl/internal/ui"
)

var recordsWallet string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Read and update subname text records",
}

var recordsGetCmd = &cobra.Command{
	Use:   "get <label>",
	Short: "Show the text records of a subname",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		node, err := lookupNode(args[0])
		if err != nil {
			return err
		}

		if len(node.Texts) == 0 {
			fmt.Println(ui.Info("No text records set on " + node.Name + "."))
			fmt.Println(ui.Hint("Set one with: subctl records set " + args[0] + " url=https://example.com"))
			return nil
		}

		var pairs [][2]string
		for _, kt := range records.KnownTexts {
			if v, ok := node.Texts[kt.Key]; ok {
				pairs = append(pairs, [2]string{kt.Label, v})
			}
		}
		for k, v := range node.Texts {
			if !records.IsKnownKey(k) {
				pairs = append(pairs, [2]string{k, v})
			}
		}
		fmt.Println(ui.KeyValueBlock(node.Name, pairs))
		return nil
	},
}

var recordsSetCmd = &cobra.Command{
	Use:   "set <label> <key=value>...",
	Short: "Update text records of a subname",
	Long: `Update one or more text records on a subname's resolver. Unchanged
values are skipped; multiple changes go out as a single multicall.

Examples:
  subctl records set alice url=https://alice.dev
  subctl records set alice com.twitter=alice description="building things"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		if cfg.Resolver == "" {
			return fmt.Errorf("no resolver configured — set one with `subctl config set-resolver <address>`")
		}

		desiredChanges, err := parseKeyValues(args[1:])
		if err != nil {
			return err
		}
		for k := range desiredChanges {
			if !records.IsKnownKey(k) {
				fmt.Println(ui.Warn("Unrecognized record key " + k + " — setting it anyway."))
			}
		}

		node, err := lookupNode(args[0])
		if err != nil {
			return err
		}

		w, err := signingWallet(recordsWallet)
		if err != nil {
			return err
		}
		if !strings.EqualFold(w.Address, node.Owner) {
			fmt.Println(ui.Warn("Wallet " + w.Name + " does not own " + node.Name + " — the transaction will likely revert."))
		}

		client, net, err := dialEVM()
		if err != nil {
			return err
		}

		desired := make(map[string]string, len(node.Texts)+len(desiredChanges))
		for k, v := range node.Texts {
			desired[k] = v
		}
		for k, v := range desiredChanges {
			desired[k] = v
		}

		warnIfNoSession()
		sender := contract.NewSender(client, newSigner(w), chainIDOf(net))
		updater := records.NewUpdater(client, sender, cfg.Resolver)

		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Minute)
		defer cancel()

		spin := ui.NewSpinner("Updating records...")
		spin.Start()
		hash, err := updater.Update(ctx, node.Name, node.Texts, desired)
		spin.Stop()
		if err != nil {
			return err
		}
		if hash == "" {
			fmt.Println(ui.Info("Nothing to update — all records already match."))
			return nil
		}
		fmt.Println(ui.Success("Records updated on " + node.Name))
		fmt.Println(ui.Meta("tx: " + hash))
		return nil
	},
}

// lookupNode fetches a single subname from the indexer by label.
func lookupNode(label string) (*indexer.Node, error) {
	full := label + "." + cfg.ParentName

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	items, _, err := newIndexerClient().Nodes(ctx, indexer.NodeQuery{Name: full, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("querying indexer: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s has not been minted", full)
	}
	return &items[0], nil
}

// parseKeyValues parses key=value arguments.
func parseKeyValues(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[k] = v
	}
	return out, nil
}

func init() {
	recordsSetCmd.Flags().StringVar(&recordsWallet, "wallet", "", "wallet that owns the subname")
	recordsCmd.AddCommand(recordsGetCmd, recordsSetCmd)
}
