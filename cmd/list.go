package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/internal/ui"
)

var (
	listWallet string
	listPlain  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List subnames you own under the configured parent",
	Long: `List the subnames a wallet owns under the listing's parent name.

By default an interactive table opens (o: open in browser, c: copy name).
Use --plain for non-interactive output suitable for scripts.

Examples:
  subctl list
  subctl list --wallet alice --plain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		w, err := activeWallet(listWallet)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		spin := ui.NewSpinner("Fetching subnames...")
		spin.Start()
		nodes, err := newIndexerClient().OwnedSubnames(ctx, w.Address, cfg.ParentName)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("querying indexer: %w", err)
		}

		if len(nodes) == 0 {
			fmt.Println(ui.Info(fmt.Sprintf("No subnames under %s for %s.", cfg.ParentName, ui.TruncateAddr(w.Address))))
			fmt.Println(ui.Hint("Mint one with: subctl mint"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 32},
			{Title: "Owner", Width: 14},
			{Title: "Expires", Width: 12},
		})
		rows := make([]ui.NameRow, 0, len(nodes))
		for _, n := range nodes {
			t.AddRow(ui.Row{
				ui.ChainName(n.Name),
				ui.Addr(ui.TruncateAddr(n.Owner)),
				ui.Meta(formatExpiry(n)),
			})
			rows = append(rows, ui.NameRow{
				FullName: n.Name,
				AppURL:   "https://app.ens.domains/" + n.Name,
			})
		}

		if listPlain {
			fmt.Println(t.Render())
			fmt.Println(ui.Meta(fmt.Sprintf("%d subname(s)", len(nodes))))
			return nil
		}

		title := ui.StyleTitle.Render(fmt.Sprintf("Subnames under %s", cfg.ParentName))
		return ui.RunNameList(title, t, rows)
	},
}

// formatExpiry renders a node's expiry, "never" for permanent names.
func formatExpiry(n indexer.Node) string {
	if n.ExpiresAt == 0 {
		return "never"
	}
	return time.Unix(n.ExpiresAt, 0).UTC().Format("2006-01-02")
}

func init() {
	listCmd.Flags().StringVar(&listWallet, "wallet", "", "wallet to list subnames for")
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "print a static table instead of the interactive browser")
}
