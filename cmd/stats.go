package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/internal/ui"
)

var statsLive bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mint activity under the configured parent",
	Long: `Show how many subnames have been minted under the listing's parent
name and the most recent mints. --live keeps the view open and refreshes it.

Examples:
  subctl stats
  subctl stats --live`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireParent(); err != nil {
			return err
		}
		client := newIndexerClient()

		if statsLive {
			p := ui.NewActivityDashboard(15*time.Second, func() (ui.ActivityStats, []ui.MintEntry, error) {
				return fetchActivity(client)
			})
			_, err := p.Run()
			return err
		}

		stats, entries, err := fetchActivity(client)
		if err != nil {
			return fmt.Errorf("querying indexer: %w", err)
		}

		fmt.Println(ui.StyleTitle.Render("Mint activity · " + stats.ParentName))
		fmt.Println(ui.Val(fmt.Sprintf("%d minted", stats.TotalMinted)))
		if len(entries) > 0 {
			fmt.Println()
			t := ui.NewTable([]ui.Column{
				{Title: "Name", Width: 32},
				{Title: "Owner", Width: 14},
			})
			for _, e := range entries {
				t.AddRow(ui.Row{ui.ChainName(e.Name), ui.Addr(e.Owner)})
			}
			fmt.Println(t.Render())
		}
		return nil
	},
}

// fetchActivity adapts indexer results to dashboard entries.
func fetchActivity(client *indexer.Client) (ui.ActivityStats, []ui.MintEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	nodes, total, err := client.Nodes(ctx, indexer.NodeQuery{ParentName: cfg.ParentName, Limit: 10})
	if err != nil {
		return ui.ActivityStats{}, nil, err
	}

	stats := ui.ActivityStats{ParentName: cfg.ParentName, TotalMinted: total}
	entries := make([]ui.MintEntry, 0, len(nodes))
	for _, n := range nodes {
		e := ui.MintEntry{Name: n.Name, Owner: ui.TruncateAddr(n.Owner)}
		if n.ExpiresAt != 0 {
			e.Expires = time.Unix(n.ExpiresAt, 0).UTC().Format("2006-01-02")
		}
		entries = append(entries, e)
	}
	return stats, entries, nil
}

func init() {
	statsCmd.Flags().BoolVar(&statsLive, "live", false, "keep the view open and refresh periodically")
}
