package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/rpc"
	"github.com/subnamehq/subctl/internal/ui"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage RPC endpoints",
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <network> <url>",
	Short: "Add a custom RPC URL for a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		if _, err := chain.NetworkByName(name); err != nil {
			return fmt.Errorf("unknown network %q", name)
		}
		if err := cfg.AddRPC(name, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added RPC for %s: %s", ui.ChainName(name), url)))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <network> <url>",
	Short: "Remove a custom RPC URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		if err := cfg.RemoveRPC(name, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed RPC for %s: %s", name, url)))
		return nil
	},
}

var rpcListCmd = &cobra.Command{
	Use:   "list <network>",
	Short: "List all RPCs for a network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		n, err := chain.NetworkByName(name)
		if err != nil {
			return fmt.Errorf("unknown network %q", name)
		}

		fmt.Printf("%s\n", ui.StyleTitle.Render(fmt.Sprintf("RPCs for %s", n.DisplayName)))

		fmt.Println(ui.StyleHeader.Render("Built-in RPCs:"))
		for _, r := range n.RPCs {
			fmt.Printf("  %s\n", r)
		}

		custom := cfg.GetRPCs(name)
		if len(custom) > 0 {
			fmt.Println(ui.StyleHeader.Render("Custom RPCs:"))
			for _, r := range custom {
				fmt.Printf("  %s\n", r)
			}
		}
		return nil
	},
}

var rpcBenchmarkCmd = &cobra.Command{
	Use:   "benchmark [network]",
	Short: "Probe all RPCs for a network and show which would win",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := networkArg(args)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n\n", ui.StyleTitle.Render(fmt.Sprintf("Probing %s RPCs...", n.DisplayName)))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		probes := rpc.ProbeAll(ctx, rpc.Candidates(cfg, n))
		fmt.Println(probeTable(probes).Render())

		strategy, err := rpc.ParseStrategy(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}
		winner, err := rpc.NewSelector(strategy).Choose(probes)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Winner (%s): %s", strategy, winner)))
		return nil
	},
}

var rpcHealthCmd = &cobra.Command{
	Use:   "health [network]",
	Short: "Check the health of every RPC for a network",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := networkArg(args)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		probes := rpc.ProbeAll(ctx, rpc.Candidates(cfg, n))
		fmt.Println(probeTable(probes).Render())

		for _, p := range probes {
			if p.Alive() && p.Lag(rpc.BestBlock(probes)) == 0 {
				return nil
			}
		}
		return fmt.Errorf("no healthy RPC endpoint for %s", n.DisplayName)
	},
}

// networkArg resolves an optional network name argument, falling back to the
// configured active network.
func networkArg(args []string) (*chain.Network, error) {
	if len(args) == 1 {
		n, err := chain.NetworkByName(args[0])
		if err != nil {
			return nil, fmt.Errorf("unknown network %q", args[0])
		}
		return n, nil
	}
	return activeNetwork()
}

// probeTable renders a probe sweep with per-endpoint lag against the best
// observed block.
func probeTable(probes []rpc.Probe) *ui.Table {
	best := rpc.BestBlock(probes)

	t := ui.NewTable([]ui.Column{
		{Title: "RPC URL", Width: 44},
		{Title: "Latency", Width: 10, Align: ui.AlignRight},
		{Title: "Block", Width: 12, Align: ui.AlignRight},
		{Title: "Lag", Width: 5, Align: ui.AlignRight},
		{Title: "Status", Width: 10},
	})

	for _, p := range probes {
		if !p.Alive() {
			t.AddRow(ui.Row{p.URL, "—", "—", "—", ui.Err("down")})
			continue
		}

		status := ui.Success("healthy")
		if p.Lag(best) > 0 {
			status = ui.Warn("lagging")
		}
		t.AddRow(ui.Row{
			p.URL,
			fmt.Sprintf("%dms", p.Latency.Milliseconds()),
			fmt.Sprintf("%d", p.Block),
			fmt.Sprintf("%d", p.Lag(best)),
			status,
		})
	}
	return t
}

var rpcAlgorithmCmd = &cobra.Command{
	Use:   "algorithm",
	Short: "Manage the RPC selection algorithm",
}

var rpcAlgorithmSetCmd = &cobra.Command{
	Use:   "set <algorithm>",
	Short: "Set the RPC selection algorithm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := rpc.ParseStrategy(args[0])
		if err != nil {
			return err
		}
		cfg.RPCAlgorithm = string(strategy)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC algorithm set to %q", strategy)))
		return nil
	},
}

func init() {
	rpcAlgorithmCmd.AddCommand(rpcAlgorithmSetCmd)
	rpcCmd.AddCommand(rpcAddCmd, rpcRemoveCmd, rpcListCmd, rpcBenchmarkCmd, rpcHealthCmd, rpcAlgorithmCmd)
}
