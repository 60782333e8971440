// check-rpcs: pings every built-in RPC endpoint for every supported network
// in parallel and prints a latency summary table. Handy before cutting a
// release to catch dead public endpoints baked into the network table.
//
// Run from the module root:
//
//	go run ./scripts/check-rpcs
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/subnamehq/subctl/internal/chain"
)

const rpcTimeout = 12 * time.Second

type result struct {
	network string
	kind    string // mainnet | testnet
	url     string
	latency string
	block   string
	err     string
}

func main() {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)

	for _, n := range chain.Networks() {
		kind := "mainnet"
		if n.Testnet {
			kind = "testnet"
		}

		for _, url := range n.RPCs {
			wg.Add(1)
			go func(name, kind, url string) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
				defer cancel()

				client := chain.NewEVMClient(url)
				latency, block, err := client.Ping(ctx)

				r := result{network: name, kind: kind, url: shortURL(url)}
				if err != nil {
					r.latency = "—"
					r.block = "—"
					r.err = shortErr(err)
				} else {
					r.latency = fmt.Sprintf("%dms", latency.Milliseconds())
					r.block = fmt.Sprintf("%d", block)
				}

				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			}(n.Name, kind, url)
		}
	}

	wg.Wait()

	printTable(results)
}

func printTable(results []result) {
	// Sort by network name, then URL, for a stable listing.
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.network != b.network {
			return a.network < b.network
		}
		return a.url < b.url
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NETWORK\tMODE\tRPC\tLATENCY\tBLOCK\tNOTE")

	lastNetwork := ""
	down := 0
	for _, r := range results {
		if r.network != lastNetwork {
			if lastNetwork != "" {
				fmt.Fprintln(w, "\t\t\t\t\t")
			}
			lastNetwork = r.network
		}
		if r.err != "" {
			down++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.network, r.kind, r.url, r.latency, r.block, r.err)
	}
	w.Flush()

	fmt.Printf("\n%d endpoints checked, %d down\n", len(results), down)
	if down > 0 {
		os.Exit(1)
	}
}

func shortURL(url string) string {
	if len(url) > 48 {
		return url[:48] + "…"
	}
	return url
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
