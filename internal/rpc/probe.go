package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/subnamehq/subctl/internal/chain"
)

// Each probe gets its own deadline so one hung endpoint cannot stall the
// whole sweep.
const probeTimeout = 5 * time.Second

// Probe is the outcome of pinging one RPC endpoint: how fast it answered,
// what block it reports, and whether it answered at all.
type Probe struct {
	URL     string
	Latency time.Duration
	Block   uint64
	Err     error
}

// Alive reports whether the endpoint answered the ping.
func (p Probe) Alive() bool {
	return p.Err == nil
}

// Lag returns how many blocks p trails the given best block.
func (p Probe) Lag(best uint64) uint64 {
	if !p.Alive() || p.Block >= best {
		return 0
	}
	return best - p.Block
}

// ProbeAll pings every URL in parallel and returns one Probe per URL, in
// input order. A mint should not wait on a dead endpoint, so slow and
// unreachable nodes just come back with Err set.
func ProbeAll(ctx context.Context, urls []string) []Probe {
	probes := make([]Probe, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			latency, block, err := chain.NewEVMClient(u).Ping(probeCtx)
			probes[idx] = Probe{URL: u, Latency: latency, Block: block, Err: err}
		}(i, url)
	}

	wg.Wait()
	return probes
}

// BestBlock returns the highest block reported by any live probe. Zero when
// nothing answered.
func BestBlock(probes []Probe) uint64 {
	var best uint64
	for _, p := range probes {
		if p.Alive() && p.Block > best {
			best = p.Block
		}
	}
	return best
}
