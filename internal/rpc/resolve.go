package rpc

import (
	"context"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/config"
)

// Candidates returns the RPC URLs to consider for a network. User-configured
// custom RPCs come first so they win failover ordering over the built-ins.
func Candidates(cfg *config.Config, net *chain.Network) []string {
	urls := append([]string{}, cfg.GetRPCs(net.Name)...)
	return append(urls, net.RPCs...)
}

// Resolve picks the RPC URL every command uses to reach a network. With a
// single candidate there is nothing to choose, so no probe round trip is
// spent; otherwise all candidates are probed and the configured strategy
// decides.
func Resolve(ctx context.Context, cfg *config.Config, net *chain.Network) (string, error) {
	urls := Candidates(cfg, net)
	if len(urls) == 0 {
		return "", ErrNoUsableRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}

	strategy, err := ParseStrategy(cfg.RPCAlgorithm)
	if err != nil {
		return "", err
	}

	return NewSelector(strategy).Choose(ProbeAll(ctx, urls))
}
