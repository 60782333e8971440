package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoUsableRPC is returned when every candidate endpoint is dead or too
// far behind the chain head.
var ErrNoUsableRPC = errors.New("no usable RPC endpoint")

// Strategy names how the winning endpoint is chosen from a probe sweep.
type Strategy string

const (
	// StrategyFastest picks the lowest-latency live endpoint and remembers
	// it for a while, so repeated sends in one mint session hit the same
	// node and see consistent nonces.
	StrategyFastest Strategy = "fastest"
	// StrategyRoundRobin spreads calls across all live endpoints.
	StrategyRoundRobin Strategy = "round-robin"
	// StrategyFailover sticks to candidate order: the user's custom RPC
	// first, built-ins only when it is down.
	StrategyFailover Strategy = "failover"
)

const (
	// An endpoint this many blocks behind the best is not trusted: a stale
	// node can report a just-minted subname as still available.
	maxBlockLag = 3

	// How long a fastest-strategy winner is remembered before re-probing.
	winnerTTL = 5 * time.Minute
)

// ParseStrategy validates a config value. Empty defaults to fastest.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyFastest, nil
	case StrategyFastest, StrategyRoundRobin, StrategyFailover:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("invalid algorithm %q — choose: fastest, round-robin, failover", s)
	}
}

// Selector applies a Strategy to probe sweeps. It carries the round-robin
// cursor and the remembered fastest winner, so reuse one Selector across
// calls within a session.
type Selector struct {
	strategy Strategy

	mu          sync.Mutex
	cursor      int
	winner      string
	winnerUntil time.Time
}

// NewSelector creates a Selector for the given strategy.
func NewSelector(strategy Strategy) *Selector {
	return &Selector{strategy: strategy}
}

// Choose returns the URL to use given a fresh probe sweep.
func (s *Selector) Choose(probes []Probe) (string, error) {
	best := BestBlock(probes)
	usable := make([]Probe, 0, len(probes))
	for _, p := range probes {
		if p.Alive() && p.Lag(best) <= maxBlockLag {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return "", ErrNoUsableRPC
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.strategy {
	case StrategyRoundRobin:
		p := usable[s.cursor%len(usable)]
		s.cursor++
		return p.URL, nil

	case StrategyFailover:
		// usable preserves candidate order; the first entry is the highest
		// priority endpoint that is actually up.
		return usable[0].URL, nil

	default: // fastest
		if s.winner != "" && time.Now().Before(s.winnerUntil) {
			for _, p := range usable {
				if p.URL == s.winner {
					return p.URL, nil
				}
			}
			// Remembered winner dropped out of the usable set; re-pick.
		}

		fastest := usable[0]
		for _, p := range usable[1:] {
			if p.Latency < fastest.Latency {
				fastest = p
			}
		}
		s.winner = fastest.URL
		s.winnerUntil = time.Now().Add(winnerTTL)
		return fastest.URL, nil
	}
}
