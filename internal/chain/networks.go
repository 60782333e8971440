package chain

import (
	"errors"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not known.
var ErrNetworkNotFound = errors.New("network not found")

// Network holds metadata for a chain a listing can live on.
type Network struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	ChainID     int64    `json:"chain_id"`
	Testnet     bool     `json:"testnet"`
	RPCs        []string `json:"rpcs"`
	Explorer    string   `json:"explorer"`
}

// TxURL returns the block-explorer link for a transaction hash.
func (n *Network) TxURL(hash string) string {
	return n.Explorer + "/tx/" + hash
}

var networks = []Network{
	{
		Name:        "ethereum",
		DisplayName: "Ethereum",
		ChainID:     1,
		RPCs: []string{
			"https://eth.llamarpc.com",
			"https://ethereum-rpc.publicnode.com",
			"https://rpc.ankr.com/eth",
		},
		Explorer: "https://etherscan.io",
	},
	{
		Name:        "sepolia",
		DisplayName: "Sepolia",
		ChainID:     11155111,
		Testnet:     true,
		RPCs: []string{
			"https://ethereum-sepolia-rpc.publicnode.com",
			"https://rpc.sepolia.org",
		},
		Explorer: "https://sepolia.etherscan.io",
	},
	{
		Name:        "base",
		DisplayName: "Base",
		ChainID:     8453,
		RPCs: []string{
			"https://mainnet.base.org",
			"https://base-rpc.publicnode.com",
		},
		Explorer: "https://basescan.org",
	},
	{
		Name:        "base-sepolia",
		DisplayName: "Base Sepolia",
		ChainID:     84532,
		Testnet:     true,
		RPCs: []string{
			"https://sepolia.base.org",
		},
		Explorer: "https://sepolia.basescan.org",
	},
	{
		Name:        "optimism",
		DisplayName: "Optimism",
		ChainID:     10,
		RPCs: []string{
			"https://mainnet.optimism.io",
			"https://optimism-rpc.publicnode.com",
		},
		Explorer: "https://optimistic.etherscan.io",
	},
}

// Networks returns every supported network.
func Networks() []Network {
	out := make([]Network, len(networks))
	copy(out, networks)
	return out
}

// NetworkByName finds a network by its slug name (e.g. "base").
func NetworkByName(name string) (*Network, error) {
	for i := range networks {
		if networks[i].Name == strings.ToLower(name) {
			return &networks[i], nil
		}
	}
	return nil, ErrNetworkNotFound
}

// NetworkByChainID finds a network by its numeric chain ID.
func NetworkByChainID(id int64) (*Network, error) {
	for i := range networks {
		if networks[i].ChainID == id {
			return &networks[i], nil
		}
	}
	return nil, ErrNetworkNotFound
}
