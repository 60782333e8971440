package cmd

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"
	"time"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/internal/registration"
	"github.com/subnamehq/subctl/internal/rpc"
	"github.com/subnamehq/subctl/internal/ui"
	"github.com/subnamehq/subctl/internal/wallet"
)

// testnetVariants maps each mainnet slug to its testnet counterpart.
var testnetVariants = map[string]string{
	"ethereum": "sepolia",
	"base":     "base-sepolia",
}

// activeNetwork resolves the listing network, applying the testnet toggle.
func activeNetwork() (*chain.Network, error) {
	name := cfg.Network
	if cfg.Testnet {
		if tn, ok := testnetVariants[name]; ok {
			name = tn
		}
	} else {
		// Config may persist a testnet slug; --mainnet maps it back.
		for mn, tn := range testnetVariants {
			if tn == name {
				name = mn
				break
			}
		}
	}
	n, err := chain.NetworkByName(name)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q — run `subctl network list`", name)
	}
	return n, nil
}

// dialEVM picks the best RPC for the active network and returns a client.
func dialEVM() (*chain.EVMClient, *chain.Network, error) {
	net, err := activeNetwork()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	url, err := rpc.Resolve(ctx, cfg, net)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting RPC for %s: %w", net.Name, err)
	}
	if verbose {
		fmt.Println(ui.Meta("RPC: " + url))
	}
	return chain.NewEVMClient(url), net, nil
}

// currentListing builds the listing descriptor from config plus network.
func currentListing(net *chain.Network) registration.Listing {
	return registration.Listing{
		ParentName:       cfg.ParentName,
		ChainID:          net.ChainID,
		Rental:           cfg.Rental,
		Testnet:          net.Testnet,
		DefaultAvatarURI: cfg.DefaultAvatarURI,
	}
}

// newIndexerClient returns a client for the configured indexer API.
func newIndexerClient() *indexer.Client {
	return indexer.NewClient(cfg.IndexerURL)
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	store := wallet.NewJSONStore(filepath.Join(cfg.Dir(), "wallets.json"))
	return wallet.NewManager(wallet.WithStore(store))
}

// activeWallet resolves the wallet to act as: the --wallet flag when given,
// otherwise the configured default.
func activeWallet(flagName string) (*wallet.Wallet, error) {
	mgr := newWalletManager()
	name := flagName
	if name == "" {
		name = cfg.DefaultWallet
	}
	if name != "" {
		w, err := mgr.Get(name)
		if err != nil {
			return nil, fmt.Errorf(
				"wallet %q not found — run `subctl wallet list` or add one with `subctl wallet add`",
				name,
			)
		}
		return w, nil
	}
	if w := mgr.Default(); w != nil {
		return w, nil
	}
	return nil, fmt.Errorf("no wallet configured — add one with `subctl wallet add <name> --key <private-key>`")
}

// signingWallet is activeWallet plus a signing-capability check.
func signingWallet(flagName string) (*wallet.Wallet, error) {
	w, err := activeWallet(flagName)
	if err != nil {
		return nil, err
	}
	if w.Type != wallet.TypeSigning {
		return nil, fmt.Errorf(
			"wallet %q is watch-only and cannot sign transactions\n  Add a signing wallet: subctl wallet add <name> --key <private-key>",
			w.Name,
		)
	}
	return w, nil
}

// newSigner wires the confirmation prompt into a transaction signer.
func newSigner(w *wallet.Wallet) *wallet.Signer {
	s := wallet.NewSigner(w, wallet.DefaultKeystore())
	s.Confirm = ui.ConfirmTx
	return s
}

// chainIDOf returns the network chain ID as *big.Int.
func chainIDOf(net *chain.Network) *big.Int {
	return big.NewInt(net.ChainID)
}

// requireParent errors when no parent name has been configured yet.
func requireParent() error {
	if cfg.ParentName == "" {
		return fmt.Errorf("no parent name configured — run `subctl init` first")
	}
	return nil
}
