// Package primary sets an account's primary (reverse-resolution) name via
// the ENS reverse registrar.
package primary

import (
	"context"
	"math/big"
	"time"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/contract"
	"github.com/subnamehq/subctl/internal/wallet"
)

// Reverse registrar deployments. Primary names always resolve on L1.
const (
	MainnetReverseRegistrar = "0xa58E81fe9b61B5c3fE2AFD33CF304c454AbFc7Cb"
	SepoliaReverseRegistrar = "0xCF75B92126B02C9811d8c632144288a3eb84afC8"

	setNameSig = "setName(string)"

	// Blocks a setName transaction must be buried under before it is
	// treated as settled.
	confirmations  = 2
	confirmTimeout = 5 * time.Minute
)

// Setter implements registration.PrimaryNameSetter.
type Setter struct {
	client    *chain.EVMClient
	sender    *contract.Sender
	registrar string
}

// New creates a Setter pointed at the right reverse registrar for the
// network mode.
func New(client *chain.EVMClient, signer *wallet.Signer, chainID *big.Int, testnet bool) *Setter {
	registrar := MainnetReverseRegistrar
	if testnet {
		registrar = SepoliaReverseRegistrar
	}
	return &Setter{
		client:    client,
		sender:    contract.NewSender(client, signer, chainID),
		registrar: registrar,
	}
}

// SetPrimaryName submits setName(fullName) and waits until the transaction
// is two confirmations deep.
func (s *Setter) SetPrimaryName(ctx context.Context, fullName string) (string, error) {
	calldata := contract.Pack(setNameSig, contract.String(fullName))

	hash, err := s.sender.Send(s.registrar, calldata, nil, "set primary name to "+fullName)
	if err != nil {
		return "", err
	}

	if _, err := s.client.WaitForConfirmations(ctx, hash, confirmations, confirmTimeout); err != nil {
		return hash, err
	}
	return hash, nil
}
