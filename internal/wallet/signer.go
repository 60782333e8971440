package wallet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUserRejected is returned when the user declines the signing prompt.
// Callers treat it as a silent abort rather than a failure.
var ErrUserRejected = errors.New("user denied transaction signature")

// TxSummary is what the confirmation prompt shows before signing.
type TxSummary struct {
	To       string
	ValueWei *big.Int
	Gas      uint64
	ChainID  *big.Int
	Purpose  string // e.g. "mint alice.noun.eth"
}

// Signer signs EVM transactions for a signing wallet. When a Confirm hook
// is set it is consulted before every signature; declining yields
// ErrUserRejected.
type Signer struct {
	wallet  *Wallet
	ks      KeystoreBackend
	Confirm func(TxSummary) bool
}

// NewSigner creates a signer for the given wallet.
func NewSigner(w *Wallet, ks KeystoreBackend) *Signer {
	return &Signer{wallet: w, ks: ks}
}

// SignTx signs an EVM transaction and returns the raw signed bytes.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int, purpose string) ([]byte, error) {
	if s.wallet.Type != TypeSigning {
		return nil, fmt.Errorf("wallet %q is watch-only and cannot sign", s.wallet.Name)
	}

	if s.Confirm != nil {
		summary := TxSummary{
			ValueWei: tx.Value(),
			Gas:      tx.Gas(),
			ChainID:  chainID,
			Purpose:  purpose,
		}
		if to := tx.To(); to != nil {
			summary.To = to.Hex()
		}
		if !s.Confirm(summary) {
			return nil, ErrUserRejected
		}
	}

	hexKey, err := s.retrieveKey()
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	signer := types.NewLondonSigner(chainID)
	signed, err := types.SignTx(tx, signer, privKey)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}

	return raw, nil
}

// retrieveKey checks the session cache before the keychain so an unlocked
// wallet does not re-prompt on every transaction.
func (s *Signer) retrieveKey() (string, error) {
	if hexKey, ok := GetSessionKey(s.wallet.KeyRef); ok {
		return hexKey, nil
	}
	return s.ks.Retrieve(s.wallet.KeyRef)
}

// Address returns the wallet's address.
func (s *Signer) Address() string {
	return s.wallet.Address
}
