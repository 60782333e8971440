package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/wallet"
)

// Sender signs and broadcasts prepared calldata.
type Sender struct {
	client  *chain.EVMClient
	signer  *wallet.Signer
	chainID *big.Int
}

// NewSender creates a Sender.
func NewSender(client *chain.EVMClient, signer *wallet.Signer, chainID *big.Int) *Sender {
	return &Sender{
		client:  client,
		signer:  signer,
		chainID: chainID,
	}
}

// Send estimates gas, signs and broadcasts a transaction carrying calldata.
// purpose is shown in the signing prompt. Returns the transaction hash.
func (s *Sender) Send(contractAddr string, calldata []byte, value *big.Int, purpose string) (string, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	from := s.signer.Address()

	gas, err := s.client.EstimateGas(from, contractAddr, "0x"+hex.EncodeToString(calldata), value)
	if err != nil {
		gas = 200000 // fallback
	}

	gasPrice, err := s.client.GasPrice()
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.GetNonce(from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	feeCap := new(big.Int).Mul(gasPrice, big.NewInt(2))
	toAddr := common.HexToAddress(contractAddr)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &toAddr,
		Value:     value,
		Data:      calldata,
	})

	raw, err := s.signer.SignTx(tx, s.chainID, purpose)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction("0x" + hex.EncodeToString(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}

	return hash, nil
}

// MaxCost returns the worst-case wei a transaction with the given gas limit
// and value can cost, for balance checks before signing.
func (s *Sender) MaxCost(gas uint64, gasPrice, value *big.Int) *big.Int {
	feeCap := new(big.Int).Mul(gasPrice, big.NewInt(2))
	cost := new(big.Int).Mul(feeCap, new(big.Int).SetUint64(gas))
	if value != nil {
		cost.Add(cost, value)
	}
	return cost
}
