// Package minter implements the mint side of the registration flow: it
// prepares mint-controller calldata, simulates and submits the transaction,
// and waits for it to land.
package minter

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/contract"
	"github.com/subnamehq/subctl/internal/ens"
	"github.com/subnamehq/subctl/internal/registration"
	"github.com/subnamehq/subctl/internal/wallet"
)

const (
	mintSig    = "mint(bytes32,string,address,uint256,bytes[])"
	mintFeeSig = "mintFee(bytes32,string,uint256)"
	setTextSig = "setText(bytes32,string,string)"

	confirmTimeout = 5 * time.Minute
)

// Executor implements registration.MintExecutor against the mint controller
// contract.
type Executor struct {
	client     *chain.EVMClient
	sender     *contract.Sender
	controller string
	chainID    *big.Int
	owner      string
}

// New creates an Executor. controller is the mint controller address on the
// listing chain. A nil signer yields a read-only executor that can still
// build parameters and quote fees.
func New(client *chain.EVMClient, signer *wallet.Signer, controller string, chainID *big.Int) *Executor {
	e := &Executor{
		client:     client,
		sender:     contract.NewSender(client, signer, chainID),
		controller: controller,
		chainID:    chainID,
	}
	if signer != nil {
		e.owner = signer.Address()
	}
	return e
}

// BuildParameters assembles ready-to-sign mint parameters: the encoded
// controller call (including resolver records set at mint time) and the
// mint fee read from the controller.
func (e *Executor) BuildParameters(ctx context.Context, req registration.MintRequest) (*registration.MintParams, error) {
	fullName := req.Label + "." + req.ParentName
	parentNode := ens.NamehashBytes(req.ParentName)
	nameNode := ens.NamehashBytes(fullName)

	var resolverData [][]byte
	for _, txt := range req.Texts {
		resolverData = append(resolverData, contract.Pack(setTextSig,
			contract.Bytes32(nameNode),
			contract.String(txt.Key),
			contract.String(txt.Value),
		))
	}

	fee, err := e.mintFee(req, parentNode)
	if err != nil {
		return nil, fmt.Errorf("reading mint fee: %w", err)
	}

	calldata := contract.Pack(mintSig,
		contract.Bytes32(parentNode),
		contract.String(req.Label),
		contract.Address(req.Owner),
		contract.Uint256(big.NewInt(int64(req.ExpiryYears))),
		contract.BytesArray(resolverData),
	)

	return &registration.MintParams{
		Request:  req,
		To:       e.controller,
		Calldata: calldata,
		Value:    fee,
	}, nil
}

// Execute simulates the mint, checks the balance covers fee plus gas, then
// signs and broadcasts. Revert reasons surface verbatim so the wizard's
// classifier can map them to user-facing messages.
func (e *Executor) Execute(ctx context.Context, params *registration.MintParams) (string, error) {
	data := "0x" + hex.EncodeToString(params.Calldata)

	ok, reason, err := e.client.SimulateCall(e.owner, params.To, data, params.Value)
	if err != nil {
		return "", fmt.Errorf("simulating mint: %w", err)
	}
	if !ok {
		return "", errors.New(reason)
	}

	if err := e.checkBalance(params); err != nil {
		return "", err
	}

	fullName := params.Request.Label + "." + params.Request.ParentName
	hash, err := e.sender.Send(params.To, params.Calldata, params.Value, "mint "+fullName)
	if err != nil {
		if errors.Is(err, wallet.ErrUserRejected) {
			return "", fmt.Errorf("%w: %w", registration.ErrUserRejected, err)
		}
		return "", err
	}
	return hash, nil
}

// AwaitConfirmation blocks until the mint transaction is mined.
func (e *Executor) AwaitConfirmation(ctx context.Context, txHash string) error {
	_, err := e.client.WaitForReceipt(ctx, txHash, confirmTimeout)
	return err
}

// mintFee reads the controller's fee for this mint. A controller without a
// fee function is treated as a free mint.
func (e *Executor) mintFee(req registration.MintRequest, parentNode [32]byte) (*big.Int, error) {
	calldata := contract.Pack(mintFeeSig,
		contract.Bytes32(parentNode),
		contract.String(req.Label),
		contract.Uint256(big.NewInt(int64(req.ExpiryYears))),
	)
	result, err := e.client.CallContract(e.controller, "0x"+hex.EncodeToString(calldata))
	if err != nil {
		return big.NewInt(0), nil
	}
	fee, ok := new(big.Int).SetString(trimHex(result), 16)
	if !ok {
		return big.NewInt(0), nil
	}
	return fee, nil
}

// checkBalance verifies the wallet covers fee plus worst-case gas, so an
// underfunded mint fails with a clear message instead of a node error.
func (e *Executor) checkBalance(params *registration.MintParams) error {
	bal, err := e.client.GetBalance(e.owner)
	if err != nil {
		return nil // balance check is best-effort, the node enforces anyway
	}
	gasPrice, err := e.client.GasPrice()
	if err != nil {
		return nil
	}
	gas, err := e.client.EstimateGas(e.owner, params.To, "0x"+hex.EncodeToString(params.Calldata), params.Value)
	if err != nil {
		gas = 200000
	}
	cost := e.sender.MaxCost(gas, gasPrice, params.Value)
	if bal.Wei.Cmp(cost) < 0 {
		return fmt.Errorf("%w: need %s ETH, have %s ETH",
			registration.ErrInsufficientFunds, chain.WeiToETH(cost), bal.ETH)
	}
	return nil
}

func trimHex(s string) string {
	if len(s) >= 2 && s[:2] == "0x" {
		return s[2:]
	}
	return s
}
