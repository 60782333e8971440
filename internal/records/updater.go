package records

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/contract"
	"github.com/subnamehq/subctl/internal/ens"
)

const (
	setTextSig   = "setText(bytes32,string,string)"
	multicallSig = "multicall(bytes[])"

	confirmTimeout = 5 * time.Minute
)

// Updater writes text-record changes for a subname through its resolver.
type Updater struct {
	client   *chain.EVMClient
	sender   *contract.Sender
	resolver string
}

// NewUpdater creates an Updater for the resolver at resolverAddr.
func NewUpdater(client *chain.EVMClient, sender *contract.Sender, resolverAddr string) *Updater {
	return &Updater{client: client, sender: sender, resolver: resolverAddr}
}

// BuildCalldata encodes the resolver update for changed. A single change
// becomes one setText call; multiple changes are wrapped in a multicall.
// Keys are encoded in sorted order so the calldata is deterministic.
func BuildCalldata(fullName string, changed map[string]string) []byte {
	node := ens.NamehashBytes(fullName)

	keys := make([]string, 0, len(changed))
	for k := range changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	calls := make([][]byte, 0, len(keys))
	for _, key := range keys {
		calls = append(calls, contract.Pack(setTextSig,
			contract.Bytes32(node),
			contract.String(key),
			contract.String(changed[key]),
		))
	}

	if len(calls) == 1 {
		return calls[0]
	}
	return contract.Pack(multicallSig, contract.BytesArray(calls))
}

// Update diffs current vs desired, writes the changes and waits for the
// transaction to land. Returns the tx hash, or "" when nothing changed.
func (u *Updater) Update(ctx context.Context, fullName string, current, desired map[string]string) (string, error) {
	changed := Diff(current, desired)
	if len(changed) == 0 {
		return "", nil
	}

	calldata := BuildCalldata(fullName, changed)
	hash, err := u.sender.Send(u.resolver, calldata, nil, "update records for "+fullName)
	if err != nil {
		return "", fmt.Errorf("sending record update: %w", err)
	}

	if _, err := u.client.WaitForReceipt(ctx, hash, confirmTimeout); err != nil {
		return hash, err
	}
	return hash, nil
}
