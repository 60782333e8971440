package records

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/contract"
	"github.com/subnamehq/subctl/internal/wallet"
)

const testResolver = "0x2000000000000000000000000000000000000002"

func TestBuildCalldataSingleChange(t *testing.T) {
	data := BuildCalldata("alice.noun.eth", map[string]string{"avatar": "ipfs://x"})

	// A lone change is a direct setText, no multicall wrapper.
	assert.Equal(t, contract.Selector(setTextSig), data[:4])
	blob := hex.EncodeToString(data)
	assert.Contains(t, blob, hex.EncodeToString([]byte("avatar")))
	assert.Contains(t, blob, hex.EncodeToString([]byte("ipfs://x")))
}

func TestBuildCalldataMultipleChanges(t *testing.T) {
	data := BuildCalldata("alice.noun.eth", map[string]string{
		"avatar": "ipfs://x",
		"url":    "https://a",
	})

	assert.Equal(t, contract.Selector(multicallSig), data[:4])
	blob := hex.EncodeToString(data)
	assert.Contains(t, blob, hex.EncodeToString(contract.Selector(setTextSig)))
	assert.Contains(t, blob, hex.EncodeToString([]byte("https://a")))
}

func TestBuildCalldataDeterministic(t *testing.T) {
	changed := map[string]string{
		"url":         "https://a",
		"avatar":      "ipfs://x",
		"com.twitter": "alice",
		"description": "hi",
	}

	// Map iteration order must not leak into the encoding.
	first := BuildCalldata("alice.noun.eth", changed)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildCalldata("alice.noun.eth", changed))
	}
}

func TestBuildCalldataNameScoped(t *testing.T) {
	a := BuildCalldata("alice.noun.eth", map[string]string{"url": "https://a"})
	b := BuildCalldata("bob.noun.eth", map[string]string{"url": "https://a"})
	assert.NotEqual(t, a, b, "the node hash differs per name")
}

// resolverRPC fakes the RPC surface an update touches.
type resolverRPC struct {
	mu    sync.Mutex
	rawTx string
}

func (m *resolverRPC) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     int               `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		write := func(result interface{}) {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0", "id": req.ID, "result": result,
			})
		}

		switch req.Method {
		case "eth_estimateGas":
			write("0x15f90")
		case "eth_gasPrice":
			write("0x3b9aca00")
		case "eth_getTransactionCount":
			write("0x0")
		case "eth_sendRawTransaction":
			var raw string
			require.NoError(t, json.Unmarshal(req.Params[0], &raw))
			m.mu.Lock()
			m.rawTx = raw
			m.mu.Unlock()
			write("0xrecordhash")
		case "eth_getTransactionReceipt":
			write(map[string]string{"status": "0x1", "blockNumber": "0x10", "gasUsed": "0x5208"})
		default:
			t.Errorf("unexpected RPC method %s", req.Method)
		}
	}))
}

func updaterSigner(t *testing.T) *wallet.Signer {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	ks := wallet.NewInMemoryKeystore()
	ref, err := ks.Store("r", hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)

	return wallet.NewSigner(&wallet.Wallet{
		Name:    "r",
		Address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
		Type:    wallet.TypeSigning,
		KeyRef:  ref,
	}, ks)
}

func TestUpdateWritesChanges(t *testing.T) {
	mock := &resolverRPC{}
	srv := mock.server(t)
	defer srv.Close()

	client := chain.NewEVMClient(srv.URL)
	sender := contract.NewSender(client, updaterSigner(t), big.NewInt(1))
	u := NewUpdater(client, sender, testResolver)

	hash, err := u.Update(context.Background(), "alice.noun.eth",
		map[string]string{"url": "https://old"},
		map[string]string{"url": "https://new"},
	)
	require.NoError(t, err)
	assert.Equal(t, "0xrecordhash", hash)

	mock.mu.Lock()
	defer mock.mu.Unlock()
	assert.NotEmpty(t, mock.rawTx)
}

func TestUpdateNothingChanged(t *testing.T) {
	mock := &resolverRPC{}
	srv := mock.server(t)
	defer srv.Close()

	client := chain.NewEVMClient(srv.URL)
	sender := contract.NewSender(client, updaterSigner(t), big.NewInt(1))
	u := NewUpdater(client, sender, testResolver)

	hash, err := u.Update(context.Background(), "alice.noun.eth",
		map[string]string{"url": "https://a"},
		map[string]string{"url": "https://a"},
	)
	require.NoError(t, err)
	assert.Empty(t, hash, "no transaction for a no-op update")

	mock.mu.Lock()
	defer mock.mu.Unlock()
	assert.Empty(t, mock.rawTx)
}

func TestUpdateUserRejected(t *testing.T) {
	mock := &resolverRPC{}
	srv := mock.server(t)
	defer srv.Close()

	signer := updaterSigner(t)
	signer.Confirm = func(wallet.TxSummary) bool { return false }

	client := chain.NewEVMClient(srv.URL)
	sender := contract.NewSender(client, signer, big.NewInt(1))
	u := NewUpdater(client, sender, testResolver)

	_, err := u.Update(context.Background(), "alice.noun.eth",
		nil, map[string]string{"url": "https://a"})
	assert.ErrorIs(t, err, wallet.ErrUserRejected)
}
