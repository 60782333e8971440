package wallet

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigningWallet(t *testing.T) (*Signer, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))

	ks := NewInMemoryKeystore()
	ref, err := ks.Store("testwallet", hexKey)
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()
	s := NewSigner(&Wallet{
		Name:    "testwallet",
		Address: addr,
		Type:    TypeSigning,
		KeyRef:  ref,
	}, ks)
	return s, addr
}

func testTx(value *big.Int) *types.Transaction {
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(1),
		Nonce:     0,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(2_000_000_000),
		Gas:       21000,
		To:        &to,
		Value:     value,
	})
}

func TestSignTxProducesValidSignature(t *testing.T) {
	s, addr := newSigningWallet(t)

	raw, err := s.SignTx(testTx(big.NewInt(42)), big.NewInt(1), "test transfer")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(raw))

	// The recovered sender must match the wallet address.
	from, err := types.Sender(types.NewLondonSigner(big.NewInt(1)), &decoded)
	require.NoError(t, err)
	assert.Equal(t, addr, from.Hex())
}

func TestSignTxWatchOnly(t *testing.T) {
	s := NewSigner(&Wallet{
		Name:    "observer",
		Address: "0x1111111111111111111111111111111111111111",
		Type:    TypeWatchOnly,
	}, NewInMemoryKeystore())

	_, err := s.SignTx(testTx(nil), big.NewInt(1), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch-only")
}

func TestSignTxConfirmDeclined(t *testing.T) {
	s, _ := newSigningWallet(t)
	s.Confirm = func(TxSummary) bool { return false }

	_, err := s.SignTx(testTx(nil), big.NewInt(1), "test")
	assert.ErrorIs(t, err, ErrUserRejected)
}

func TestSignTxConfirmSummary(t *testing.T) {
	s, _ := newSigningWallet(t)

	var got TxSummary
	s.Confirm = func(sum TxSummary) bool {
		got = sum
		return true
	}

	_, err := s.SignTx(testTx(big.NewInt(42)), big.NewInt(5), "mint alice.noun.eth")
	require.NoError(t, err)

	assert.Equal(t, "mint alice.noun.eth", got.Purpose)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", got.To)
	assert.Equal(t, int64(42), got.ValueWei.Int64())
	assert.Equal(t, uint64(21000), got.Gas)
	assert.Equal(t, int64(5), got.ChainID.Int64())
}

func TestSignTxNoConfirmHook(t *testing.T) {
	s, _ := newSigningWallet(t)
	// Without a Confirm hook signing proceeds without prompting.
	raw, err := s.SignTx(testTx(nil), big.NewInt(1), "test")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestSignTxMissingKey(t *testing.T) {
	s := NewSigner(&Wallet{
		Name:    "broken",
		Address: "0x1111111111111111111111111111111111111111",
		Type:    TypeSigning,
		KeyRef:  "subctl.broken",
	}, NewInMemoryKeystore())

	_, err := s.SignTx(testTx(nil), big.NewInt(1), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving key")
}

func TestSignTxSessionCacheFallback(t *testing.T) {
	resetSession(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()

	// Key lives only in the session cache, not in the keystore backend.
	PutSessionKey("subctl.cached", hexKey)

	s := NewSigner(&Wallet{
		Name:    "cached",
		Address: addr,
		Type:    TypeSigning,
		KeyRef:  "subctl.cached",
	}, NewInMemoryKeystore())

	raw, err := s.SignTx(testTx(nil), big.NewInt(1), "test")
	require.NoError(t, err)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(raw))
	from, err := types.Sender(types.NewLondonSigner(big.NewInt(1)), &decoded)
	require.NoError(t, err)
	assert.Equal(t, addr, from.Hex())
}

func TestSignTxAcceptsPrefixedKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	ks := NewInMemoryKeystore()
	ref, err := ks.Store("prefixed", "0x"+hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)

	s := NewSigner(&Wallet{
		Name:    "prefixed",
		Address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
		Type:    TypeSigning,
		KeyRef:  ref,
	}, ks)

	_, err = s.SignTx(testTx(nil), big.NewInt(1), "test")
	assert.NoError(t, err)
}

func TestSignerAddress(t *testing.T) {
	s, addr := newSigningWallet(t)
	assert.Equal(t, addr, s.Address())
}
