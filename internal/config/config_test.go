package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "⌐◨-◨.eth", cfg.ParentName)
	assert.Equal(t, "ethereum", cfg.Network)
	assert.Equal(t, "https://indexer.namespace.ninja", cfg.IndexerURL)
	assert.False(t, cfg.Rental)
	assert.False(t, cfg.Testnet)
	assert.NotNil(t, cfg.CustomRPCs)
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.ParentName = "noun.eth"
	cfg.Network = "base"
	cfg.Rental = true
	cfg.MintController = "0x1000000000000000000000000000000000000001"
	cfg.RPCAlgorithm = "failover"
	require.NoError(t, cfg.Save())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "noun.eth", again.ParentName)
	assert.Equal(t, "base", again.Network)
	assert.True(t, again.Rental)
	assert.Equal(t, "0x1000000000000000000000000000000000000001", again.MintController)
	assert.Equal(t, "failover", again.RPCAlgorithm)
}

func TestSaveFilePermissions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadFillsMissingIndexerURL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"parent_name":"noun.eth"}`), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://indexer.namespace.ninja", cfg.IndexerURL)
	assert.NotNil(t, cfg.CustomRPCs)
}

func TestAddRPC(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://a.example"))
	require.NoError(t, cfg.AddRPC("base", "https://b.example"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetRPCs("base"))
}

func TestAddRPCDuplicate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://a.example"))
	assert.Error(t, cfg.AddRPC("base", "https://a.example"))
}

func TestRemoveRPC(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://a.example"))
	require.NoError(t, cfg.RemoveRPC("base", "https://a.example"))
	assert.Empty(t, cfg.GetRPCs("base"))
}

func TestRemoveRPCMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Error(t, cfg.RemoveRPC("base", "https://nope.example"))
}

func TestGetRPCsUnknownNetwork(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.GetRPCs("atlantis"))
}

func TestCustomRPCsSurviveReload(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("sepolia", "https://my.node"))
	require.NoError(t, cfg.Save())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://my.node"}, again.GetRPCs("sepolia"))
}

func TestWalletsFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	wf, err := cfg.LoadWallets()
	require.NoError(t, err)
	assert.Empty(t, wf.Wallets)

	wf.Wallets = append(wf.Wallets, Wallet{
		Name:      "alice",
		Address:   "0x802D8097eC1D49808F3c2c866020442891adde57",
		Type:      "watch-only",
		IsDefault: true,
	})
	require.NoError(t, cfg.SaveWallets(wf))

	again, err := cfg.LoadWallets()
	require.NoError(t, err)
	require.Len(t, again.Wallets, 1)
	assert.Equal(t, "alice", again.Wallets[0].Name)
	assert.True(t, again.Wallets[0].IsDefault)
}
