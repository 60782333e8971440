package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnamehq/subctl/internal/chain"
	"github.com/subnamehq/subctl/internal/indexer"
	"github.com/subnamehq/subctl/test/fixtures"
)

func TestIndexerNodesFromFixture(t *testing.T) {
	srv := fixtures.IndexerServer(t, "nodes.json")
	defer srv.Close()

	client := indexer.NewClient(srv.URL)
	items, total, err := client.Nodes(context.Background(), indexer.NodeQuery{ParentName: "noun.eth"})
	require.NoError(t, err)

	assert.Equal(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, "alice.noun.eth", items[0].Name)
	assert.Equal(t, "alice", items[0].Label)
	assert.Equal(t, "noun.eth", items[0].ParentName)
	assert.Equal(t, int64(1767225600), items[0].ExpiresAt)
	assert.Equal(t, "alice_mints", items[0].Texts["com.twitter"])

	// Permanent subnames report a zero expiry.
	assert.Zero(t, items[1].ExpiresAt)
}

func TestIndexerStatsFromFixture(t *testing.T) {
	srv := fixtures.IndexerServer(t, "nodes.json")
	defer srv.Close()

	client := indexer.NewClient(srv.URL)
	stats, err := client.Stats(context.Background(), "noun.eth")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalMinted)
	assert.Equal(t, []string{"alice.noun.eth", "bob.noun.eth", "carol.noun.eth"}, stats.RecentMints)
}

func TestReceiptFromFixture(t *testing.T) {
	result := fixtures.RPCResult(t, "mint_receipt.json")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": result,
		})
	}))
	defer srv.Close()

	client := chain.NewEVMClient(srv.URL)
	receipt, err := client.GetTransactionReceipt("0xaaaa000000000000000000000000000000000000000000000000000000001234")
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, uint64(0x10), receipt.BlockNumber)
	assert.Equal(t, uint64(0x301f4), receipt.GasUsed)
}
