// Package fixtures serves captured indexer and JSON-RPC payloads to tests.
package fixtures

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Bytes reads a fixture by path relative to this directory,
// e.g. Bytes(t, "indexer/nodes.json").
func Bytes(t *testing.T, rel string) []byte {
	t.Helper()
	_, self, _, _ := runtime.Caller(0)
	data, err := os.ReadFile(filepath.Join(filepath.Dir(self), filepath.FromSlash(rel)))
	require.NoError(t, err, "missing fixture %s", rel)
	return data
}

// IndexerServer starts a mock subname indexer that answers every nodes
// query with the captured response in indexer/<filename>. The caller owns
// the server and must Close it.
func IndexerServer(t *testing.T, filename string) *httptest.Server {
	t.Helper()
	body := Bytes(t, "indexer/"+filename)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/nodes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body) //nolint:errcheck
	}))
}

// RPCResult loads rpc/<filename> as the result payload of a JSON-RPC
// response, for embedding in a mock node's reply envelope.
func RPCResult(t *testing.T, filename string) json.RawMessage {
	t.Helper()
	data := Bytes(t, "rpc/"+filename)
	require.True(t, json.Valid(data), "fixture %s is not valid JSON", filename)
	return json.RawMessage(data)
}
