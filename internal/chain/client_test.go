package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// rpcStub answers JSON-RPC requests from a fixed method -> result table.
func rpcStub(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, ok := results[req.Method]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

func TestClientChainIDAndBlock(t *testing.T) {
	srv := rpcStub(t, map[string]string{
		"eth_chainId":     "0x38",
		"eth_blockNumber": "0x121eac0",
	})
	defer srv.Close()

	ctx := context.Background()
	c, err := NewClient(ctx, srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	id, err := c.GetChainID(ctx)
	if err != nil {
		t.Fatalf("chain id: %v", err)
	}
	if id.Uint64() != 56 {
		t.Fatalf("chain id mismatch: %s", id)
	}

	block, err := c.LatestBlockNumber(ctx)
	if err != nil {
		t.Fatalf("block number: %v", err)
	}
	if block != 19_000_000 {
		t.Fatalf("block mismatch: %d", block)
	}
}

func TestClientChainIDError(t *testing.T) {
	srv := rpcStub(t, map[string]string{})
	defer srv.Close()

	ctx := context.Background()
	c, err := NewClient(ctx, srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if _, err := c.GetChainID(ctx); err == nil {
		t.Fatalf("expected error from failing rpc")
	}
}
