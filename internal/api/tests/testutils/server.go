package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/haldorsen/matchbook/internal/api/handlers"
	"github.com/haldorsen/matchbook/internal/api/routes"
	"github.com/haldorsen/matchbook/internal/matching"
	"github.com/haldorsen/matchbook/internal/storage/file"
	"github.com/stretchr/testify/require"
)

// DefaultSymbol is the pair every TestServer pre-registers at construction,
// so integration tests don't need to call the pairs endpoint themselves.
const DefaultSymbol = "BTC/USDT"

// TestServer wraps a test HTTP server with the matching engine
type TestServer struct {
	Server       *httptest.Server
	Engine       *matching.Engine
	Symbol       string
	TradeLogPath string
	t            testing.TB
}

// NewTestServer creates a new test server with a fresh engine and one
// pre-registered pair (DefaultSymbol). Trades are persisted to a temp file
// through the optional Stores collaborator, same as the production wiring.
func NewTestServer(t testing.TB) *TestServer {
	tmpDir := t.TempDir()
	tradeLogPath := filepath.Join(tmpDir, "test_trades.log")

	engine := matching.NewEngine()
	engine.RegisterPair(DefaultSymbol)

	tradeStore, err := file.NewFileTradeStore(tradeLogPath)
	require.NoError(t, err, "failed to create trade log store")

	engineHolder := handlers.NewEngineHolder(engine).WithStores(&handlers.Stores{
		Trades: tradeStore,
	})
	handler := routes.SetupRoutes(engineHolder)
	server := httptest.NewServer(handler)

	return &TestServer{
		Server:       server,
		Engine:       engine,
		Symbol:       DefaultSymbol,
		TradeLogPath: tradeLogPath,
		t:            t,
	}
}

// Close cleans up the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
	// Cleanup of the trade log temp dir is automatic via t.TempDir().
}

// URL returns the base URL for the test server
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// Get makes a GET request to the test server
func (ts *TestServer) Get(path string) *http.Response {
	resp, err := http.Get(ts.URL() + path)
	require.NoError(ts.t, err, "GET request failed")
	return resp
}

// Post makes a POST request with JSON body
func (ts *TestServer) Post(path string, body interface{}) *http.Response {
	jsonBody, err := json.Marshal(body)
	require.NoError(ts.t, err, "Failed to marshal request body")

	resp, err := http.Post(ts.URL()+path, "application/json", bytes.NewBuffer(jsonBody))
	require.NoError(ts.t, err, "POST request failed")
	return resp
}

// Delete makes a DELETE request
func (ts *TestServer) Delete(path string) *http.Response {
	req, err := http.NewRequest("DELETE", ts.URL()+path, nil)
	require.NoError(ts.t, err, "Failed to create DELETE request")

	client := &http.Client{}
	resp, err := client.Do(req)
	require.NoError(ts.t, err, "DELETE request failed")
	return resp
}

// DecodeJSON decodes JSON response into target
func DecodeJSON(t testing.TB, resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	err = json.Unmarshal(body, target)
	require.NoError(t, err, "Failed to decode JSON response: %s", string(body))
}

// ReadTradeLog reads the trade log file and returns trades. The file store
// writes asynchronously, so callers that need up-to-date contents should
// poll briefly rather than assume a write is already flushed.
func (ts *TestServer) ReadTradeLog() []matching.Trade {
	data, err := os.ReadFile(ts.TradeLogPath)
	if err != nil {
		return []matching.Trade{}
	}

	var trades []matching.Trade
	decoder := json.NewDecoder(bytes.NewReader(data))
	for {
		var trade matching.Trade
		if err := decoder.Decode(&trade); err == io.EOF {
			break
		} else if err != nil {
			ts.t.Fatalf("Failed to decode trade: %v", err)
		}
		trades = append(trades, trade)
	}
	return trades
}

// GetOrderBookDepth returns the current orderbook depth for the server's
// default pair.
func (ts *TestServer) GetOrderBookDepth() (bidLevels, askLevels int) {
	data, err := ts.Engine.MarketData(ts.Symbol)
	if err != nil {
		return 0, 0
	}
	return len(data.BidDepth), len(data.AskDepth)
}

// GetTrackedOrderCount returns the number of resting orders across every
// registered pair.
func (ts *TestServer) GetTrackedOrderCount() int {
	return ts.Engine.TotalOrders()
}
