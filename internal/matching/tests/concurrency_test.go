package matching

import (
	"sync"
	"testing"

	"github.com/haldorsen/matchbook/internal/matching"
)

// Every public entry point of both engine and book must be safe to call from
// multiple threads simultaneously; contention between different books is
// independent of contention within a single book.
func TestConcurrentSubmitsOnOneBook(t *testing.T) {
	engine := matching.NewEngine()
	engine.RegisterPair("ETH/USDT")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			side := matching.Buy
			if i%2 == 0 {
				side = matching.Sell
			}
			engine.Submit("u", "ETH/USDT", side, matching.LimitOrder, 100, 1)
		}(i)
	}
	wg.Wait()

	if got := engine.TotalOrders(); got < 0 {
		t.Fatalf("impossible negative order count: %d", got)
	}
}

func TestConcurrentSubmitsAcrossIndependentBooks(t *testing.T) {
	engine := matching.NewEngine()
	engine.RegisterPair("ETH/USDT")
	engine.RegisterPair("BTC/USDT")

	var wg sync.WaitGroup
	symbols := []string{"ETH/USDT", "BTC/USDT"}
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				engine.Submit("u", symbol, matching.Buy, matching.LimitOrder, 100, 1)
			}
		}(symbol)
	}
	wg.Wait()

	if engine.TotalOrders() != 200 {
		t.Errorf("total orders = %d, want 200", engine.TotalOrders())
	}
}
