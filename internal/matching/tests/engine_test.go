package matching

import (
	"math"
	"testing"
	"time"

	"github.com/haldorsen/matchbook/internal/matching"
	"github.com/haldorsen/matchbook/internal/types"
)

func TestRegisterPairIdempotent(t *testing.T) {
	engine := matching.NewEngine()

	if !engine.RegisterPair("ETH/USDT") {
		t.Fatal("first registration should return true")
	}
	if engine.RegisterPair("ETH/USDT") {
		t.Error("second registration of the same symbol should return false")
	}
	if engine.PairCount() != 1 {
		t.Errorf("pair count = %d, want 1", engine.PairCount())
	}
}

func TestSubmitUnknownPair(t *testing.T) {
	engine := matching.NewEngine()

	_, _, err := engine.Submit("u1", "ETH/USDT", matching.Buy, matching.LimitOrder, 100, 1)
	if err != matching.ErrUnknownPair {
		t.Errorf("expected ErrUnknownPair, got %v", err)
	}
}

// S6 — Invalid submissions leave state untouched.
func TestS6InvalidSubmissions(t *testing.T) {
	engine := matching.NewEngine()
	engine.RegisterPair("ETH/USDT")

	cases := []struct {
		name      string
		symbol    string
		orderType matching.OrderType
		price     float64
		quantity  float64
		wantErr   error
	}{
		{"zero quantity", "ETH/USDT", matching.LimitOrder, 100, 0, matching.ErrInvalidArgument},
		{"zero limit price", "ETH/USDT", matching.LimitOrder, 0, 1, matching.ErrInvalidArgument},
		{"unregistered symbol", "BTC/USDT", matching.LimitOrder, 100, 1, matching.ErrUnknownPair},
		{"NaN quantity", "ETH/USDT", matching.LimitOrder, 100, math.NaN(), matching.ErrInvalidArgument},
		{"Inf quantity", "ETH/USDT", matching.LimitOrder, 100, math.Inf(1), matching.ErrInvalidArgument},
		{"NaN limit price", "ETH/USDT", matching.LimitOrder, math.NaN(), 1, matching.ErrInvalidArgument},
		{"Inf limit price", "ETH/USDT", matching.LimitOrder, math.Inf(1), 1, matching.ErrInvalidArgument},
		{"-Inf limit price", "ETH/USDT", matching.LimitOrder, math.Inf(-1), 1, matching.ErrInvalidArgument},
		{"NaN market quantity", "ETH/USDT", matching.MarketOrder, 0, math.NaN(), matching.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			before := engine.TotalOrders()
			_, _, err := engine.Submit("u1", c.symbol, matching.Buy, c.orderType, c.price, c.quantity)
			if err != c.wantErr {
				t.Errorf("err = %v, want %v", err, c.wantErr)
			}
			if after := engine.TotalOrders(); after != before {
				t.Errorf("total orders changed on a failed submit: %d -> %d", before, after)
			}
		})
	}
}

func TestSubmitAllocatesMonotoneIDs(t *testing.T) {
	engine := matching.NewEngine()
	engine.RegisterPair("ETH/USDT")

	var last uint64
	for i := 0; i < 5; i++ {
		_, id, err := engine.Submit("u1", "ETH/USDT", matching.Buy, matching.LimitOrder, 100, 1)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if id <= last {
			t.Fatalf("ids must be strictly increasing, got %d after %d", id, last)
		}
		last = id
	}
}

func TestCancelUnknownSymbolReturnsFalse(t *testing.T) {
	engine := matching.NewEngine()
	if engine.Cancel(1, "ETH/USDT") {
		t.Error("cancel against an unregistered symbol should return false")
	}
}

func TestMarketDataUnknownPair(t *testing.T) {
	engine := matching.NewEngine()
	if _, err := engine.MarketData("ETH/USDT"); err != matching.ErrUnknownPair {
		t.Errorf("expected ErrUnknownPair, got %v", err)
	}
}

func TestMarketDataSpread(t *testing.T) {
	engine := matching.NewEngine()
	engine.RegisterPair("ETH/USDT")

	mustSubmit(t, engine, "ETH/USDT", "u1", matching.Buy, matching.LimitOrder, 2000, 1.5)
	mustSubmit(t, engine, "ETH/USDT", "u4", matching.Sell, matching.LimitOrder, 2010, 1.0)

	md, err := engine.MarketData("ETH/USDT")
	if err != nil {
		t.Fatalf("market data: %v", err)
	}
	if md.BestBid != 2000 || md.BestAsk != 2010 || md.Spread != 10 {
		t.Errorf("unexpected market data: %+v", md)
	}
}

func TestUserOrdersEmptyForUnknownSymbol(t *testing.T) {
	engine := matching.NewEngine()
	if orders := engine.UserOrders("u1", "ETH/USDT"); len(orders) != 0 {
		t.Errorf("expected no orders, got %v", orders)
	}
}

func TestSubmitAcrossPairsAreIndependent(t *testing.T) {
	engine := matching.NewEngine()
	engine.RegisterPair("ETH/USDT")
	engine.RegisterPair("BTC/USDT")

	mustSubmit(t, engine, "ETH/USDT", "u1", matching.Buy, matching.LimitOrder, 2000, 1)
	mustSubmit(t, engine, "BTC/USDT", "u2", matching.Buy, matching.LimitOrder, 50000, 1)

	ethMD, _ := engine.MarketData("ETH/USDT")
	btcMD, _ := engine.MarketData("BTC/USDT")

	if ethMD.BestBid != 2000 {
		t.Errorf("ETH/USDT best bid = %v, want 2000", ethMD.BestBid)
	}
	if btcMD.BestBid != 50000 {
		t.Errorf("BTC/USDT best bid = %v, want 50000", btcMD.BestBid)
	}
	if engine.TotalOrders() != 2 {
		t.Errorf("total orders = %d, want 2", engine.TotalOrders())
	}
}

func TestPluggableClockStampsTrades(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := matching.NewEngineWithClock(func() time.Time { return fixed })
	engine.RegisterPair("ETH/USDT")

	trades, _, err := engine.Submit("s", "ETH/USDT", matching.Sell, matching.LimitOrder, 100, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %v", trades)
	}

	trades, _, err = engine.Submit("b", "ETH/USDT", matching.Buy, matching.MarketOrder, 0, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(trades) != 1 || !trades[0].Timestamp.Equal(fixed) {
		t.Errorf("expected trade timestamp %v, got %v", fixed, trades)
	}
}

func mustSubmit(t *testing.T, engine *matching.Engine, symbol, user string, side types.SideType, orderType matching.OrderType, price, quantity float64) []types.Trade {
	trades, _, err := engine.Submit(user, symbol, side, orderType, price, quantity)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return trades
}
