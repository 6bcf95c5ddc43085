package matching

import (
	"testing"
	"time"

	"github.com/haldorsen/matchbook/internal/matching"
)

func TestNewOrderInitialState(t *testing.T) {
	now := time.Now()
	order := matching.NewOrder(1, "alice", "ETH/USDT", matching.Buy, matching.LimitOrder, 100.0, 5.0, now)

	if order.Filled != 0 {
		t.Errorf("expected Filled 0, got %v", order.Filled)
	}
	if order.Remaining() != 5.0 {
		t.Errorf("expected Remaining 5.0, got %v", order.Remaining())
	}
	if order.IsFilled() {
		t.Error("freshly constructed order must not be filled")
	}
}

func TestOrderRemainingIsDerived(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		filled    float64
		remaining float64
	}{
		{"untouched", 10, 0, 10},
		{"partial", 10, 4, 6},
		{"exact", 10, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := matching.NewOrder(1, "u", "ETH/USDT", matching.Buy, matching.LimitOrder, 100.0, tt.quantity, time.Now())
			order.Filled = tt.filled
			if got := order.Remaining(); got != tt.remaining {
				t.Errorf("Remaining() = %v, want %v", got, tt.remaining)
			}
		})
	}
}
