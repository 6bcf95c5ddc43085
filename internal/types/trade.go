package types

import "time"

// Trade is the immutable record emitted at the instant two orders match.
// It is never stored inside a book; it is returned as the value of the
// submission that caused it. TradeID is not part of the matching contract:
// the book leaves it zero, and only the Postgres trade store fills it in,
// from its trade_id sequence, when reading trades back.
type Trade struct {
	TradeID     uint64    `json:"trade_id,omitempty"`
	BuyOrderID  uint64    `json:"buy_order_id"`
	SellOrderID uint64    `json:"sell_order_id"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Quantity    float64   `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}
