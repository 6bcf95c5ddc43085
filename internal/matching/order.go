package matching

import "github.com/haldorsen/matchbook/internal/types"

// Re-exported so callers outside this package can speak in terms of
// matching.Order rather than reaching into internal/types directly.
type (
	OrderType = types.OrderType
	SideType  = types.SideType
	Order     = types.Order
	Trade     = types.Trade
)

const (
	NoActionOrder = types.NoActionOrder
	MarketOrder   = types.Market
	LimitOrder    = types.Limit

	NoActionSide = types.NoActionSide
	Buy          = types.Buy
	Sell         = types.Sell
)

// Re-export constructor
var NewOrder = types.NewOrder
