package matching

import (
	"math"
	"sync"
	"time"

	"github.com/tidwall/btree"

	"github.com/haldorsen/matchbook/internal/types"
)

// priceScale converts a float64 price into an integer tick for use as a
// btree key, avoiding the floating-point ladder-equality hazard: two
// decimal prices that print identically are guaranteed to produce the same
// key, which map[float64] equality does not guarantee. Prices carry up to
// 8 fractional decimal digits of precision under this scheme.
const priceScale = 1e8

func toTicks(price float64) int64 {
	return int64(math.Round(price * priceScale))
}

func fromTicks(ticks int64) float64 {
	return float64(ticks) / priceScale
}

// priceLevel is a FIFO queue of resting orders sharing one price on one side.
type priceLevel struct {
	ticks  int64
	price  float64
	orders []*types.Order
}

// totalRemaining sums the level's remaining quantity, rounded to the same
// 1e-8 grid as price ticks so float residue from fills (1.5 - 1.2) reports
// as 0.3 rather than 0.30000000000000004.
func (l *priceLevel) totalRemaining() float64 {
	var total float64
	for _, o := range l.orders {
		total += o.Remaining()
	}
	return math.Round(total*priceScale) / priceScale
}

// DepthLevel is an aggregated (price, remaining quantity) pair, best-first.
type DepthLevel struct {
	Price    float64
	Quantity float64
}

// Book holds the resting state for exactly one trading pair: two
// priority-ordered price ladders, an id-indexed directory covering every
// resting order of both sides, and the matching algorithm between them.
// Every public method acquires mu at the top and holds it to return; callers
// never see a book in a partially-matched state.
type Book struct {
	mu     sync.Mutex
	symbol string
	bids   *btree.BTreeG[*priceLevel] // descending: best bid (highest price) first
	asks   *btree.BTreeG[*priceLevel] // ascending: best ask (lowest price) first
	byID   map[uint64]*types.Order
	clock  func() time.Time
}

// NewBook creates an empty book for symbol. clock supplies the timestamp
// stamped onto each trade; tests may substitute a fixed or stepping clock.
func NewBook(symbol string, clock func() time.Time) *Book {
	return &Book{
		symbol: symbol,
		bids:   btree.NewBTreeG(func(a, b *priceLevel) bool { return a.ticks > b.ticks }),
		asks:   btree.NewBTreeG(func(a, b *priceLevel) bool { return a.ticks < b.ticks }),
		byID:   make(map[uint64]*types.Order),
		clock:  clock,
	}
}

func (b *Book) ladderFor(side types.SideType) *btree.BTreeG[*priceLevel] {
	if side == types.Buy {
		return b.bids
	}
	return b.asks
}

// oppositeLadder is the ladder a taker of the given side matches against.
func (b *Book) oppositeLadder(side types.SideType) *btree.BTreeG[*priceLevel] {
	if side == types.Buy {
		return b.asks
	}
	return b.bids
}

// priceAcceptable implements the price-acceptable predicate for limit takers:
// buy accepts any resting price at or below its own limit, sell accepts any
// resting price at or above its own limit. Market takers have no predicate.
func priceAcceptable(taker *types.Order, restingPrice float64) bool {
	if taker.OrderType == types.Market {
		return true
	}
	if taker.Side == types.Buy {
		return restingPrice <= taker.Price
	}
	return restingPrice >= taker.Price
}

// Insert runs the matching algorithm for order against the opposite ladder,
// then, if order is a limit with remaining quantity, rests it on its own
// side. Returns the trades produced, in the order they executed.
func (b *Book) Insert(order *types.Order) ([]types.Trade, error) {
	if order.Symbol != b.symbol {
		return nil, ErrWrongPair
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	trades := b.match(order)

	if order.OrderType == types.Limit && order.Remaining() > 0 {
		b.rest(order)
	}

	return trades, nil
}

// match implements §4.2's matching algorithm: sweep the opposite ladder
// best-price-first, draining each level FIFO, until the taker is filled,
// the ladder is exhausted, or (for a limit taker) the next level is no
// longer price-acceptable.
func (b *Book) match(taker *types.Order) []types.Trade {
	var trades []types.Trade
	ladder := b.oppositeLadder(taker.Side)

	for taker.Remaining() > 0 {
		level, ok := ladder.Min()
		if !ok {
			break
		}
		if !priceAcceptable(taker, level.price) {
			break
		}

		for taker.Remaining() > 0 && len(level.orders) > 0 {
			maker := level.orders[0]
			qty := math.Min(taker.Remaining(), maker.Remaining())
			px := maker.Price

			types.ApplyFill(taker, qty)
			types.ApplyFill(maker, qty)

			trades = append(trades, b.buildTrade(taker, maker, px, qty))

			if maker.IsFilled() {
				level.orders = level.orders[1:]
				delete(b.byID, maker.ID)
			}
		}

		if len(level.orders) == 0 {
			ladder.Delete(level)
		}
	}

	return trades
}

func (b *Book) buildTrade(taker, maker *types.Order, price, qty float64) types.Trade {
	trade := types.Trade{
		Symbol:    b.symbol,
		Price:     price,
		Quantity:  qty,
		Timestamp: b.clock(),
	}
	if taker.Side == types.Buy {
		trade.BuyOrderID = taker.ID
		trade.SellOrderID = maker.ID
	} else {
		trade.BuyOrderID = maker.ID
		trade.SellOrderID = taker.ID
	}
	return trade
}

// rest appends order to the tail of its price level on its own side,
// creating the level if absent, and records it in the directory.
func (b *Book) rest(order *types.Order) {
	ladder := b.ladderFor(order.Side)
	ticks := toTicks(order.Price)

	level, ok := ladder.Get(&priceLevel{ticks: ticks})
	if !ok {
		level = &priceLevel{ticks: ticks, price: order.Price}
		ladder.Set(level)
	}
	level.orders = append(level.orders, order)
	b.byID[order.ID] = order
}

// Cancel removes the order with id from both its price level and the
// directory, setting its status to cancelled. Returns false if unknown.
func (b *Book) Cancel(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.byID[id]
	if !ok {
		return false
	}

	ladder := b.ladderFor(order.Side)
	ticks := toTicks(order.Price)
	level, ok := ladder.Get(&priceLevel{ticks: ticks})
	if ok {
		for i, o := range level.orders {
			if o.ID == id {
				level.orders = append(level.orders[:i], level.orders[i+1:]...)
				break
			}
		}
		if len(level.orders) == 0 {
			ladder.Delete(level)
		}
	}

	delete(b.byID, id)
	types.Cancel(order)
	return true
}

// BestBid returns the top bid price, or 0.0 when the bid ladder is empty.
func (b *Book) BestBid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	level, ok := b.bids.Min()
	if !ok {
		return 0.0
	}
	return level.price
}

// BestAsk returns the top ask price, or 0.0 when the ask ladder is empty.
func (b *Book) BestAsk() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	level, ok := b.asks.Min()
	if !ok {
		return 0.0
	}
	return level.price
}

// Depth returns the first k price levels of side in best-first order, each
// as (price, aggregated remaining quantity). k defaults to 10 when <= 0.
func (b *Book) Depth(side types.SideType, k int) []DepthLevel {
	if k <= 0 {
		k = 10
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	levels := make([]DepthLevel, 0, k)
	b.ladderFor(side).Scan(func(level *priceLevel) bool {
		levels = append(levels, DepthLevel{Price: level.price, Quantity: level.totalRemaining()})
		return len(levels) < k
	})
	return levels
}

// UserOrders returns a snapshot copy of every resting order belonging to
// user, unspecified order. Copies are taken under the lock so the result is
// safe to read after Book.mu is released, per §5's shared-resource policy —
// the directory's own *types.Order records keep mutating under Submit/Cancel
// long after this call returns.
func (b *Book) UserOrders(user string) []*types.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*types.Order
	for _, o := range b.byID {
		if o.UserID == user {
			snapshot := *o
			out = append(out, &snapshot)
		}
	}
	return out
}

// Get returns a snapshot copy of the resting order with id, or false if it
// is not resting. The copy is taken under the lock, so callers may read it
// freely once the lock is released — see UserOrders.
func (b *Book) Get(id uint64) (*types.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	order, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	snapshot := *order
	return &snapshot, true
}

// OrderCount returns the number of resting orders in the directory.
func (b *Book) OrderCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byID)
}
