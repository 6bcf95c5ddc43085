package matching

import (
	"math"
	"sync"
	"time"

	"github.com/haldorsen/matchbook/internal/types"
)

// Clock supplies the wall-clock "now" stamped onto each order and trade.
// Pluggable so tests can use a fixed or stepping clock instead of time.Now.
type Clock func() time.Time

// MarketData is a consolidated snapshot of one pair's top of book and depth.
type MarketData struct {
	BestBid  float64
	BestAsk  float64
	Spread   float64
	BidDepth []DepthLevel
	AskDepth []DepthLevel
}

// DefaultDepth is how many levels MarketData reports per side when the
// caller does not otherwise specify, per §4.3.
const DefaultDepth = 10

// Engine owns the set of books keyed by pair symbol, allocates order ids,
// validates submissions, and presents a unified query surface. Its own lock
// covers only the registry and id counter; it is released before the book's
// lock is taken, enforcing engine-then-book lock ordering with no callbacks
// in the other direction.
type Engine struct {
	mu     sync.Mutex
	books  map[string]*Book
	nextID uint64
	clock  Clock
}

// NewEngine constructs an empty engine using time.Now as its clock.
func NewEngine() *Engine {
	return NewEngineWithClock(time.Now)
}

// NewEngineWithClock constructs an empty engine with a pluggable clock,
// used by tests that need deterministic order/trade timestamps.
func NewEngineWithClock(clock Clock) *Engine {
	return &Engine{
		books: make(map[string]*Book),
		clock: clock,
	}
}

// RegisterPair idempotently creates a book for symbol. Returns true on
// first creation, false if a book for symbol already existed. Books are
// never removed for the engine's lifetime.
func (e *Engine) RegisterPair(symbol string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.books[symbol]; exists {
		return false
	}
	e.books[symbol] = NewBook(symbol, e.clock)
	return true
}

// Submit validates, allocates an id, constructs the order, and inserts it
// into the named pair's book, returning the trades the insert produced.
func (e *Engine) Submit(user, symbol string, side types.SideType, orderType types.OrderType, price, quantity float64) ([]types.Trade, uint64, error) {
	if quantity <= 0 || !isFinite(quantity) {
		return nil, 0, ErrInvalidArgument
	}
	if orderType == types.Limit && (price <= 0 || !isFinite(price)) {
		return nil, 0, ErrInvalidArgument
	}

	book, id, ok := e.admit(symbol)
	if !ok {
		return nil, 0, ErrUnknownPair
	}

	order := types.NewOrder(id, user, symbol, side, orderType, price, quantity, e.clock())
	trades, err := book.Insert(order)
	if err != nil {
		// The engine looked up this book for this symbol; a WrongPair here
		// would be the engine's own bug, never a caller's.
		return nil, 0, err
	}
	return trades, id, nil
}

// admit looks up the book for symbol and allocates the next id, under the
// engine's lock only; the book's own lock is acquired later, by Insert.
func (e *Engine) admit(symbol string) (*Book, uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	book, ok := e.books[symbol]
	if !ok {
		return nil, 0, false
	}
	e.nextID++
	return book, e.nextID, true
}

// Cancel forwards to the book for symbol. Returns false if the symbol is
// unknown or the id is absent; never returns an error (NotFound is soft).
func (e *Engine) Cancel(id uint64, symbol string) bool {
	book := e.bookFor(symbol)
	if book == nil {
		return false
	}
	return book.Cancel(id)
}

// MarketData returns a snapshot of best bid/ask, spread, and default-depth
// listings for symbol. Fails with ErrUnknownPair if unregistered.
func (e *Engine) MarketData(symbol string) (MarketData, error) {
	book := e.bookFor(symbol)
	if book == nil {
		return MarketData{}, ErrUnknownPair
	}

	bestBid := book.BestBid()
	bestAsk := book.BestAsk()
	var spread float64
	if bestBid > 0 && bestAsk > 0 {
		spread = bestAsk - bestBid
	}

	return MarketData{
		BestBid:  bestBid,
		BestAsk:  bestAsk,
		Spread:   spread,
		BidDepth: book.Depth(types.Buy, DefaultDepth),
		AskDepth: book.Depth(types.Sell, DefaultDepth),
	}, nil
}

// Order returns a snapshot copy of a single resting order by id for symbol,
// or false if the symbol is unregistered or the order is not currently
// resting. The copy is safe to read without the book's lock.
func (e *Engine) Order(id uint64, symbol string) (*types.Order, bool) {
	book := e.bookFor(symbol)
	if book == nil {
		return nil, false
	}
	return book.Get(id)
}

// UserOrders returns snapshot copies of the book's resting orders for user,
// or empty if symbol is unknown. Safe to read without the book's lock.
func (e *Engine) UserOrders(user, symbol string) []*types.Order {
	book := e.bookFor(symbol)
	if book == nil {
		return nil
	}
	return book.UserOrders(user)
}

// TotalOrders sums resting order counts across every registered book.
func (e *Engine) TotalOrders() int {
	e.mu.Lock()
	books := make([]*Book, 0, len(e.books))
	for _, b := range e.books {
		books = append(books, b)
	}
	e.mu.Unlock()

	total := 0
	for _, b := range books {
		total += b.OrderCount()
	}
	return total
}

// PairCount returns the number of registered books.
func (e *Engine) PairCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.books)
}

func (e *Engine) bookFor(symbol string) *Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.books[symbol]
}

// isFinite rejects NaN and +/-Inf, which otherwise slip past a bare <= 0
// comparison (NaN compares false against everything, +Inf compares true
// against > 0) and would reach the book as an unmatchable or unsortable
// price/quantity.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
