package matching

import "errors"

// ErrInvalidArgument is returned by Submit when quantity is non-positive, or
// when the order is a limit with a non-positive price. Signalled synchronously;
// never retried or swallowed.
var ErrInvalidArgument = errors.New("matching: invalid argument")

// ErrUnknownPair is returned by Submit and MarketData when the symbol names
// no registered book. Cancel and UserOrders degrade to false/empty instead.
var ErrUnknownPair = errors.New("matching: unknown pair")

// ErrWrongPair indicates an order reached a book for a different pair than
// its own. This is a caller-side bug: the engine must prevent it from ever
// reaching Book.Insert in normal flow.
var ErrWrongPair = errors.New("matching: wrong pair")
