package events

import "context"

// Event is anything the ordering core can announce
type Event interface {
	Type() string
}

// Dispatcher delivers events to whoever is listening. Dispatch failures
// must never fail the operation that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// OrderPlaced is announced after an order snapshot has been persisted
type OrderPlaced struct {
	OrderID      string `json:"order_id"`
	TotalAmount  string `json:"total_amount"`
	DiningOption string `json:"dining_option"`
	OrderDate    string `json:"order_date"`
	ItemCount    int    `json:"item_count"`
}

// Type returns the event name
func (e OrderPlaced) Type() string { return "OrderPlaced" }

// NopDispatcher swallows every event. It is the default when the
// fan-out is disabled.
type NopDispatcher struct{}

// Dispatch does nothing
func (NopDispatcher) Dispatch(ctx context.Context, event Event) error { return nil }
