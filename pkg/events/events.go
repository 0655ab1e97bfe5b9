package events

import (
	"context"
	"sync"
	"time"
)

const (
	TopicAccounts = "account_events"
	TopicCatalog  = "catalog_events"
	TopicCart     = "cart_events"
	TopicOrders   = "order_events"
)

const (
	AccountRegistered  = "account_registered"
	CategoryCreated    = "category_created"
	ProductCreated     = "product_created"
	CartItemAdded      = "cart_item_added"
	CartItemUpdated    = "cart_item_updated"
	CartItemRemoved    = "cart_item_removed"
	OrderPlaced        = "order_placed"
	DeveloperOnboarded = "developer_onboarded"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

func New(typ string, payload any) Event {
	return Event{Type: typ, At: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, ev Event) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }

type Published struct {
	Topic string
	Key   string
	Event Event
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(_ context.Context, topic, key string, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Topic: topic, Key: key, Event: ev})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) OfType(typ string) []Published {
	var out []Published
	for _, p := range r.Events() {
		if p.Event.Type == typ {
			out = append(out, p)
		}
	}
	return out
}
