package service

import (
	"slices"
	"sync"

	"github.com/joeblew999/geowidget/internal/widget"
)

// Action is the kind of map mutation an Event reports.
type Action string

const (
	MapCreated Action = "created"
	MapUpdated Action = "updated"
	MapDeleted Action = "deleted"
)

// Event reports a map mutation and the frontend calls it queued.
type Event struct {
	Action Action        `json:"action"`
	MapID  string        `json:"mapId"`
	Calls  []widget.Call `json:"calls,omitempty"`
}

// subscription receives the events of the listed maps, or of all maps
// when ids is empty.
type subscription struct {
	ids []string
}

func (s subscription) wants(e Event) bool {
	return len(s.ids) == 0 || slices.Contains(s.ids, e.MapID)
}

// subscriberBuffer is the number of events a subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 16

// EventBus fans map events out to subscribers. Publishing never blocks.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]subscription
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]subscription)}
}

// Publish delivers e to every interested subscriber with buffer room.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, sub := range b.subs {
		if !sub.wants(e) {
			continue
		}
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel of events for the given map ids, or for
// every map when none are given.
func (b *EventBus) Subscribe(mapIDs ...string) chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = subscription{ids: mapIDs}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// Subscribers returns the number of active subscribers.
func (b *EventBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
