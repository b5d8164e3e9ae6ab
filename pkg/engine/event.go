package engine

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// EventKind identifies the type of engine event.
type EventKind string

const (
	EventEditorOpened  EventKind = "editor_opened"
	EventEditorClosed  EventKind = "editor_closed"
	EventCatalogLoaded EventKind = "catalog_loaded"
	EventActionStart   EventKind = "action_start"
	EventActionEnd     EventKind = "action_end"
	EventNavigate      EventKind = "navigate"
	EventError         EventKind = "error"
)

// Event is an immutable notification of editor activity. Data carries the
// editor.Action for action events, the error for EventError and the catalog
// for EventCatalogLoaded.
type Event struct {
	Kind      EventKind
	SessionID string
	Route     string
	Timestamp time.Time
	Data      any
}

// Filter narrows a subscription. Zero fields match everything.
type Filter struct {
	SessionID string
	Kinds     []EventKind
}

func (f Filter) match(e Event) bool {
	if f.SessionID != "" && f.SessionID != e.SessionID {
		return false
	}
	return len(f.Kinds) == 0 || slices.Contains(f.Kinds, e.Kind)
}

// Subscription receives the events matching its filter.
type Subscription struct {
	C <-chan Event

	ch      chan Event
	filter  Filter
	dropped atomic.Uint64
}

// Dropped counts events the subscription missed because its buffer was full.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// EventBus fans events out to subscribers. It is safe for concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs []*Subscription
}

// NewEventBus creates an EventBus ready for use.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe receives every event, buffering up to bufSize of them.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	return b.SubscribeFilter(bufSize, Filter{})
}

// SubscribeFilter receives the events matching f. Read from sub.C and call
// Unsubscribe when done.
func (b *EventBus) SubscribeFilter(bufSize int, f Filter) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch, filter: f}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes sub and closes its channel. Repeated calls are no-ops.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.Index(b.subs, sub)
	if i < 0 {
		return
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	close(sub.ch)
}

// Publish delivers e to every matching subscriber without blocking. A full
// buffer drops the event for that subscriber only, so a slow view never
// stalls an editor action.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !sub.filter.match(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			sub.dropped.Add(1)
		}
	}
}
