package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{
		Kind:      EventActionStart,
		SessionID: "editor-1",
		Route:     "/settings/providers/42",
		Timestamp: time.Now(),
	})

	select {
	case got := <-sub.C:
		assert.Equal(t, EventActionStart, got.Kind)
		assert.Equal(t, "editor-1", got.SessionID)
		assert.Equal(t, "/settings/providers/42", got.Route)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_FanOut(t *testing.T) {
	bus := NewEventBus()
	sub1 := bus.Subscribe(4)
	sub2 := bus.Subscribe(4)
	defer bus.Unsubscribe(sub1)
	defer bus.Unsubscribe(sub2)

	bus.Publish(Event{Kind: EventCatalogLoaded})

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case <-sub.C:
		case <-time.After(time.Second):
			t.Fatalf("sub%d did not receive event", i+1)
		}
	}
}

func TestEventBus_NonBlockingDrop(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(1)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: EventActionStart})
	bus.Publish(Event{Kind: EventActionEnd})

	got := <-sub.C
	assert.Equal(t, EventActionStart, got.Kind)

	select {
	case <-sub.C:
		t.Fatal("expected channel to be empty after drop")
	default:
	}
	assert.Equal(t, uint64(1), sub.Dropped())
}

func TestEventBus_Filter(t *testing.T) {
	bus := NewEventBus()
	sub := bus.SubscribeFilter(8, Filter{SessionID: "editor-2", Kinds: []EventKind{EventActionStart, EventError}})
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: EventActionStart, SessionID: "editor-1"})
	bus.Publish(Event{Kind: EventActionEnd, SessionID: "editor-2"})
	bus.Publish(Event{Kind: EventError, SessionID: "editor-2", Route: "/settings/providers/new"})

	got := <-sub.C
	assert.Equal(t, EventError, got.Kind)
	assert.Equal(t, "/settings/providers/new", got.Route)

	select {
	case e := <-sub.C:
		t.Fatalf("unexpected event %v", e.Kind)
	default:
	}
	assert.Zero(t, sub.Dropped())
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(4)

	bus.Unsubscribe(sub)

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// Double unsubscribe should not panic.
	bus.Unsubscribe(sub)
}

func TestEventBus_PublishNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(Event{Kind: EventError})
}
