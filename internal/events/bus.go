package events

import (
	"encoding/json"
	"sync"
)

// Event types published by a booking form
const (
	EventServiceChanged = "service.changed"
	EventFormSubmitted  = "form.submitted"
	EventFormReset      = "form.reset"

	// Wildcard subscribes to every event type
	Wildcard = "*"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
const subscriberBuffer = 64

// Event is one form notification
type Event struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ServiceChanged reports a user change of a control
func ServiceChanged(session string, id int, checked bool) Event {
	return Event{
		Type:    EventServiceChanged,
		Session: session,
		Payload: map[string]any{"id": id, "checked": checked},
	}
}

// FormSubmitted reports a submission. valid is false when the input was
// rejected and no quote was produced.
func FormSubmitted(session string, valid bool, total int) Event {
	return Event{
		Type:    EventFormSubmitted,
		Session: session,
		Payload: map[string]any{"valid": valid, "total": total},
	}
}

// FormReset reports a reset of the form
func FormReset(session string) Event {
	return Event{Type: EventFormReset, Session: session}
}

// Subscriber is a channel that receives events
type Subscriber chan Event

// Bus fans events out to subscribers without blocking the publisher
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Subscriber
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string][]Subscriber),
	}
}

// Subscribe registers a subscriber for eventType (or Wildcard).
// Returns the channel and a function that unsubscribes and closes it.
func (b *Bus) Subscribe(eventType string) (Subscriber, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(Subscriber, subscriberBuffer)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.subscribers[eventType]
			for i, sub := range subs {
				if sub == ch {
					b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
					close(ch)
					break
				}
			}
		})
	}

	return ch, unsubscribe
}

// Publish delivers event to subscribers of its type and to wildcard
// subscribers. A full subscriber misses the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	deliver := func(subs []Subscriber) {
		for _, ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}

	deliver(b.subscribers[event.Type])
	if event.Type != Wildcard {
		deliver(b.subscribers[Wildcard])
	}
}

// MarshalEvent converts an event to JSON
func MarshalEvent(event Event) ([]byte, error) {
	return json.Marshal(event)
}
