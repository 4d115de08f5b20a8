package testutil

import (
	"sync"

	"github.com/specialistvlad/paragrid/internal/event"
)

// EventLog collects delivered events.
type EventLog struct {
	mu     sync.Mutex
	events []event.Event
}

// Handle implements event.Handler.
func (l *EventLog) Handle(ev event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Events returns a copy of everything collected.
func (l *EventLog) Events() []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.Event(nil), l.events...)
}

// Kinds returns the kinds of the collected events in delivery order.
func (l *EventLog) Kinds() []event.Kind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]event.Kind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

// OfKind returns the collected events of kind k.
func (l *EventLog) OfKind(k event.Kind) []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []event.Event
	for _, ev := range l.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops everything collected.
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
