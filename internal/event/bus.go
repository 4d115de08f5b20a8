package event

import "sync"

// Handler receives delivered events.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	id    uint64
	topic any
	all   bool
}

type subscriber struct {
	id      uint64
	handler Handler
	active  bool
}

// Bus is a queued, iteration-safe event dispatcher.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	topics   map[any][]*subscriber
	wildcard []*subscriber
	queue    []Event
	draining bool
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[any][]*subscriber)}
}

// Subscribe registers h for events published on topic.
func (b *Bus) Subscribe(topic any, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := &subscriber{id: b.nextID, handler: h, active: true}
	b.topics[topic] = append(b.topics[topic], s)
	return Subscription{id: s.id, topic: topic}
}

// SubscribeAll registers h for every event on every topic.
func (b *Bus) SubscribeAll(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := &subscriber{id: b.nextID, handler: h, active: true}
	b.wildcard = append(b.wildcard, s)
	return Subscription{id: s.id, all: true}
}

// Unsubscribe removes a single handler. Events already queued are not
// delivered to it.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.all {
		b.wildcard = remove(b.wildcard, sub.id)
		return
	}
	b.topics[sub.topic] = remove(b.topics[sub.topic], sub.id)
	if len(b.topics[sub.topic]) == 0 {
		delete(b.topics, sub.topic)
	}
}

// Subscribers reports how many handlers listen on topic.
func (b *Bus) Subscribers(topic any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

// Publish queues e and, unless a delivery is already in progress, drains the
// queue. Every queued event has been delivered when the outermost call returns.
func (b *Bus) Publish(e Event) {
	if e.Origin == nil {
		e.Origin = e.Source
	}

	b.mu.Lock()
	b.queue = append(b.queue, e)
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	b.mu.Unlock()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		targets := make([]*subscriber, 0, len(b.topics[next.Source])+len(b.wildcard))
		targets = append(targets, b.topics[next.Source]...)
		targets = append(targets, b.wildcard...)
		b.mu.Unlock()

		for _, s := range targets {
			if b.isActive(s) {
				s.handler(next)
			}
		}
	}
}

func (b *Bus) isActive(s *subscriber) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return s.active
}

func remove(subs []*subscriber, id uint64) []*subscriber {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id == id {
			s.active = false
			continue
		}
		out = append(out, s)
	}
	return out
}
