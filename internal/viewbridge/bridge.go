// Package viewbridge forwards model change events to a remote view.
package viewbridge

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/model"
)

// DefaultEventName is the name messages are emitted under.
const DefaultEventName = "model_event"

// Emitter delivers named payloads to a view.
type Emitter interface {
	Emit(name string, payload any) error
	Close() error
}

// Message is the payload emitted for one change.
type Message struct {
	Kind     string `json:"kind"`
	Entity   string `json:"entity"`
	Name     string `json:"name"`
	Previous string `json:"previous,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Bridge listens on the root namespace, where every change in the model
// arrives exactly once, and emits a Message for each event whose kind is
// selected.
type Bridge struct {
	model     *model.Model
	emitter   Emitter
	kinds     event.Set
	eventName string

	mu      sync.Mutex
	logger  *slog.Logger
	sub     event.Subscription
	running bool

	sent   atomic.Int64
	failed atomic.Int64
}

// New creates a bridge. An empty kinds set selects every kind.
func New(m *model.Model, e Emitter, kinds event.Set) *Bridge {
	return &Bridge{model: m, emitter: e, kinds: kinds, eventName: DefaultEventName}
}

// Start subscribes to the model. Calling Start twice has no effect.
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}
	b.logger = ctxlog.FromContext(ctx).With("component", "viewbridge")
	b.sub = b.model.Subscribe(b.model.Root(), b.handle)
	b.running = true
	b.logger.Debug("View bridge started.", "kinds", b.kinds.String())
}

// Stop unsubscribes and closes the emitter.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return nil
	}
	b.model.Unsubscribe(b.sub)
	b.running = false
	b.logger.Debug("View bridge stopped.", "sent", b.sent.Load(), "failed", b.failed.Load())
	return b.emitter.Close()
}

// Sent reports how many messages were emitted successfully.
func (b *Bridge) Sent() int64 { return b.sent.Load() }

// Failed reports how many emits returned an error.
func (b *Bridge) Failed() int64 { return b.failed.Load() }

func (b *Bridge) handle(ev event.Event) {
	if !b.kinds.Has(ev.Kind) {
		return
	}
	msg := b.message(ev)
	if err := b.emitter.Emit(b.eventName, msg); err != nil {
		b.failed.Add(1)
		b.logger.Warn("Failed to emit view event.", "kind", msg.Kind, "entity", msg.Entity, "error", err)
		return
	}
	b.sent.Add(1)
}

func (b *Bridge) message(ev event.Event) Message {
	msg := Message{
		Kind:     ev.Kind.String(),
		Name:     ev.Name,
		Previous: ev.Previous,
		Detail:   ev.Detail,
	}
	if h, ok := ev.Origin.(model.Handle); ok {
		if e, found := b.model.Entity(h); found {
			msg.Entity = e.CanonicalName()
		}
	}
	// Deleted entities are gone by the time the event arrives.
	if msg.Entity == "" {
		msg.Entity = ev.Name
	}
	return msg
}
