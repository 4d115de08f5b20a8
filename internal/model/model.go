// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Model, the arena that owns every entity of a
// parametric model, together with the services entities share: the type
// registry, the expression compiler and the event bus.

package model

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/expr"
	"github.com/specialistvlad/paragrid/internal/registry"
)

// Handle identifies an entity within its Model. The zero Handle is never
// assigned and stands for "no entity".
type Handle uint64

// Model owns a tree of entities rooted at a single Root namespace.
type Model struct {
	mu       sync.Mutex
	registry *registry.Registry
	compiler *expr.Compiler
	bus      *event.Bus
	recorder Recorder

	entities map[Handle]Entity
	next     Handle
	root     *Root

	suspended int
}

// Option configures a Model.
type Option func(*Model)

// WithCompiler makes the model parse expressions through c.
func WithCompiler(c *expr.Compiler) Option {
	return func(m *Model) { m.compiler = c }
}

// WithRecorder reports update activity to r.
func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithBus publishes the model's events on b.
func WithBus(b *event.Bus) Option {
	return func(m *Model) { m.bus = b }
}

// New creates a Model with an empty root namespace.
func New(reg *registry.Registry, opts ...Option) (*Model, error) {
	if reg == nil {
		return nil, fmt.Errorf("model: registry is required")
	}
	m := &Model{
		registry: reg,
		entities: make(map[Handle]Entity),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}
	if m.compiler == nil {
		c, err := expr.NewCompiler(expr.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("model: creating expression compiler: %w", err)
		}
		m.compiler = c
	}

	root := &Root{}
	root.namespace = newNamespace(m, root, KindRoot)
	m.adopt(root, 0, "")
	m.root = root
	return m, nil
}

// Root returns the root namespace.
func (m *Model) Root() *Root { return m.root }

// Registry returns the type registry objects are created from.
func (m *Model) Registry() *registry.Registry { return m.registry }

// Bus returns the event bus all entities publish on.
func (m *Model) Bus() *event.Bus { return m.bus }

// Entity returns the entity behind h.
func (m *Model) Entity(h Handle) (Entity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[h]
	return e, ok
}

// Len reports how many entities the model holds, the root included.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entities)
}

// Lookup resolves a dotted path from the root namespace.
func (m *Model) Lookup(path string) (any, error) {
	return m.root.Lookup(path)
}

// Subscribe registers h for events published by e, including the events a
// namespace forwards from its members.
func (m *Model) Subscribe(e Entity, h event.Handler) event.Subscription {
	return m.bus.Subscribe(e.Handle(), h)
}

// SubscribeAll registers h for every event in the model.
func (m *Model) SubscribeAll(h event.Handler) event.Subscription {
	return m.bus.SubscribeAll(h)
}

// Unsubscribe removes a subscription made through Subscribe or SubscribeAll.
func (m *Model) Unsubscribe(s event.Subscription) {
	m.bus.Unsubscribe(s)
}

// Suspend runs fn with automatic update propagation turned off. Inputs set
// inside fn are bound and checked but do not trigger parent updates, so a
// loader can bind a whole tree and then update it once.
func (m *Model) Suspend(fn func() error) error {
	m.mu.Lock()
	m.suspended++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.suspended--
		m.mu.Unlock()
	}()
	return fn()
}

// Suspended reports whether update propagation is currently turned off.
func (m *Model) Suspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspended > 0
}

// adopt assigns a handle to e and stores it in the arena.
func (m *Model) adopt(e Entity, parent Handle, name string) {
	m.mu.Lock()
	m.next++
	h := m.next
	m.entities[h] = e
	m.mu.Unlock()

	b := e.base()
	b.model = m
	b.handle = h
	b.parent = parent
	b.name = name
	b.visible = true
}

// release drops e and, for namespaces, everything below it from the arena.
// Scenarios that list a released entity as external forget it.
func (m *Model) release(e Entity) {
	if ns, ok := e.(Namespace); ok {
		for _, child := range ns.Elements() {
			ns.core().detach(child)
			m.release(child)
		}
	}
	if s, ok := e.(*Scenario); ok {
		for _, h := range s.external.handles() {
			s.forgetExternal(h)
		}
	}

	for _, s := range m.scenariosListing(e.Handle()) {
		s.forgetExternal(e.Handle())
	}

	m.mu.Lock()
	delete(m.entities, e.Handle())
	m.mu.Unlock()
}

// scenariosListing returns the scenarios that list h as an external member.
func (m *Model) scenariosListing(h Handle) []*Scenario {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Scenario
	for _, e := range m.entities {
		if s, ok := e.(*Scenario); ok && s.external.has(h) {
			out = append(out, s)
		}
	}
	return out
}

func (m *Model) lookupHandle(h Handle) Entity {
	if h == 0 {
		return nil
	}
	e, _ := m.Entity(h)
	return e
}
