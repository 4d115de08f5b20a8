// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the behaviour shared by every namespace kind: member
// registration and removal, reaction to member events, and dotted-path
// lookup.

package model

import (
	"fmt"

	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/expr"
	"github.com/specialistvlad/paragrid/internal/refpath"
)

// Kind distinguishes the namespace kinds.
type Kind int

const (
	KindRoot Kind = iota
	KindScenario
	KindAssembly
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindScenario:
		return "scenario"
	case KindAssembly:
		return "assembly"
	}
	return "unknown"
}

// Namespace is an entity that owns named members.
type Namespace interface {
	Entity
	expr.Scope

	Kind() Kind
	// Lookup resolves a dotted path such as "P1", "P1.X" or "A.P1.X".
	Lookup(path string) (any, error)
	// Elements returns the owned members in insertion order.
	Elements() []Entity
	// Element returns the member visible under name.
	Element(name string) (Entity, bool)
	// ElementsInTopologicalOrder orders the owned members so that each one
	// follows every member it depends on.
	ElementsInTopologicalOrder() ([]Entity, error)
	// Dependencies returns the entities outside this namespace that its
	// members depend on.
	Dependencies() ([]Entity, error)
	Remove(e Entity) error
	// Parents returns the chain of namespaces from the root down to and
	// including this one.
	Parents() []Namespace

	core() *namespace
}

// propertyHolder is implemented by entities with named properties.
type propertyHolder interface {
	lookupProperty(name string) (any, bool)
}

type namespace struct {
	entity
	self     Namespace
	kind     Kind
	owned    *memberSet
	external *memberSet
}

func newNamespace(m *Model, self Namespace, kind Kind) *namespace {
	n := &namespace{self: self, kind: kind, owned: newMemberSet()}
	n.model = m
	if kind == KindScenario {
		n.external = newMemberSet()
	}
	return n
}

func (n *namespace) core() *namespace { return n }

// Kind returns the namespace kind.
func (n *namespace) Kind() Kind { return n.kind }

func (n *namespace) Elements() []Entity {
	return n.entities(n.owned)
}

func (n *namespace) Element(name string) (Entity, bool) {
	return n.local(name)
}

func (n *namespace) Parents() []Namespace {
	var chain []Namespace
	for cur := n.self; cur != nil; cur = cur.Parent() {
		chain = append([]Namespace{cur}, chain...)
	}
	return chain
}

func (n *namespace) Remove(e Entity) error {
	h := e.Handle()
	if n.external != nil && n.external.has(h) {
		return ErrExternalMember
	}
	if !n.owned.has(h) {
		return &LookupError{Path: e.Name(), Namespace: n.CanonicalName(), Reason: "not a member"}
	}

	name := e.Name()
	n.detach(e)
	n.model.release(e)
	n.publishAbout(h, event.Event{Kind: event.ElementDeleted, Name: name})
	return nil
}

// local resolves name against the namespace's own members. Owned members
// take precedence over external ones.
func (n *namespace) local(name string) (Entity, bool) {
	if h, ok := n.owned.get(name); ok {
		return n.model.lookupHandle(h), true
	}
	if n.external != nil {
		if h, ok := n.external.get(name); ok {
			return n.model.lookupHandle(h), true
		}
	}
	return nil, false
}

func (n *namespace) checkName(name string) error {
	_, owned := n.owned.get(name)
	external := false
	if n.external != nil {
		_, external = n.external.get(name)
	}
	if owned || external {
		return &DuplicateNameError{Namespace: n.CanonicalName(), Name: name}
	}
	return nil
}

// attach registers e as an owned member and starts listening to it.
func (n *namespace) attach(e Entity) {
	sub := n.model.bus.Subscribe(e.Handle(), n.onMemberEvent)
	n.owned.add(e.Name(), e.Handle(), sub)
	n.publishAbout(e.Handle(), event.Event{Kind: event.ElementAdded, Name: e.Name()})
}

// detach drops e from the owned members without releasing it.
func (n *namespace) detach(e Entity) {
	if sub, ok := n.owned.remove(e.Handle()); ok {
		n.model.bus.Unsubscribe(sub)
	}
}

func (n *namespace) onMemberEvent(ev event.Event) {
	origin, _ := ev.Origin.(Handle)
	direct := n.owned.has(origin)

	switch {
	case direct && ev.Kind == event.ElementDeleteRequested:
		// Remove only fails for entities that are not owned members, and
		// origin was just checked to be one.
		if e := n.model.lookupHandle(origin); e != nil {
			_ = n.Remove(e)
		}
		return
	case direct && ev.Kind == event.NameChanged:
		n.owned.rename(origin, ev.Name)
	}

	ev.Source = n.handle
	n.model.bus.Publish(ev)
}

// publishAbout sends ev on the namespace's topic with origin as the entity
// the event concerns.
func (n *namespace) publishAbout(origin Handle, ev event.Event) {
	ev.Source = n.handle
	ev.Origin = origin
	n.model.bus.Publish(ev)
}

func (n *namespace) entities(set *memberSet) []Entity {
	out := make([]Entity, 0, set.len())
	for _, h := range set.handles() {
		if e := n.model.lookupHandle(h); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (n *namespace) Lookup(path string) (any, error) {
	p, err := refpath.Parse(path)
	if err != nil {
		return nil, &LookupError{Path: path, Namespace: n.CanonicalName(), Reason: "malformed path", Err: err}
	}
	res, err := n.Resolve(p)
	if err != nil {
		return nil, err
	}
	if res.Value == nil {
		return nil, n.lookupErr(p, "value is empty")
	}
	return res.Value, nil
}

// Resolve implements expr.Scope. A first segment that is not a local member
// is looked up in the enclosing namespaces, so inner names shadow outer ones.
func (n *namespace) Resolve(p *refpath.Path) (expr.Resolution, error) {
	return n.resolve(p, true)
}

func (n *namespace) resolve(p *refpath.Path, fallback bool) (expr.Resolution, error) {
	head := p.Head()
	ent, ok := n.local(head.Name)
	if !ok || ent == nil {
		if fallback {
			if parent := n.Parent(); parent != nil {
				return parent.core().resolve(p, true)
			}
		}
		return expr.Resolution{}, n.lookupErr(p, fmt.Sprintf("no member named '%s'", head.Name))
	}
	if head.HasIndex() {
		return expr.Resolution{}, n.lookupErr(p, fmt.Sprintf("'%s' is an entity and cannot be indexed", head.Name))
	}

	switch p.Len() {
	case 1:
		return expr.Resolution{Value: ent, Target: ent}, nil
	case 2:
		seg := p.Segments[1]
		if holder, ok := ent.(propertyHolder); ok {
			if v, found := holder.lookupProperty(seg.Name); found {
				if seg.HasIndex() {
					var err error
					if v, err = indexValue(v, seg.Index); err != nil {
						return expr.Resolution{}, &LookupError{Path: p.String(), Namespace: n.CanonicalName(), Reason: "bad index", Err: err}
					}
				}
				// A property without a value still names its owner, so
				// dependencies can be collected before the owner has run.
				return expr.Resolution{Value: v, Target: ent}, nil
			}
		}
		if ns, ok := ent.(Namespace); ok {
			return ns.core().resolve(p.Tail(), false)
		}
		return expr.Resolution{}, n.lookupErr(p, fmt.Sprintf("'%s' has no property '%s'", head.Name, seg.Name))
	default:
		ns, ok := ent.(Namespace)
		if !ok {
			return expr.Resolution{}, n.lookupErr(p, fmt.Sprintf("'%s' is not a namespace", head.Name))
		}
		return ns.core().resolve(p.Tail(), false)
	}
}

func (n *namespace) lookupErr(p *refpath.Path, reason string) error {
	return &LookupError{Path: p.String(), Namespace: n.CanonicalName(), Reason: reason}
}

func indexValue(v any, i int) (any, error) {
	switch s := v.(type) {
	case []float64:
		return at(s, i)
	case []int64:
		return at(s, i)
	case []string:
		return at(s, i)
	case []Entity:
		return at(s, i)
	case []any:
		return at(s, i)
	}
	return nil, fmt.Errorf("%T is not indexable", v)
}

func at[T any](s []T, i int) (any, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("index %d out of range [0:%d]", i, len(s))
	}
	return s[i], nil
}
