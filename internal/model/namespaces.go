// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the concrete namespace kinds and their constructors.

package model

import (
	"fmt"

	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/refpath"
)

// Root is the top of the namespace tree. It has no name and no parent.
type Root struct {
	*namespace
}

// Assembly is a plain nested namespace.
type Assembly struct {
	*namespace
}

// Scenario is a namespace that, besides the members it owns, can list
// external members: entities owned elsewhere that are made visible to the
// scenario's expressions. External members are read-only here and can only
// be removed with RemoveExternal. A name is unique across both sets; if an
// external member is renamed onto an owned name, the owned member wins.
type Scenario struct {
	*namespace
}

// NewAssembly creates an Assembly named name inside parent.
func (m *Model) NewAssembly(parent Namespace, name string) (*Assembly, error) {
	a := &Assembly{}
	a.namespace = newNamespace(m, a, KindAssembly)
	if err := m.register(parent, a, name); err != nil {
		return nil, err
	}
	return a, nil
}

// NewScenario creates a Scenario named name inside parent.
func (m *Model) NewScenario(parent Namespace, name string) (*Scenario, error) {
	s := &Scenario{}
	s.namespace = newNamespace(m, s, KindScenario)
	if err := m.register(parent, s, name); err != nil {
		return nil, err
	}
	return s, nil
}

// register validates name, assigns e a handle and makes it an owned member
// of parent.
func (m *Model) register(parent Namespace, e Entity, name string) error {
	if parent == nil {
		return ErrNoParent
	}
	if parent.base().model != m {
		return fmt.Errorf("namespace '%s' belongs to a different model", displayName(parent.CanonicalName()))
	}
	if !refpath.ValidName(name) {
		return &InvalidNameError{Name: name}
	}
	if err := parent.core().checkName(name); err != nil {
		return err
	}
	m.adopt(e, parent.Handle(), name)
	parent.core().attach(e)
	return nil
}

// AddExternal makes e visible inside the scenario without taking ownership.
func (s *Scenario) AddExternal(e Entity) error {
	if e.base().model != s.model {
		return fmt.Errorf("entity '%s' belongs to a different model", e.CanonicalName())
	}
	if e.Parent() == nil {
		return fmt.Errorf("the root namespace cannot be an external member")
	}
	if e.base().parent == s.handle {
		return fmt.Errorf("'%s' is already owned by scenario '%s'", e.Name(), s.CanonicalName())
	}
	if err := s.checkName(e.Name()); err != nil {
		return err
	}

	sub := s.model.bus.Subscribe(e.Handle(), s.onExternalEvent)
	s.external.add(e.Name(), e.Handle(), sub)
	s.publishAbout(e.Handle(), event.Event{Kind: event.ElementAdded, Name: e.Name(), Detail: "external"})
	return nil
}

// RemoveExternal stops listing e as an external member.
func (s *Scenario) RemoveExternal(e Entity) error {
	sub, ok := s.external.remove(e.Handle())
	if !ok {
		return &LookupError{Path: e.Name(), Namespace: s.CanonicalName(), Reason: "not an external member"}
	}
	s.model.bus.Unsubscribe(sub)
	s.publishAbout(e.Handle(), event.Event{Kind: event.ElementDeleted, Name: e.Name(), Detail: "external"})
	return nil
}

// Externals returns the external members in the order they were added.
func (s *Scenario) Externals() []Entity {
	return s.entities(s.external)
}

// IsExternal reports whether e is listed as an external member.
func (s *Scenario) IsExternal(e Entity) bool {
	return s.external.has(e.Handle())
}

// onExternalEvent keeps the external map keyed by the entity's current name.
// Other events from external members are left to their owning namespace.
func (s *Scenario) onExternalEvent(ev event.Event) {
	if ev.Kind != event.NameChanged || ev.Origin != ev.Source {
		return
	}
	if h, ok := ev.Origin.(Handle); ok && s.external.has(h) {
		s.external.rename(h, ev.Name)
	}
}

func (s *Scenario) forgetExternal(h Handle) {
	if sub, ok := s.external.remove(h); ok {
		s.model.bus.Unsubscribe(sub)
	}
}
