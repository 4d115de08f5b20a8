// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the behaviour every entity shares: naming, its place in
// the namespace tree, change notification and the small set of accessors a
// view uses to present it.

package model

import (
	"context"

	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/refpath"
)

// Entity is anything that can be a member of a namespace.
type Entity interface {
	Handle() Handle
	Name() string
	// CanonicalName is the dotted path from the root to the entity. The root
	// itself contributes nothing.
	CanonicalName() string
	// Parent returns the owning namespace, or nil for the root.
	Parent() Namespace
	// SetName renames the entity. It fails if the name is invalid or taken in
	// the parent namespace.
	SetName(name string) error
	// Delete asks the parent namespace to remove the entity. The removal
	// itself happens in the parent when it receives the request.
	Delete() error

	Update(ctx context.Context) error
	Restore(ctx context.Context) error

	Icon() string
	SetIcon(icon string)
	Thumbnail() []byte
	SetThumbnail(data []byte)
	Visible() bool
	SetVisible(visible bool)

	base() *entity
}

// entity holds the fields every Entity embeds.
type entity struct {
	model     *Model
	handle    Handle
	parent    Handle
	name      string
	icon      string
	thumbnail []byte
	visible   bool
}

func (e *entity) base() *entity { return e }

// Handle returns the entity's handle in its model.
func (e *entity) Handle() Handle { return e.handle }

// Name returns the entity's name within its parent.
func (e *entity) Name() string { return e.name }

// Model returns the model that owns the entity.
func (e *entity) Model() *Model { return e.model }

func (e *entity) Parent() Namespace {
	p := e.model.lookupHandle(e.parent)
	if p == nil {
		return nil
	}
	ns, _ := p.(Namespace)
	return ns
}

func (e *entity) CanonicalName() string {
	parent := e.Parent()
	if parent == nil {
		return e.name
	}
	if prefix := parent.CanonicalName(); prefix != "" {
		return prefix + "." + e.name
	}
	return e.name
}

func (e *entity) SetName(name string) error {
	if name == e.name {
		return nil
	}
	if !refpath.ValidName(name) {
		return &InvalidNameError{Name: name}
	}
	parent := e.Parent()
	if parent == nil {
		return ErrNoParent
	}
	if err := parent.core().checkName(name); err != nil {
		return err
	}
	for _, s := range e.model.scenariosListing(e.handle) {
		if err := s.checkName(name); err != nil {
			return err
		}
	}

	old := e.name
	e.name = name
	e.publish(event.Event{Kind: event.NameChanged, Name: name, Previous: old})
	return nil
}

func (e *entity) Delete() error {
	if e.parent == 0 {
		return ErrNoParent
	}
	e.publish(event.Event{Kind: event.ElementDeleteRequested, Name: e.name})
	return nil
}

func (e *entity) Icon() string { return e.icon }

func (e *entity) SetIcon(icon string) {
	if icon == e.icon {
		return
	}
	e.icon = icon
	e.publish(event.Event{Kind: event.IconChanged, Name: e.name})
}

func (e *entity) Thumbnail() []byte { return e.thumbnail }

func (e *entity) SetThumbnail(data []byte) {
	e.thumbnail = append([]byte(nil), data...)
	e.publish(event.Event{Kind: event.ThumbnailChanged, Name: e.name})
}

func (e *entity) Visible() bool { return e.visible }

func (e *entity) SetVisible(visible bool) {
	if visible == e.visible {
		return
	}
	e.visible = visible
	e.publish(event.Event{Kind: event.PropertyChanged, Name: e.name, Detail: "visible"})
}

// publish sends ev on the entity's own topic.
func (e *entity) publish(ev event.Event) {
	ev.Source = e.handle
	ev.Origin = e.handle
	e.model.bus.Publish(ev)
}
