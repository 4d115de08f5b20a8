// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Object, an instance of a registered type. An object
// moves through three states: no method selected, method selected but not
// every input bound (unprimed), and primed. Only a primed object runs its
// method when updated; an object without a method passes through an update
// untouched.

package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/registry"
)

// Object is an entity whose state is computed by one of its type's update methods.
type Object struct {
	entity
	typeName   string
	spec       *registry.TypeSpec
	state      any
	methodName string
	method     *registry.MethodSpec
	inputs     *InputBindingTable
}

// NewObject creates an object of the registered type typeName inside parent.
func (m *Model) NewObject(parent Namespace, typeName, name string) (*Object, error) {
	spec, err := m.registry.Type(typeName)
	if err != nil {
		return nil, err
	}
	o := &Object{typeName: typeName, spec: spec, state: spec.New()}
	if err := m.register(parent, o, name); err != nil {
		return nil, err
	}
	return o, nil
}

// Type returns the object's type name.
func (o *Object) Type() string { return o.typeName }

// State returns the type-specific state the update methods operate on.
func (o *Object) State() any { return o.state }

// Method returns the name of the selected update method, or "".
func (o *Object) Method() string { return o.methodName }

// Inputs returns the input slots of the selected method, or nil.
func (o *Object) Inputs() *InputBindingTable { return o.inputs }

// Primed reports whether a method is selected and all its inputs are bound.
func (o *Object) Primed() bool {
	return o.inputs != nil && o.inputs.Primed()
}

// SetMethod selects an update method. The input slots are regenerated from
// the method's parameters, dropping any previous bindings.
func (o *Object) SetMethod(name string) error {
	method, err := o.spec.Method(name)
	if err != nil {
		return err
	}
	params, err := method.Params(o.typeName)
	if err != nil {
		return err
	}

	o.methodName = name
	o.method = method
	o.inputs = newInputBindingTable(params)
	o.publish(event.Event{Kind: event.PropertyChanged, Name: o.name, Detail: "method"})
	return nil
}

// SetInput binds text to the input slot named slot. The expression is parsed
// and its references resolved immediately, so a bad reference fails here. An
// empty text clears the slot. When the binding primes the object, the parent
// namespace is updated and its error returned.
func (o *Object) SetInput(ctx context.Context, slot, text string) error {
	s, err := o.slot(slot)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return o.ClearInput(slot)
	}

	scope := o.Parent()
	if scope == nil {
		return ErrNoParent
	}
	e, err := o.model.compiler.Compile(text, scope)
	if err != nil {
		return &InputError{Object: o.CanonicalName(), Slot: slot, Err: err}
	}
	if _, err := e.Dependencies(); err != nil {
		return &InputError{Object: o.CanonicalName(), Slot: slot, Err: err}
	}

	o.inputs.bind(s, text, e)
	o.publish(event.Event{Kind: event.InputChanged, Name: o.name, Detail: slot})
	return o.propagate(ctx)
}

// ClearInput unbinds the slot named slot, leaving the object unprimed.
func (o *Object) ClearInput(slot string) error {
	s, err := o.slot(slot)
	if err != nil {
		return err
	}
	if !s.Bound() {
		return nil
	}
	o.inputs.unbind(s)
	o.publish(event.Event{Kind: event.InputChanged, Name: o.name, Detail: slot})
	return nil
}

func (o *Object) slot(name string) (*InputSlot, error) {
	if o.inputs == nil {
		return nil, fmt.Errorf("object '%s': %w", o.CanonicalName(), ErrNoMethod)
	}
	s, ok := o.inputs.Slot(name)
	if !ok {
		return nil, &UnknownInputError{Object: o.CanonicalName(), Slot: name}
	}
	return s, nil
}

// propagate asks the parent namespace to update once the object is primed.
func (o *Object) propagate(ctx context.Context) error {
	if !o.Primed() || o.model.Suspended() {
		return nil
	}
	if parent := o.Parent(); parent != nil {
		return parent.Update(ctx)
	}
	return o.Update(ctx)
}

// Dependencies returns the entities the object's bound inputs reference.
func (o *Object) Dependencies() ([]Entity, error) {
	if o.inputs == nil {
		return nil, nil
	}
	deps, err := o.inputs.Dependencies()
	if err != nil {
		var inErr *InputError
		if errors.As(err, &inErr) && inErr.Object == "" {
			inErr.Object = o.CanonicalName()
		}
		return nil, err
	}
	return deps, nil
}

// Update runs the selected method with the current input values. An object
// without a method succeeds without doing anything. An unprimed object fails
// with ErrNotPrimed and is left untouched.
func (o *Object) Update(ctx context.Context) error {
	if o.method == nil {
		return nil
	}
	if !o.inputs.Primed() {
		o.model.recorder.ObjectNotPrimed(o.typeName)
		return fmt.Errorf("object '%s' (unbound: %s): %w",
			o.CanonicalName(), strings.Join(o.inputs.Unbound(), ", "), ErrNotPrimed)
	}

	args, err := o.inputs.resolve(o.CanonicalName())
	if err == nil {
		if err = o.method.Invoke(ctx, o.state, args); err != nil {
			err = fmt.Errorf("object '%s', method '%s': %w", o.CanonicalName(), o.methodName, err)
		}
	}
	o.model.recorder.ObjectUpdated(o.typeName, o.methodName, err)
	if err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Debug("Object updated.", "object", o.CanonicalName(), "method", o.methodName)
	o.publish(event.Event{Kind: event.Updated, Name: o.name})
	return nil
}

// Restore looks the object's type and method up again by name and
// recompiles every bound input. It does not update the object.
func (o *Object) Restore(ctx context.Context) error {
	spec, err := o.model.registry.Type(o.typeName)
	if err != nil {
		return fmt.Errorf("restore '%s': %w", o.CanonicalName(), err)
	}
	o.spec = spec
	if o.methodName == "" {
		return nil
	}

	method, err := spec.Method(o.methodName)
	if err != nil {
		return fmt.Errorf("restore '%s': %w", o.CanonicalName(), err)
	}
	params, err := method.Params(o.typeName)
	if err != nil {
		return fmt.Errorf("restore '%s': %w", o.CanonicalName(), err)
	}

	previous := make(map[string]string)
	if o.inputs != nil {
		for _, s := range o.inputs.slots {
			if s.Bound() {
				previous[s.name] = s.text
			}
		}
	}
	o.method = method
	o.inputs = newInputBindingTable(params)

	scope := o.Parent()
	var errs []error
	for _, s := range o.inputs.slots {
		text, ok := previous[s.name]
		if !ok {
			continue
		}
		e, err := o.model.compiler.Compile(text, scope)
		if err != nil {
			errs = append(errs, &InputError{Object: o.CanonicalName(), Slot: s.name, Err: err})
			continue
		}
		o.inputs.bind(s, text, e)
	}
	ctxlog.FromContext(ctx).Debug("Object restored.", "object", o.CanonicalName(), "method", o.methodName, "bound", len(previous))
	return errors.Join(errs...)
}

// Property returns the current value of a named property.
func (o *Object) Property(name string) (any, error) {
	v, ok := o.lookupProperty(name)
	if !ok {
		return nil, &LookupError{Path: name, Namespace: o.CanonicalName(), Reason: fmt.Sprintf("type '%s' has no property '%s'", o.typeName, name)}
	}
	return v, nil
}

// SetProperty writes a named property and publishes PropertyChanged.
func (o *Object) SetProperty(name string, value any) error {
	p, ok := o.spec.Property(name)
	if !ok {
		return &LookupError{Path: name, Namespace: o.CanonicalName(), Reason: fmt.Sprintf("type '%s' has no property '%s'", o.typeName, name)}
	}
	if p.Set == nil {
		return fmt.Errorf("property '%s' of '%s' is read-only", name, o.CanonicalName())
	}
	if err := p.Set(o.state, value); err != nil {
		return fmt.Errorf("property '%s' of '%s': %w", name, o.CanonicalName(), err)
	}
	o.publish(event.Event{Kind: event.PropertyChanged, Name: o.name, Detail: name})
	return nil
}

// Properties lists the property names of the object's type.
func (o *Object) Properties() []string {
	return o.spec.PropertyNames()
}

func (o *Object) lookupProperty(name string) (any, bool) {
	p, ok := o.spec.Property(name)
	if !ok {
		return nil, false
	}
	return p.Get(o.state), true
}
