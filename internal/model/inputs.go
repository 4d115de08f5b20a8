// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the InputBindingTable: the per-object list of input
// slots generated from the selected update method. Each slot keeps the
// user's expression text, the compiled expression and the value it last
// resolved to.

package model

import (
	"fmt"

	"github.com/specialistvlad/paragrid/internal/expr"
	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// InputSlot is one named, typed parameter of the selected update method.
type InputSlot struct {
	name       string
	typ        cty.Type
	text       string
	expression *expr.Expression
	cached     cty.Value
	hasCache   bool
}

// Name returns the parameter name.
func (s *InputSlot) Name() string { return s.name }

// Type returns the type the slot's value is converted to.
func (s *InputSlot) Type() cty.Type { return s.typ }

// Expression returns the bound expression text, or "" when unbound.
func (s *InputSlot) Expression() string { return s.text }

// Bound reports whether the slot has an expression.
func (s *InputSlot) Bound() bool { return s.expression != nil }

// Cached returns the value the slot resolved to in the current update pass.
func (s *InputSlot) Cached() (cty.Value, bool) { return s.cached, s.hasCache }

// InputBindingTable holds the input slots of one object, in the order the
// method declares its parameters.
type InputBindingTable struct {
	params []registry.Param
	slots  []*InputSlot
	index  map[string]int
}

func newInputBindingTable(params []registry.Param) *InputBindingTable {
	t := &InputBindingTable{
		params: params,
		slots:  make([]*InputSlot, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for i, p := range params {
		t.slots[i] = &InputSlot{name: p.Name, typ: p.Type}
		t.index[p.Name] = i
	}
	return t
}

// Len reports the number of slots.
func (t *InputBindingTable) Len() int { return len(t.slots) }

// Slots returns the slots in declaration order.
func (t *InputBindingTable) Slots() []*InputSlot {
	return append([]*InputSlot(nil), t.slots...)
}

// Slot returns the slot named name.
func (t *InputBindingTable) Slot(name string) (*InputSlot, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.slots[i], true
}

// Primed reports whether every slot has an expression.
func (t *InputBindingTable) Primed() bool {
	for _, s := range t.slots {
		if !s.Bound() {
			return false
		}
	}
	return true
}

// Unbound lists the names of slots without an expression.
func (t *InputBindingTable) Unbound() []string {
	var out []string
	for _, s := range t.slots {
		if !s.Bound() {
			out = append(out, s.name)
		}
	}
	return out
}

// Dependencies returns the entities referenced by all bound slots,
// de-duplicated, in slot order.
func (t *InputBindingTable) Dependencies() ([]Entity, error) {
	var out []Entity
	seen := make(map[Handle]struct{})
	for _, s := range t.slots {
		if !s.Bound() {
			continue
		}
		targets, err := s.expression.Dependencies()
		if err != nil {
			return nil, &InputError{Slot: s.name, Err: err}
		}
		for _, target := range targets {
			e, ok := target.(Entity)
			if !ok {
				continue
			}
			if _, dup := seen[e.Handle()]; !dup {
				seen[e.Handle()] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (t *InputBindingTable) bind(s *InputSlot, text string, e *expr.Expression) {
	s.text = text
	s.expression = e
	s.cached, s.hasCache = cty.NilVal, false
}

func (t *InputBindingTable) unbind(s *InputSlot) {
	t.bind(s, "", nil)
}

func (t *InputBindingTable) clearCache() {
	for _, s := range t.slots {
		s.cached, s.hasCache = cty.NilVal, false
	}
}

// resolve solves every slot, converts the result to the slot's type and
// caches it.
func (t *InputBindingTable) resolve(object string) (registry.Args, error) {
	values := make([]cty.Value, len(t.slots))
	for i, s := range t.slots {
		if !s.Bound() {
			return registry.Args{}, &InputError{Object: object, Slot: s.name, Err: ErrNotPrimed}
		}
		raw, err := s.expression.Solve()
		if err != nil {
			return registry.Args{}, &InputError{Object: object, Slot: s.name, Err: err}
		}
		v, err := toSlotValue(raw, s.typ)
		if err != nil {
			return registry.Args{}, &InputError{Object: object, Slot: s.name, Err: err}
		}
		s.cached, s.hasCache = v, true
		values[i] = v
	}
	return registry.NewArgs(t.params, values)
}

func toSlotValue(v any, want cty.Type) (cty.Value, error) {
	if e, ok := v.(Entity); ok {
		if !want.Equals(registry.RefType) && !want.Equals(cty.DynamicPseudoType) {
			return cty.NilVal, fmt.Errorf("expected %s, got entity '%s'", want.FriendlyName(), e.CanonicalName())
		}
		return registry.Encapsulate(e), nil
	}
	if want.Equals(registry.RefType) {
		return cty.NilVal, fmt.Errorf("expected an entity reference, got %T", v)
	}
	return registry.ToValue(v, want)
}
