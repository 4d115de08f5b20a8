// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file derives update order from the dependencies objects report. The
// graph covers every object below the namespace being ordered, so nested
// namespaces never merge the dependencies of their members into one node.
// It is rebuilt on every call and never stored.

package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/paragrid/internal/dag"
)

// plan orders every entity below n so that each one follows everything it
// depends on inside the subtree. A nested namespace depends on its own
// members, so its position marks the point where all of its content is
// done. Dependencies that leave the subtree do not constrain the order.
func (n *namespace) plan() ([]Entity, error) {
	var nodes []Handle
	var walk func(ns *namespace)
	walk = func(ns *namespace) {
		for _, mem := range ns.Elements() {
			nodes = append(nodes, mem.Handle())
			if child, ok := mem.(Namespace); ok {
				walk(child.core())
			}
		}
	}
	walk(n)

	inside := make(map[Handle]struct{}, len(nodes))
	for _, h := range nodes {
		inside[h] = struct{}{}
	}

	deps := make(map[Handle][]Handle, len(nodes))
	for _, h := range nodes {
		switch v := n.model.lookupHandle(h).(type) {
		case *Object:
			ds, err := v.Dependencies()
			if err != nil {
				return nil, fmt.Errorf("dependencies of '%s': %w", v.CanonicalName(), err)
			}
			for _, d := range ds {
				if _, ok := inside[d.Handle()]; ok {
					deps[h] = append(deps[h], d.Handle())
				}
			}
		case Namespace:
			for _, mem := range v.Elements() {
				deps[h] = append(deps[h], mem.Handle())
			}
		}
	}

	order, err := dag.Sort(nodes, func(h Handle) []Handle { return deps[h] })
	if err != nil {
		var cycle *dag.CycleError[Handle]
		if errors.As(err, &cycle) {
			return nil, n.cycleError(cycle.Path)
		}
		return nil, err
	}

	out := make([]Entity, len(order))
	for i, h := range order {
		out[i] = n.model.lookupHandle(h)
	}
	return out, nil
}

// ElementsInTopologicalOrder lists the owned members in the order their
// updates complete: an object at its own position, a nested namespace once
// the last of its content has run.
func (n *namespace) ElementsInTopologicalOrder() ([]Entity, error) {
	order, err := n.plan()
	if err != nil {
		return nil, err
	}
	out := make([]Entity, 0, n.owned.len())
	for _, e := range order {
		if n.owned.has(e.Handle()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (n *namespace) Dependencies() ([]Entity, error) {
	var out []Entity
	seen := make(map[Handle]struct{})
	for _, mem := range n.Elements() {
		ds, err := dependenciesOf(mem)
		if err != nil {
			return nil, err
		}
		for _, d := range ds {
			if n.contains(d) {
				continue
			}
			if _, ok := seen[d.Handle()]; !ok {
				seen[d.Handle()] = struct{}{}
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func dependenciesOf(e Entity) ([]Entity, error) {
	switch v := e.(type) {
	case *Object:
		return v.Dependencies()
	case Namespace:
		return v.Dependencies()
	}
	return nil, nil
}

// contains reports whether e is this namespace or lies anywhere below it.
func (n *namespace) contains(e Entity) bool {
	for cur := e; cur != nil; cur = parentEntity(cur) {
		if cur.Handle() == n.handle {
			return true
		}
	}
	return false
}

func parentEntity(e Entity) Entity {
	p := e.Parent()
	if p == nil {
		return nil
	}
	return p
}

// relativeName names e by its path below n.
func (n *namespace) relativeName(e Entity) string {
	name := e.CanonicalName()
	if prefix := n.CanonicalName(); prefix != "" {
		return strings.TrimPrefix(name, prefix+".")
	}
	return name
}

func (n *namespace) cycleError(path []Handle) *GraphCycleError {
	names := make([]string, len(path))
	for i, h := range path {
		if e := n.model.lookupHandle(h); e != nil {
			names[i] = n.relativeName(e)
		}
	}
	return &GraphCycleError{Path: names}
}
