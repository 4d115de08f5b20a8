// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/specialistvlad/paragrid/internal/event"
)

// Update recomputes every object below the namespace in one dependency
// order that spans nested namespaces. Input caches are cleared first. A
// cycle between objects aborts the update before any object runs, and the
// first object that fails stops the remaining ones. Each nested namespace
// publishes StructureChanged once all of its content has run, and the
// namespace itself publishes it last, only when every object succeeded.
func (n *namespace) Update(ctx context.Context) error {
	ctx = ctxlog.With(ctx, "namespace", displayName(n.CanonicalName()))
	start := time.Now()
	err := n.update(ctx)
	n.model.recorder.NamespaceUpdated(n.kind.String(), time.Since(start), err)
	return err
}

func (n *namespace) update(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	n.clearCaches()

	order, err := n.plan()
	if err != nil {
		var cycle *GraphCycleError
		if errors.As(err, &cycle) {
			logger.Error("Update aborted, objects depend on each other in a cycle.", "cycle", strings.Join(cycle.Path, " -> "))
			n.model.recorder.CycleDetected(n.CanonicalName())
		} else {
			logger.Error("Update aborted, members could not be ordered.", "error", err)
		}
		return err
	}

	started := make(map[Handle]time.Time)
	for _, e := range order {
		switch v := e.(type) {
		case *Object:
			n.markStarted(started, v)
			logger.Debug("Updating member.", "member", v.Name(), "path", n.relativeName(v))
			if err := v.Update(ctx); err != nil {
				logger.Warn("Member update failed, skipping remaining members.", "member", v.Name(), "path", n.relativeName(v), "error", err)
				return fmt.Errorf("update '%s': %w", v.CanonicalName(), err)
			}
		case Namespace:
			inner := v.core()
			begin, ok := started[inner.handle]
			if !ok {
				begin = time.Now()
			}
			inner.publish(event.Event{Kind: event.StructureChanged, Name: inner.name})
			n.model.recorder.NamespaceUpdated(inner.kind.String(), time.Since(begin), nil)
			logger.Debug("Nested namespace updated.", "path", n.relativeName(v))
		}
	}

	n.publish(event.Event{Kind: event.StructureChanged, Name: n.name})
	logger.Debug("Namespace updated.", "entities", len(order))
	return nil
}

// clearCaches drops the cached input values of every object below n.
func (n *namespace) clearCaches() {
	for _, mem := range n.Elements() {
		switch v := mem.(type) {
		case *Object:
			if v.inputs != nil {
				v.inputs.clearCache()
			}
		case Namespace:
			v.core().clearCaches()
		}
	}
}

// markStarted records the first time an object below each of o's enclosing
// namespaces started, up to but excluding n.
func (n *namespace) markStarted(started map[Handle]time.Time, o *Object) {
	now := time.Now()
	for cur := o.Parent(); cur != nil && cur.Handle() != n.handle; cur = cur.Parent() {
		if _, ok := started[cur.Handle()]; !ok {
			started[cur.Handle()] = now
		}
	}
}

// Restore re-establishes derived state for every member below the
// namespace, for example after the registry was rebuilt.
func (n *namespace) Restore(ctx context.Context) error {
	var errs []error
	for _, mem := range n.Elements() {
		if err := mem.Restore(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
