// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model is the in-memory parametric model: a tree of named entities
// whose derived state is recomputed in dependency order whenever an input
// changes.
//
// # Core Concepts
//
//   - Model: the arena that owns every entity. Entities refer to each other,
//     and to their parent, through Handles into the arena, never through
//     direct back-pointers.
//
//   - Namespace: an ordered collection of uniquely named members that
//     resolves dotted paths and updates its members in topological order.
//     There are three kinds: the single Root, Scenario (which also holds
//     read-only external members) and Assembly.
//
//   - Object: an instance of a registered type. Selecting one of the type's
//     update methods creates an InputBindingTable with one slot per method
//     parameter. Each slot holds an expression whose references determine
//     the object's dependencies.
//
// # Updates
//
// Setting the last unbound input of an object "primes" it and asks its
// parent namespace to update. A namespace update clears its members' input
// caches, orders them so every member follows everything it depends on, and
// updates them one by one, stopping at the first failure. A dependency cycle
// aborts the update before any member runs.
//
// # Events
//
// Every change is published on the model's event bus under the handle of the
// entity that changed. Namespaces listen to their members: a delete request
// removes the member, a rename re-keys it, and every other event is
// forwarded to the namespace's own subscribers.
package model
