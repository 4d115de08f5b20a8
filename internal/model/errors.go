// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/paragrid/internal/dag"
)

var (
	// ErrNotPrimed is returned when an object with a selected method is
	// updated before every input slot has an expression.
	ErrNotPrimed = errors.New("object inputs are not primed")
	// ErrExternalMember is returned when the normal remove path is used on a
	// Scenario's external member.
	ErrExternalMember = errors.New("external members can only be removed with RemoveExternal")
	// ErrNoParent is returned by operations that need a parent namespace when
	// called on the root.
	ErrNoParent = errors.New("entity has no parent namespace")
	// ErrNoMethod is returned by input operations on an object without a method.
	ErrNoMethod = errors.New("object has no update method selected")
)

// GraphCycleError is returned when the members of a namespace depend on each
// other in a cycle. Path holds member names, starting and ending with the
// member that closed the cycle.
type GraphCycleError = dag.CycleError[string]

// DuplicateNameError is returned when a name is already taken in a namespace.
type DuplicateNameError struct {
	Namespace string
	Name      string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name '%s' is already used in namespace '%s'", e.Name, displayName(e.Namespace))
}

// InvalidNameError is returned for names that cannot be used as a path segment.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: names must start with a letter or underscore and contain only letters, digits and underscores", e.Name)
}

// LookupError is returned when a dotted path cannot be resolved.
type LookupError struct {
	Path      string
	Namespace string
	Reason    string
	Err       error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("cannot resolve '%s' in '%s': %s", e.Path, displayName(e.Namespace), e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() error { return e.Err }

// UnknownInputError is returned when an object has no input slot with the given name.
type UnknownInputError struct {
	Object string
	Slot   string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("object '%s' has no input '%s'", e.Object, e.Slot)
}

// InputError wraps a failure to bind, resolve or convert a single input slot.
type InputError struct {
	Object string
	Slot   string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("object '%s', input '%s': %v", e.Object, e.Slot, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func displayName(canonical string) string {
	if canonical == "" {
		return "<root>"
	}
	return canonical
}
