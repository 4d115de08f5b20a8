package registry

import (
	"fmt"
	"strings"
)

// UnknownTypeError is returned when no type is registered under a name.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown object type '%s'", e.Type)
}

// UnknownMethodError is returned when a type declares no method with the requested name.
type UnknownMethodError struct {
	Type   string
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("type '%s' has no update method '%s'", e.Type, e.Method)
}

// MissingUpdateCapabilityError is returned when a method exists but is not
// marked as an update method.
type MissingUpdateCapabilityError struct {
	Type   string
	Method string
}

func (e *MissingUpdateCapabilityError) Error() string {
	return fmt.Sprintf("method '%s' of type '%s' is not an update method", e.Method, e.Type)
}

// ParameterCountMismatchError is returned when a method's parameter names and
// parameter types disagree in length.
type ParameterCountMismatchError struct {
	Type   string
	Method string
	Names  int
	Types  int
}

func (e *ParameterCountMismatchError) Error() string {
	return fmt.Sprintf("method '%s' of type '%s' declares %d parameter names but %d parameter types",
		e.Method, e.Type, e.Names, e.Types)
}

// DuplicateInputSlotError is returned when two parameters of a method share a name.
type DuplicateInputSlotError struct {
	Type   string
	Method string
	Slot   string
}

func (e *DuplicateInputSlotError) Error() string {
	return fmt.Sprintf("method '%s' of type '%s' declares input slot '%s' more than once", e.Method, e.Type, e.Slot)
}

// ValidationError aggregates every problem found by Validate.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("registry validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}
