package registry

import (
	"fmt"
	"log/slog"
)

// Module is the interface that all object-type modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the object types available to a single application instance.
type Registry struct {
	types map[string]*TypeSpec
	order []string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{types: make(map[string]*TypeSpec)}
}

// Load registers every module in the order given.
func (r *Registry) Load(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// RegisterType adds an object type. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterType(spec TypeSpec) {
	if _, exists := r.types[spec.Name]; exists {
		panic(fmt.Sprintf("object type with name '%s' already registered", spec.Name))
	}
	slog.Debug("Registering object type.", "type", spec.Name, "methods", len(spec.Methods), "properties", len(spec.Properties))
	s := spec
	r.types[spec.Name] = &s
	r.order = append(r.order, spec.Name)
}

// Type returns the spec registered under name.
func (r *Registry) Type(name string) (*TypeSpec, error) {
	spec, ok := r.types[name]
	if !ok {
		return nil, &UnknownTypeError{Type: name}
	}
	return spec, nil
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}
