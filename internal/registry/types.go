package registry

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// InvokeFunc runs an update method against an object's state.
type InvokeFunc func(ctx context.Context, state any, args Args) error

// Getter reads a property from an object's state.
type Getter func(state any) any

// Setter writes a property on an object's state.
type Setter func(state any, value any) error

// TypeSpec describes one object type.
type TypeSpec struct {
	Name        string
	Description string
	// New returns a fresh state value for an object of this type.
	New        func() any
	Methods    []MethodSpec
	Properties []PropertySpec
}

// MethodSpec describes a single update method. ParamNames and ParamTypes are
// declared separately and must agree in length.
type MethodSpec struct {
	Name       string
	ParamNames []string
	ParamTypes []cty.Type
	// Updatable marks the method as selectable for updates.
	Updatable bool
	Invoke    InvokeFunc
}

// PropertySpec is a named accessor on an object's state. Set may be nil for
// read-only properties.
type PropertySpec struct {
	Name string
	Get  Getter
	Set  Setter
}

// Param is one declared parameter of a method.
type Param struct {
	Name string
	Type cty.Type
}

// StateHolder is implemented by entities that carry type state. Update
// methods that receive an entity reference use it to read the referenced
// object's state.
type StateHolder interface {
	State() any
}

// Method returns the updatable method named name.
func (t *TypeSpec) Method(name string) (*MethodSpec, error) {
	for i := range t.Methods {
		m := &t.Methods[i]
		if m.Name != name {
			continue
		}
		if !m.Updatable {
			return nil, &MissingUpdateCapabilityError{Type: t.Name, Method: name}
		}
		return m, nil
	}
	return nil, &UnknownMethodError{Type: t.Name, Method: name}
}

// MethodNames lists the updatable methods in declaration order.
func (t *TypeSpec) MethodNames() []string {
	var out []string
	for _, m := range t.Methods {
		if m.Updatable {
			out = append(out, m.Name)
		}
	}
	return out
}

// Property returns the property named name.
func (t *TypeSpec) Property(name string) (*PropertySpec, bool) {
	for i := range t.Properties {
		if t.Properties[i].Name == name {
			return &t.Properties[i], true
		}
	}
	return nil, false
}

// PropertyNames lists the properties in declaration order.
func (t *TypeSpec) PropertyNames() []string {
	out := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		out[i] = p.Name
	}
	return out
}

// Params pairs the declared parameter names with their types.
func (m *MethodSpec) Params(typeName string) ([]Param, error) {
	if len(m.ParamNames) != len(m.ParamTypes) {
		return nil, &ParameterCountMismatchError{
			Type: typeName, Method: m.Name,
			Names: len(m.ParamNames), Types: len(m.ParamTypes),
		}
	}
	seen := make(map[string]struct{}, len(m.ParamNames))
	params := make([]Param, len(m.ParamNames))
	for i, name := range m.ParamNames {
		if _, dup := seen[name]; dup {
			return nil, &DuplicateInputSlotError{Type: typeName, Method: m.Name, Slot: name}
		}
		seen[name] = struct{}{}
		params[i] = Param{Name: name, Type: m.ParamTypes[i]}
	}
	return params, nil
}
