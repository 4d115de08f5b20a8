package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Validate checks every registered type and returns a *ValidationError
// listing all problems, or nil.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []error
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.order {
		spec := r.types[name]
		if spec.New == nil {
			errs = append(errs, fmt.Errorf("type '%s': no state constructor", name))
		}

		methods := make(map[string]struct{}, len(spec.Methods))
		for i := range spec.Methods {
			m := &spec.Methods[i]
			if _, dup := methods[m.Name]; dup {
				errs = append(errs, fmt.Errorf("type '%s': method '%s' declared more than once", name, m.Name))
			}
			methods[m.Name] = struct{}{}

			if m.Invoke == nil {
				errs = append(errs, fmt.Errorf("type '%s', method '%s': no invoke function", name, m.Name))
			}
			if _, err := m.Params(name); err != nil {
				errs = append(errs, err)
				continue
			}
			for i, ty := range m.ParamTypes {
				if ty == cty.NilType {
					errs = append(errs, fmt.Errorf("type '%s', method '%s': parameter '%s' has no type", name, m.Name, m.ParamNames[i]))
				} else if ty.Equals(cty.DynamicPseudoType) {
					logger.Warn("Update method parameter accepts any type, which disables input type checking.",
						"type", name, "method", m.Name, "input", m.ParamNames[i])
				}
			}
		}

		props := make(map[string]struct{}, len(spec.Properties))
		for _, p := range spec.Properties {
			if _, dup := props[p.Name]; dup {
				errs = append(errs, fmt.Errorf("type '%s': property '%s' declared more than once", name, p.Name))
			}
			props[p.Name] = struct{}{}
			if p.Get == nil {
				errs = append(errs, fmt.Errorf("type '%s', property '%s': no getter", name, p.Name))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	logger.Debug("Registry validated.", "types", len(r.order))
	return nil
}
