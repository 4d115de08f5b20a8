package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/paragrid/internal/model"
)

// NamespaceOrder is the update order of one namespace's members.
type NamespaceOrder struct {
	Namespace string
	Members   []string
}

func (o NamespaceOrder) String() string {
	return fmt.Sprintf("%s: %s", o.Namespace, strings.Join(o.Members, ", "))
}

// Query resolves a dotted path against the root namespace.
func (a *App) Query(path string) (any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model.Lookup(path)
}

// Order returns the update order of every namespace, depth first from the
// root.
func (a *App) Order() ([]NamespaceOrder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []NamespaceOrder
	var walk func(ns model.Namespace) error
	walk = func(ns model.Namespace) error {
		members, err := ns.ElementsInTopologicalOrder()
		if err != nil {
			return fmt.Errorf("ordering '%s': %w", displayName(ns), err)
		}
		o := NamespaceOrder{Namespace: displayName(ns), Members: make([]string, len(members))}
		for i, m := range members {
			o.Members[i] = m.Name()
		}
		out = append(out, o)
		for _, m := range members {
			if child, ok := m.(model.Namespace); ok {
				if err := walk(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(a.model.Root()); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatValue renders a lookup result for display. Entities are shown by
// kind and canonical name.
func FormatValue(v any) string {
	switch val := v.(type) {
	case *model.Object:
		return fmt.Sprintf("<%s %s>", val.Type(), val.CanonicalName())
	case model.Namespace:
		return fmt.Sprintf("<%s %s>", val.Kind(), displayName(val))
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return strconv.Quote(val)
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}

// JSONValue converts a lookup result into a value encoding/json can render.
func JSONValue(v any) any {
	switch val := v.(type) {
	case *model.Object:
		return map[string]any{"entity": val.CanonicalName(), "type": val.Type(), "method": val.Method(), "primed": val.Primed()}
	case model.Namespace:
		return map[string]any{"entity": displayName(val), "kind": val.Kind().String(), "members": len(val.Elements())}
	}
	return v
}

func displayName(e model.Entity) string {
	if name := e.CanonicalName(); name != "" {
		return name
	}
	return "<root>"
}
