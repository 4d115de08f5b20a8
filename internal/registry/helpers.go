package registry

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty/gocty"
)

// Invoke adapts a method body written against a concrete state type.
func Invoke[S any](fn func(ctx context.Context, s *S, args Args) error) InvokeFunc {
	return func(ctx context.Context, state any, args Args) error {
		s, ok := state.(*S)
		if !ok {
			return fmt.Errorf("state is %T, want %T", state, s)
		}
		return fn(ctx, s, args)
	}
}

// Get adapts a typed property getter.
func Get[S any, V any](fn func(*S) V) Getter {
	return func(state any) any {
		s, ok := state.(*S)
		if !ok {
			return nil
		}
		return fn(s)
	}
}

// Set adapts a typed property setter. Values that are not already a V are
// converted through cty, so an int64 can be stored in a float64 property.
func Set[S any, V any](fn func(*S, V)) Setter {
	return func(state any, value any) error {
		s, ok := state.(*S)
		if !ok {
			return fmt.Errorf("state is %T, want %T", state, s)
		}
		if v, ok := value.(V); ok {
			fn(s, v)
			return nil
		}

		var out V
		ty, err := gocty.ImpliedType(out)
		if err != nil {
			return err
		}
		val, err := ToValue(value, ty)
		if err != nil {
			return err
		}
		if err := gocty.FromCtyValue(val, &out); err != nil {
			return err
		}
		fn(s, out)
		return nil
	}
}

// StateOf asserts the state of an entity reference to *S.
func StateOf[S any](ref any) (*S, error) {
	holder, ok := ref.(StateHolder)
	if !ok {
		return nil, fmt.Errorf("%T does not carry object state", ref)
	}
	s, ok := holder.State().(*S)
	if !ok {
		return nil, fmt.Errorf("referenced object has state %T, want %T", holder.State(), s)
	}
	return s, nil
}
