package registry

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// RefType is the parameter type of an input slot that receives another
// entity rather than a primitive value.
var RefType = cty.Capsule("entity", reflect.TypeOf((*any)(nil)).Elem())

// Encapsulate wraps an entity in a RefType value.
func Encapsulate(entity any) cty.Value {
	p := new(any)
	*p = entity
	return cty.CapsuleVal(RefType, p)
}

// Decapsulate unwraps a RefType value.
func Decapsulate(v cty.Value) (any, error) {
	if !v.Type().Equals(RefType) {
		return nil, fmt.Errorf("expected an entity reference, got %s", v.Type().FriendlyName())
	}
	if v.IsNull() || !v.IsKnown() {
		return nil, errors.New("entity reference is empty")
	}
	return *(v.EncapsulatedValue().(*any)), nil
}

// ToValue converts a solved Go value into want.
func ToValue(v any, want cty.Type) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, errors.New("value is empty")
	}
	if want.Equals(RefType) {
		return Encapsulate(v), nil
	}

	val, ok := v.(cty.Value)
	if !ok {
		implied, err := gocty.ImpliedType(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot represent %T: %w", v, err)
		}
		val, err = gocty.ToCtyValue(v, implied)
		if err != nil {
			return cty.NilVal, err
		}
	}

	out, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot use %s as %s: %w", val.Type().FriendlyName(), want.FriendlyName(), err)
	}
	return out, nil
}
