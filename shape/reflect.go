package shape

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeFor[time.Time]()

// TypeOf returns the shape of the Go type T. See FromType.
func TypeOf[T any]() Shape { return FromType(reflect.TypeFor[T]()) }

// FromType derives a shape from a Go type: basic kinds map to the primitive
// shapes, slices to list, arrays to fixed tuples, maps to dict, pointers to
// Optional, time.Time to datetime and the empty interface to Any. Structs, functions, channels and
// non-empty interfaces are bound leaves validated by assignability, as is a
// type that refers back to itself (type tree map[string]tree).
func FromType(t reflect.Type) Shape {
	return fromType(t, map[reflect.Type]bool{})
}

func fromType(t reflect.Type, visiting map[reflect.Type]bool) Shape {
	if t == nil {
		return Any
	}
	if t == timeType {
		return Datetime
	}
	if visiting[t] {
		return Bound(t)
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Pointer:
		visiting[t] = true
		defer delete(visiting, t)
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.String:
		return Str
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Bytes
		}
		return ListOf(fromType(t.Elem(), visiting))
	case reflect.Array:
		if t.Len() == 0 {
			return Bound(t)
		}
		elems := make([]Shape, t.Len())
		for i := range elems {
			elems[i] = fromType(t.Elem(), visiting)
		}
		return TupleOf(elems...)
	case reflect.Map:
		return DictOf(fromType(t.Key(), visiting), fromType(t.Elem(), visiting))
	case reflect.Pointer:
		return Optional(fromType(t.Elem(), visiting))
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Any
		}
	}
	return Bound(t)
}
