// Package shape describes structural shapes: named types, containers with
// ordered sub-shapes, and unions. Shapes are immutable values compared
// structurally.
//
// A union can also be spelled as a container whose first slot holds
// UnionMarker, e.g. tuple[as_union, int, str]; Normalize rewrites that form
// into Union[int, str] at every nesting depth.
package shape

import (
	"reflect"
	"strings"
)

// Kind classifies a Shape.
type Kind uint8

const (
	KindInvalid   Kind = iota // zero Shape
	KindNamed                 // primitive or arbitrary named type
	KindComposite             // container with ordered sub-shapes
	KindUnion                 // one of a set of alternatives
	KindMarker                // the UnionMarker sentinel
)

func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindComposite:
		return "composite"
	case KindUnion:
		return "union"
	case KindMarker:
		return "marker"
	default:
		return "invalid"
	}
}

// Canonical names of the built-in shapes.
const (
	NameStr      = "str"
	NameInt      = "int"
	NameFloat    = "float"
	NameBool     = "bool"
	NameBytes    = "bytes"
	NameNone     = "None"
	NameAny      = "Any"
	NameEllipsis = "..."
	NameDatetime = "datetime"

	ContainerDict    = "dict"
	ContainerList    = "list"
	ContainerTuple   = "tuple"
	ContainerSet     = "set"
	ContainerGeneric = "Generic"

	markerName = "as_union"
	unionName  = "Union"
)

// Shape is an immutable structural shape descriptor. The zero value is
// invalid.
type Shape struct {
	kind Kind
	name string
	args []Shape
	typ  reflect.Type
}

// Built-in shapes.
var (
	Str      = Named(NameStr)
	Int      = Named(NameInt)
	Float    = Named(NameFloat)
	Bool     = Named(NameBool)
	Bytes    = Named(NameBytes)
	None     = Named(NameNone)
	Any      = Named(NameAny)
	Ellipsis = Named(NameEllipsis)
	Datetime = Named(NameDatetime)

	// UnionMarker, placed in the first slot of a composite, requests union
	// semantics over the remaining slots.
	UnionMarker = Shape{kind: KindMarker, name: markerName}
)

// Named returns a leaf shape identified by name.
func Named(name string) Shape {
	return Shape{kind: KindNamed, name: strings.TrimSpace(name)}
}

// Bound returns a leaf shape for an arbitrary Go type. Values validate against
// it by assignability.
func Bound(t reflect.Type) Shape {
	return Shape{kind: KindNamed, name: t.String(), typ: t}
}

// Of returns a container shape. Without sub-shapes it degrades to Named.
func Of(container string, args ...Shape) Shape {
	if len(args) == 0 {
		return Named(container)
	}
	return Shape{kind: KindComposite, name: strings.TrimSpace(container), args: append([]Shape(nil), args...)}
}

// Union returns the union of the given alternatives. Nested unions are
// flattened, structural duplicates removed, and a single remaining
// alternative is returned as is.
func Union(first Shape, rest ...Shape) Shape {
	alts := make([]Shape, 0, 1+len(rest))
	add := func(s Shape) {
		for _, a := range alts {
			if a.Equal(s) {
				return
			}
		}
		alts = append(alts, s)
	}
	for _, s := range append([]Shape{first}, rest...) {
		if s.kind == KindUnion {
			for _, a := range s.args {
				add(a)
			}
			continue
		}
		add(s)
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return Shape{kind: KindUnion, name: unionName, args: alts}
}

// DictOf returns dict[key, value].
func DictOf(key, value Shape) Shape { return Of(ContainerDict, key, value) }

// ListOf returns list[elem].
func ListOf(elem Shape) Shape { return Of(ContainerList, elem) }

// SetOf returns set[elem].
func SetOf(elem Shape) Shape { return Of(ContainerSet, elem) }

// TupleOf returns tuple[elems...]. tuple[X, ...] is a variable-length tuple.
func TupleOf(elems ...Shape) Shape { return Of(ContainerTuple, elems...) }

// Optional returns Union[s, None].
func Optional(s Shape) Shape { return Union(s, None) }

// Generic returns the Generic[...] placeholder used by base lists.
func Generic(params ...Shape) Shape { return Of(ContainerGeneric, params...) }

// Kind returns the shape kind.
func (s Shape) Kind() Kind { return s.kind }

// Name returns the leaf or container name; "Union" for unions.
func (s Shape) Name() string { return s.name }

// Args returns a copy of the sub-shapes (alternatives for unions).
func (s Shape) Args() []Shape { return append([]Shape(nil), s.args...) }

// NumArgs returns the number of sub-shapes.
func (s Shape) NumArgs() int { return len(s.args) }

// Arg returns the i-th sub-shape.
func (s Shape) Arg(i int) Shape { return s.args[i] }

// GoType returns the Go type bound by Bound or FromType, if any.
func (s Shape) GoType() reflect.Type { return s.typ }

// IsZero reports whether s is the invalid zero Shape.
func (s Shape) IsZero() bool { return s.kind == KindInvalid }

// IsPlaceholder reports whether s is a Generic[...] placeholder.
func (s Shape) IsPlaceholder() bool {
	return (s.kind == KindComposite || s.kind == KindNamed) && s.name == ContainerGeneric
}

// Equal reports structural equality. Union alternatives compare as sets.
func (s Shape) Equal(o Shape) bool { return Equal(s, o) }

// Equal reports structural equality of a and b.
func Equal(a, b Shape) bool {
	if a.kind != b.kind || a.name != b.name || a.typ != b.typ || len(a.args) != len(b.args) {
		return false
	}
	switch a.kind {
	case KindComposite:
		for i := range a.args {
			if !Equal(a.args[i], b.args[i]) {
				return false
			}
		}
	case KindUnion:
		for _, x := range a.args {
			found := false
			for _, y := range b.args {
				if Equal(x, y) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// String renders s in a stable form, e.g. dict[str, list[int]] or
// Union[int, str]. Union alternatives keep their declaration order.
func (s Shape) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Shape) write(b *strings.Builder) {
	switch s.kind {
	case KindInvalid:
		b.WriteString("<invalid>")
		return
	case KindNamed, KindMarker:
		b.WriteString(s.name)
		return
	}
	b.WriteString(s.name)
	b.WriteByte('[')
	for i, a := range s.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.write(b)
	}
	b.WriteByte(']')
}

// Walk calls fn for s and every nested sub-shape in depth-first order until fn
// returns false.
func Walk(s Shape, fn func(Shape) bool) bool {
	if !fn(s) {
		return false
	}
	for _, a := range s.args {
		if !Walk(a, fn) {
			return false
		}
	}
	return true
}

// ContainsUnionMarker reports whether UnionMarker appears anywhere in s.
func ContainsUnionMarker(s Shape) bool {
	found := false
	Walk(s, func(n Shape) bool {
		found = n.kind == KindMarker
		return !found
	})
	return found
}
