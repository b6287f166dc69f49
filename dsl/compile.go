package dsl

import (
	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/shape"
)

// FromShape compiles a normalized shape into a schema.
//
// Leaves without a known name and without a bound Go type accept any value.
// Shapes no schema can express fail with intellitype.ErrConfiguration:
// union markers (normalize first), unknown containers such as Generic[T],
// dict/list/set with the wrong number of arguments, and "..." anywhere but
// the second slot of a two-slot tuple.
func FromShape(s shape.Shape) (intellitype.Schema[any], error) {
	switch s.Kind() {
	case shape.KindInvalid:
		return nil, intellitype.Configurationf("cannot build a schema for an empty shape")
	case shape.KindMarker:
		return nil, intellitype.Configurationf("union marker left in shape; normalize it first")
	case shape.KindNamed:
		return fromLeaf(s)
	case shape.KindUnion:
		alts := make([]intellitype.Schema[any], 0, s.NumArgs())
		names := make([]string, 0, s.NumArgs())
		for _, a := range s.Args() {
			as, err := FromShape(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, as)
			names = append(names, a.String())
		}
		return Union(alts, names), nil
	}
	return fromComposite(s)
}

func fromLeaf(s shape.Shape) (intellitype.Schema[any], error) {
	if t := s.GoType(); t != nil {
		return Bound(t), nil
	}
	switch s.Name() {
	case shape.NameStr:
		return String(), nil
	case shape.NameInt:
		return Int(), nil
	case shape.NameFloat:
		return Float(), nil
	case shape.NameBool:
		return Bool(), nil
	case shape.NameBytes:
		return Bytes(), nil
	case shape.NameNone:
		return Null(), nil
	case shape.NameDatetime:
		return DateTime(), nil
	case shape.NameAny:
		return AnyValue(), nil
	case shape.NameEllipsis:
		return nil, intellitype.Configurationf("%q is only valid as tuple[X, ...]", shape.NameEllipsis)
	case "Union", "Optional", shape.ContainerGeneric:
		return nil, intellitype.Configurationf("%s needs type arguments", s.Name())
	case shape.ContainerDict, shape.ContainerList, shape.ContainerSet, shape.ContainerTuple:
		// bare containers hold anything
		return fromComposite(shape.Of(s.Name(), bareArgs(s.Name())...))
	}
	return anySchema{description: "arbitrary type " + s.Name()}, nil
}

func bareArgs(container string) []shape.Shape {
	switch container {
	case shape.ContainerDict:
		return []shape.Shape{shape.Any, shape.Any}
	case shape.ContainerTuple:
		return []shape.Shape{shape.Any, shape.Ellipsis}
	default:
		return []shape.Shape{shape.Any}
	}
}

func fromComposite(s shape.Shape) (intellitype.Schema[any], error) {
	args := s.Args()
	arity := func(n int) error {
		if len(args) != n {
			return intellitype.Configurationf("%s takes %d type arguments, got %d in %s", s.Name(), n, len(args), s)
		}
		return nil
	}
	switch s.Name() {
	case shape.ContainerList, shape.ContainerSet:
		if err := arity(1); err != nil {
			return nil, err
		}
		elem, err := FromShape(args[0])
		if err != nil {
			return nil, err
		}
		if s.Name() == shape.ContainerSet {
			return Set(elem), nil
		}
		return List(elem), nil
	case shape.ContainerDict:
		if err := arity(2); err != nil {
			return nil, err
		}
		key, err := FromShape(args[0])
		if err != nil {
			return nil, err
		}
		val, err := FromShape(args[1])
		if err != nil {
			return nil, err
		}
		return Dict(key, val), nil
	case shape.ContainerTuple:
		if len(args) == 2 && args[1].Equal(shape.Ellipsis) {
			elem, err := FromShape(args[0])
			if err != nil {
				return nil, err
			}
			return VarTuple(elem), nil
		}
		elems := make([]intellitype.Schema[any], len(args))
		for i, a := range args {
			e, err := FromShape(a)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return Tuple(elems...), nil
	}
	return nil, intellitype.Configurationf("no schema for container %q in %s", s.Name(), s)
}
