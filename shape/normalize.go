package shape

import (
	intellitype "github.com/reoring/intellitype"
)

// Error reports malformed union-marker usage or an unparsable shape
// expression. It matches intellitype.ErrShape with errors.Is.
type Error struct {
	Shape  string // rendered shape or expression
	Reason string
}

func (e *Error) Error() string { return "shape " + e.Shape + ": " + e.Reason }

func (e *Error) Unwrap() error { return intellitype.ErrShape }

// Normalize rewrites every composite whose first slot is UnionMarker into a
// union of its remaining slots, at any depth. Shapes without the marker come
// back structurally unchanged, and Normalize(Normalize(s)) equals Normalize(s).
//
// The marker must lead a composite and be followed by at least one
// alternative; any other placement is an *Error.
func Normalize(raw Shape) (Shape, error) {
	switch raw.kind {
	case KindInvalid:
		return Shape{}, &Error{Shape: raw.String(), Reason: "empty shape"}
	case KindMarker:
		return Shape{}, &Error{Shape: raw.String(), Reason: "union marker outside a composite"}
	case KindNamed:
		return raw, nil
	}

	args := raw.args
	asUnion := raw.kind == KindUnion
	if raw.kind == KindComposite && args[0].kind == KindMarker {
		if len(args) < 2 {
			return Shape{}, &Error{Shape: raw.String(), Reason: "union marker without alternatives"}
		}
		args = args[1:]
		asUnion = true
	}

	out := make([]Shape, len(args))
	for i, a := range args {
		if a.kind == KindMarker {
			return Shape{}, &Error{Shape: raw.String(), Reason: "union marker must occupy the first slot"}
		}
		n, err := Normalize(a)
		if err != nil {
			return Shape{}, err
		}
		out[i] = n
	}
	if asUnion {
		return Union(out[0], out[1:]...), nil
	}
	return Shape{kind: KindComposite, name: raw.name, args: out, typ: raw.typ}, nil
}

// MustNormalize is like Normalize but panics on error.
func MustNormalize(raw Shape) Shape {
	s, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return s
}
