package marker

import (
	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/shape"
)

// BaseName is the name of the base marker as it may appear in base lists.
const BaseName = "IntelliType"

// Declaration is the shape source of a marker. Shape, when set, is used
// directly; otherwise the first usable entry of Bases is taken. Generic[...]
// placeholders and the bare base marker are skipped, and a parameterized base
// marker (IntelliType[X]) contributes X.
type Declaration struct {
	Shape shape.Shape
	Bases []shape.Shape
}

// Raw returns the declared shape before normalization.
func (d Declaration) Raw() (shape.Shape, error) {
	if !d.Shape.IsZero() {
		return d.Shape, nil
	}
	for _, b := range d.Bases {
		switch {
		case b.IsZero(), b.IsPlaceholder():
			continue
		case b.Name() == BaseName && b.Kind() == shape.KindNamed:
			continue
		case b.Name() == BaseName && b.Kind() == shape.KindComposite:
			if b.NumArgs() != 1 {
				return shape.Shape{}, intellitype.Configurationf("%s takes exactly one shape, got %s", BaseName, b)
			}
			return b.Arg(0), nil
		}
		return b, nil
	}
	return shape.Shape{}, intellitype.Configurationf("no shape declared: neither a shape nor a structural base was given")
}

// Resolve extracts the declared shape and normalizes union markers away. The
// result never contains shape.UnionMarker.
func Resolve(d Declaration) (shape.Shape, error) {
	s, _, err := resolve(d)
	return s, err
}

// resolve also reports whether the raw source carried a union marker, which
// decides how Index compares candidates.
func resolve(d Declaration) (shape.Shape, bool, error) {
	raw, err := d.Raw()
	if err != nil {
		return shape.Shape{}, false, err
	}
	if !shape.ContainsUnionMarker(raw) {
		return raw, false, nil
	}
	s, err := shape.Normalize(raw)
	if err != nil {
		return shape.Shape{}, true, err
	}
	return s, true, nil
}
