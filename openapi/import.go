package openapi

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/shape"
)

// ToShape reads a shape back from an OpenAPI schema. Objects with declared
// properties have no structural shape and become named leaves (their title,
// or "object"), which accept any value when validated.
func ToShape(s *openapi3.Schema) (shape.Shape, error) {
	if s == nil {
		return shape.Shape{}, intellitype.Configurationf("nil OpenAPI schema")
	}
	out, err := toShape(s)
	if err != nil {
		return shape.Shape{}, err
	}
	if s.Nullable && !out.Equal(shape.None) {
		out = shape.Optional(out)
	}
	return out, nil
}

func toShape(s *openapi3.Schema) (shape.Shape, error) {
	if alts := append(append(openapi3.SchemaRefs(nil), s.AnyOf...), s.OneOf...); len(alts) > 0 {
		shapes := make([]shape.Shape, 0, len(alts))
		for _, a := range alts {
			as, err := refShape(a)
			if err != nil {
				return shape.Shape{}, err
			}
			shapes = append(shapes, as)
		}
		return shape.Union(shapes[0], shapes[1:]...), nil
	}
	switch {
	case s.Type.Is(openapi3.TypeString):
		switch s.Format {
		case "byte":
			return shape.Bytes, nil
		case "date-time":
			return shape.Datetime, nil
		}
		return shape.Str, nil
	case s.Type.Is(openapi3.TypeInteger):
		return shape.Int, nil
	case s.Type.Is(openapi3.TypeNumber):
		return shape.Float, nil
	case s.Type.Is(openapi3.TypeBoolean):
		return shape.Bool, nil
	case s.Type.Is(openapi3.TypeArray):
		elem := shape.Any
		if s.Items != nil {
			var err error
			if elem, err = refShape(s.Items); err != nil {
				return shape.Shape{}, err
			}
		}
		if s.UniqueItems {
			return shape.SetOf(elem), nil
		}
		return shape.ListOf(elem), nil
	case s.Type.Is(openapi3.TypeObject):
		if len(s.Properties) > 0 {
			if s.Title != "" {
				return shape.Named(s.Title), nil
			}
			return shape.Named("object"), nil
		}
		val := shape.Any
		if ref := s.AdditionalProperties.Schema; ref != nil {
			var err error
			if val, err = refShape(ref); err != nil {
				return shape.Shape{}, err
			}
		}
		return shape.DictOf(shape.Str, val), nil
	}
	if s.Nullable {
		return shape.None, nil
	}
	return shape.Any, nil
}

func refShape(ref *openapi3.SchemaRef) (shape.Shape, error) {
	if ref == nil || ref.Value == nil {
		return shape.Shape{}, intellitype.Configurationf("unresolved OpenAPI schema reference")
	}
	return ToShape(ref.Value)
}

// Import declares one marker per component schema of doc in reg, using the
// component name and the schema description. Components are visited in
// sorted name order.
func Import(doc *openapi3.T, reg *marker.Registry) ([]*marker.Marker, error) {
	if doc == nil || doc.Components == nil {
		return nil, nil
	}
	var out []*marker.Marker
	for _, name := range componentNames(doc.Components.Schemas) {
		ref := doc.Components.Schemas[name]
		s, err := refShape(ref)
		if err != nil {
			return out, err
		}
		m, err := reg.Define(name, s, ref.Value.Description)
		if err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, nil
}

func componentNames(s openapi3.Schemas) []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
