// Package openapi projects markers into OpenAPI 3 documents and reads marker
// shapes back from OpenAPI schemas.
package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/shape"
)

// Version is the OpenAPI version written by Export.
const Version = "3.0.3"

// Options tune Export.
type Options struct {
	Title   string // Info.Title, "intellitype markers" when empty.
	Version string // Info.Version, "1.0.0" when empty.
}

// Export builds a document with one component schema per marker of reg, in
// declaration order. A marker whose shape cannot be validated fails the
// export with the marker's error.
func Export(reg *marker.Registry, opts ...Options) (*openapi3.T, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.Title == "" {
		o.Title = "intellitype markers"
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	doc := &openapi3.T{
		OpenAPI:    Version,
		Info:       &openapi3.Info{Title: o.Title, Version: o.Version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
	for _, m := range reg.Markers() {
		s, err := MarkerSchema(m)
		if err != nil {
			return nil, err
		}
		doc.Components.Schemas[m.Name()] = openapi3.NewSchemaRef("", s)
	}
	return doc, nil
}

// MarkerSchema returns the schema of one marker's data, titled by the marker
// name and carrying its description.
func MarkerSchema(m *marker.Marker) (*openapi3.Schema, error) {
	// Building the validation schema first rejects the same shapes Validate
	// would reject.
	sch, err := m.Schema()
	if err != nil {
		return nil, err
	}
	out, err := FromShape(sch.Shape())
	if err != nil {
		return nil, fmt.Errorf("marker %s: %w", m.Name(), err)
	}
	out.Title = m.Name()
	out.Description = m.Description()
	return out, nil
}

// FromShape converts a normalized shape into an OpenAPI schema. OpenAPI 3.0
// has no tuple keyword, so fixed tuples become arrays of exact length whose
// items match any of the element schemas.
func FromShape(s shape.Shape) (*openapi3.Schema, error) {
	switch s.Kind() {
	case shape.KindNamed:
		if s.Equal(shape.Ellipsis) {
			return nil, intellitype.Configurationf("%q is only valid as tuple[X, ...]", shape.NameEllipsis)
		}
		return fromLeaf(s), nil
	case shape.KindUnion:
		alts := make([]*openapi3.Schema, 0, s.NumArgs())
		nullable := false
		for _, a := range s.Args() {
			if a.Equal(shape.None) {
				nullable = true
				continue
			}
			as, err := FromShape(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, as)
		}
		if len(alts) == 1 {
			alts[0].Nullable = nullable
			return alts[0], nil
		}
		out := openapi3.NewAnyOfSchema(alts...)
		out.Nullable = nullable
		return out, nil
	case shape.KindComposite:
		return fromComposite(s)
	}
	return nil, intellitype.Configurationf("no OpenAPI schema for %s", s)
}

func fromLeaf(s shape.Shape) *openapi3.Schema {
	if s.GoType() != nil {
		out := openapi3.NewSchema()
		out.Description = "Go type " + s.GoType().String()
		return out
	}
	switch s.Name() {
	case shape.NameStr:
		return openapi3.NewStringSchema()
	case shape.NameInt:
		return openapi3.NewInt64Schema()
	case shape.NameFloat:
		return openapi3.NewFloat64Schema()
	case shape.NameBool:
		return openapi3.NewBoolSchema()
	case shape.NameBytes:
		return openapi3.NewBytesSchema()
	case shape.NameDatetime:
		return openapi3.NewDateTimeSchema()
	case shape.NameNone:
		out := openapi3.NewSchema()
		out.Nullable = true
		return out
	case shape.NameAny:
		return openapi3.NewSchema()
	case shape.ContainerDict:
		return openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	case shape.ContainerList, shape.ContainerTuple:
		return openapi3.NewArraySchema().WithItems(openapi3.NewSchema())
	case shape.ContainerSet:
		return openapi3.NewArraySchema().WithItems(openapi3.NewSchema()).WithUniqueItems(true)
	}
	out := openapi3.NewSchema()
	out.Description = "arbitrary type " + s.Name()
	return out
}

func fromComposite(s shape.Shape) (*openapi3.Schema, error) {
	args := s.Args()
	variadic := s.Name() == shape.ContainerTuple && len(args) == 2 && args[1].Equal(shape.Ellipsis)
	if variadic {
		args = args[:1]
	}
	elems := make([]*openapi3.Schema, 0, len(args))
	for _, a := range args {
		if a.Equal(shape.Ellipsis) {
			return nil, intellitype.Configurationf("%q is only valid as tuple[X, ...] in %s", shape.NameEllipsis, s)
		}
		e, err := FromShape(a)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	want := map[string]int{shape.ContainerList: 1, shape.ContainerSet: 1, shape.ContainerDict: 2}
	if n, ok := want[s.Name()]; ok && len(args) != n {
		return nil, intellitype.Configurationf("%s takes %d type arguments, got %d in %s", s.Name(), n, len(args), s)
	}
	switch s.Name() {
	case shape.ContainerList:
		return openapi3.NewArraySchema().WithItems(elems[0]), nil
	case shape.ContainerSet:
		return openapi3.NewArraySchema().WithItems(elems[0]).WithUniqueItems(true), nil
	case shape.ContainerDict:
		out := openapi3.NewObjectSchema().WithAdditionalProperties(elems[1])
		if !args[0].Equal(shape.Str) {
			out.Description = "keys: " + args[0].String()
		}
		return out, nil
	case shape.ContainerTuple:
		if variadic {
			return openapi3.NewArraySchema().WithItems(elems[0]), nil
		}
		items := elems[0]
		if len(elems) > 1 {
			items = openapi3.NewAnyOfSchema(elems...)
		}
		return openapi3.NewArraySchema().
			WithItems(items).
			WithMinItems(int64(len(elems))).
			WithMaxItems(int64(len(elems))), nil
	}
	return nil, intellitype.Configurationf("no OpenAPI schema for container %q in %s", s.Name(), s)
}
