package marker

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/dsl"
	js "github.com/reoring/intellitype/jsonschema"
	"github.com/reoring/intellitype/metrics"
	"github.com/reoring/intellitype/shape"
)

// SchemaBuilder turns a resolved shape into a props schema: an object with a
// single required field, "data", typed by the shape.
type SchemaBuilder interface {
	BuildSchema(s shape.Shape, name string) (intellitype.Schema[map[string]any], error)
}

// Props is the validated wrapper around a marker's data.
type Props struct {
	Data any `json:"data" yaml:"data"`
}

// Schema is the cached validation schema of one marker.
type Schema struct {
	name  string
	shape shape.Shape
	props intellitype.Schema[map[string]any]
}

// Name returns the schema name, "<marker>Props".
func (s *Schema) Name() string { return s.name }

// Shape returns the shape the data field is typed by.
func (s *Schema) Shape() shape.Shape { return s.shape }

// New validates data as the props' data field.
func (s *Schema) New(ctx context.Context, data any) (*Props, error) {
	return s.Parse(ctx, map[string]any{dsl.DataField: data})
}

// Parse validates a whole props object, {"data": ...}.
func (s *Schema) Parse(ctx context.Context, v any) (*Props, error) {
	out, err := s.props.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return &Props{Data: out[dsl.DataField]}, nil
}

// JSONSchema projects the props object into JSON Schema.
func (s *Schema) JSONSchema() (*js.Schema, error) { return s.props.JSONSchema() }

// PropsName returns the name of the props schema built for a marker.
func PropsName(marker string) string { return marker + "Props" }

// Schema returns the marker's validation schema, building it on first use.
// Shapes the builder cannot express yield ErrConfiguration; such failures are
// not cached.
func (m *Marker) Schema() (*Schema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schema != nil {
		return m.schema, nil
	}
	s, err := m.shapeLocked()
	if err != nil {
		return nil, err
	}
	name := PropsName(m.name)
	props, err := m.builder.BuildSchema(s, name)
	if err != nil {
		m.metrics.SchemaBuild(m.name, metrics.ResultError)
		m.log.Error("schema build failed", "marker", m.name, "shape", s.String(), "error", err)
		if errors.Is(err, intellitype.ErrConfiguration) {
			return nil, fmt.Errorf("marker %s: %w", m.name, err)
		}
		return nil, fmt.Errorf("%w: marker %s: %v", intellitype.ErrConfiguration, m.name, err)
	}
	m.schema = &Schema{name: name, shape: s, props: props}
	m.metrics.SchemaBuild(m.name, metrics.ResultOK)
	m.log.Debug("schema built", "marker", m.name, "schema", name)
	return m.schema, nil
}

// Validate checks data against the marker's shape and returns it wrapped in
// Props. Shape violations are returned as intellitype.Issues.
func (m *Marker) Validate(ctx context.Context, data any) (*Props, error) {
	sch, err := m.Schema()
	if err != nil {
		m.metrics.Validation(m.name, metrics.ResultError)
		return nil, err
	}
	props, err := sch.New(ctx, data)
	if err != nil {
		m.metrics.Validation(m.name, metrics.ResultInvalid)
		m.log.Debug("validation failed", "marker", m.name, "error", err)
		return nil, err
	}
	m.metrics.Validation(m.name, metrics.ResultOK)
	return props, nil
}

// ValidateFrom decodes src (JSON or YAML) with the given enforcement options
// and validates the result. Decoding issues are reported under /data.
func (m *Marker) ValidateFrom(ctx context.Context, src intellitype.Source, opts ...intellitype.ParseOpt) (*Props, error) {
	if n := len(opts); n > 0 && opts[n-1].FailFast {
		ctx = intellitype.WithFailFast(ctx, true)
	}
	data, err := intellitype.Decode(src, opts...)
	if err != nil {
		m.metrics.Validation(m.name, metrics.ResultInvalid)
		return nil, intellitype.RebaseIssues("/"+dsl.DataField, err)
	}
	return m.Validate(ctx, data)
}

// Decode validates data through m and decodes the validated value into T.
func Decode[T any](ctx context.Context, m *Marker, data any) (T, error) {
	var out T
	props, err := m.Validate(ctx, data)
	if err != nil {
		return out, err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(props.Data); err != nil {
		return out, fmt.Errorf("decode %s data: %w", m.name, err)
	}
	return out, nil
}
