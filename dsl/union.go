package dsl

import (
	"context"
	"errors"
	"strings"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/i18n"
	js "github.com/reoring/intellitype/jsonschema"
)

// Union returns a schema accepting a value when any alternative accepts it.
// Alternatives are tried in order and the first success wins. names label the
// alternatives in issue hints and may be nil.
func Union(alts []intellitype.Schema[any], names []string) intellitype.Schema[any] {
	return unionSchema{alts: alts, names: names}
}

type unionSchema struct {
	alts  []intellitype.Schema[any]
	names []string
}

func (u unionSchema) Parse(ctx context.Context, v any) (any, error) {
	errs := make([]error, 0, len(u.alts))
	for _, alt := range u.alts {
		out, err := alt.Parse(ctx, v)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)
	}
	expected := "Union[" + strings.Join(u.names, ", ") + "]"
	return nil, intellitype.Issues{{
		Path:    "/",
		Code:    intellitype.CodeInvalidUnion,
		Message: i18n.T(intellitype.CodeInvalidUnion, nil),
		Hint:    "expected " + expected + ", got " + describe(v),
		Cause:   errors.Join(errs...),
		Params:  map[string]any{"alternatives": len(u.alts)},
	}}
}

func (u unionSchema) Validate(ctx context.Context, v any) error { _, err := u.Parse(ctx, v); return err }

func (u unionSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{AnyOf: make([]*js.Schema, 0, len(u.alts))}
	for _, a := range u.alts {
		s, err := a.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, s)
	}
	return out, nil
}
