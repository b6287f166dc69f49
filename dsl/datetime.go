package dsl

import (
	"context"
	"time"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/i18n"
	js "github.com/reoring/intellitype/jsonschema"
)

// DateTime returns the schema for instants. It accepts time.Time values and
// RFC 3339 strings (fractional seconds optional) and produces time.Time.
func DateTime() intellitype.Schema[any] { return dateTimeSchema{} }

type dateTimeSchema struct{}

func (dateTimeSchema) Parse(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	case string:
		parsed, err := parseRFC3339(t)
		if err != nil {
			return nil, intellitype.Issues{{
				Path:    "/",
				Code:    intellitype.CodeInvalidFormat,
				Message: i18n.T(intellitype.CodeInvalidFormat, nil),
				Hint:    "expected an RFC 3339 date-time, got " + quote(t),
				Cause:   err,
			}}
		}
		return parsed, nil
	}
	return nil, invalidType("datetime", v)
}

func (d dateTimeSchema) Validate(ctx context.Context, v any) error { _, err := d.Parse(ctx, v); return err }

func (dateTimeSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func quote(s string) string {
	const limit = 40
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return `"` + s + `"`
}
