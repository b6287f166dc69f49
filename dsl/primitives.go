package dsl

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/i18n"
	js "github.com/reoring/intellitype/jsonschema"
)

// String returns the string schema. Only Go strings are accepted.
func String() intellitype.Schema[any] { return stringSchema{} }

// Int returns the integer schema. It accepts Go integers, integral floats and
// integral json.Number values and produces int64.
func Int() intellitype.Schema[any] { return intSchema{} }

// Float returns the number schema. It accepts any Go number or json.Number and
// produces float64.
func Float() intellitype.Schema[any] { return floatSchema{} }

// Bool returns the boolean schema.
func Bool() intellitype.Schema[any] { return boolSchema{} }

// Bytes returns the bytes schema; strings are accepted and converted.
func Bytes() intellitype.Schema[any] { return bytesSchema{} }

// Null returns the schema accepting only nil.
func Null() intellitype.Schema[any] { return nullSchema{} }

// AnyValue returns the schema accepting every value unchanged.
func AnyValue() intellitype.Schema[any] { return anySchema{} }

func invalidType(expected string, v any) intellitype.Issues {
	return intellitype.Issues{{
		Path:    "/",
		Code:    intellitype.CodeInvalidType,
		Message: i18n.T(intellitype.CodeInvalidType, map[string]string{"expected": expected}),
		Hint:    "expected " + expected + ", got " + describe(v),
		Params:  map[string]any{"expected": expected, "got": describe(v)},
	}}
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalidType("str", v)
	}
	return s, nil
}
func (s stringSchema) Validate(ctx context.Context, v any) error { _, err := s.Parse(ctx, v); return err }
func (stringSchema) JSONSchema() (*js.Schema, error)            { return &js.Schema{Type: "string"}, nil }

type intSchema struct{}

func (intSchema) Parse(ctx context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, overflow(strconv.FormatUint(u, 10))
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return integralFloat(rv.Float(), v)
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, invalidType("int", v)
		}
		return integralFloat(f, v)
	}
	return nil, invalidType("int", v)
}

func integralFloat(f float64, orig any) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, invalidType("int", orig)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return nil, overflow(fmt.Sprint(orig))
	}
	return int64(f), nil
}

func overflow(got string) intellitype.Issues {
	return intellitype.Issues{{Path: "/", Code: intellitype.CodeOverflow, Message: i18n.T(intellitype.CodeOverflow, nil), Hint: got + " does not fit int64"}}
}

func (s intSchema) Validate(ctx context.Context, v any) error { _, err := s.Parse(ctx, v); return err }
func (intSchema) JSONSchema() (*js.Schema, error)            { return &js.Schema{Type: "integer"}, nil }

type floatSchema struct{}

func (floatSchema) Parse(ctx context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
	}
	return nil, invalidType("float", v)
}
func (s floatSchema) Validate(ctx context.Context, v any) error { _, err := s.Parse(ctx, v); return err }
func (floatSchema) JSONSchema() (*js.Schema, error)            { return &js.Schema{Type: "number"}, nil }

type boolSchema struct{}

func (boolSchema) Parse(ctx context.Context, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, invalidType("bool", v)
	}
	return b, nil
}
func (s boolSchema) Validate(ctx context.Context, v any) error { _, err := s.Parse(ctx, v); return err }
func (boolSchema) JSONSchema() (*js.Schema, error)            { return &js.Schema{Type: "boolean"}, nil }

type bytesSchema struct{}

func (bytesSchema) Parse(ctx context.Context, v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return nil, invalidType("bytes", v)
}
func (s bytesSchema) Validate(ctx context.Context, v any) error { _, err := s.Parse(ctx, v); return err }
func (bytesSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "binary"}, nil
}

type nullSchema struct{}

func (nullSchema) Parse(ctx context.Context, v any) (any, error) {
	if v != nil {
		return nil, invalidType("None", v)
	}
	return nil, nil
}
func (s nullSchema) Validate(ctx context.Context, v any) error { _, err := s.Parse(ctx, v); return err }
func (nullSchema) JSONSchema() (*js.Schema, error)            { return &js.Schema{Type: "null"}, nil }

type anySchema struct{ description string }

func (anySchema) Parse(ctx context.Context, v any) (any, error) { return v, nil }
func (anySchema) Validate(ctx context.Context, v any) error     { return nil }
func (a anySchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Description: a.description}, nil
}

// Bound returns a schema for an arbitrary Go type: values must be assignable
// to t. Pointers to assignable values are dereferenced.
func Bound(t reflect.Type) intellitype.Schema[any] { return boundSchema{typ: t} }

type boundSchema struct{ typ reflect.Type }

func (b boundSchema) Parse(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, invalidType(b.typ.String(), v)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(b.typ) {
		return v, nil
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type().AssignableTo(b.typ) {
		return rv.Elem().Interface(), nil
	}
	return nil, invalidType(b.typ.String(), v)
}
func (b boundSchema) Validate(ctx context.Context, v any) error { _, err := b.Parse(ctx, v); return err }
func (b boundSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Description: "Go type " + b.typ.String()}, nil
}
