package dsl

import (
	"context"
	"reflect"
	"strconv"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/i18n"
	js "github.com/reoring/intellitype/jsonschema"
)

// sequence returns the elements of a slice or array value. Strings and byte
// slices are not sequences.
func sequence(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// parseElems validates each element with the schema returned by at and
// collects issues under the element index, stopping early in fail-fast mode.
func parseElems(ctx context.Context, elems []any, at func(int) intellitype.Schema[any]) ([]any, error) {
	out := make([]any, len(elems))
	var iss intellitype.Issues
	for i, e := range elems {
		v, err := at(i).Parse(ctx, e)
		if err != nil {
			iss = intellitype.AppendIssues(iss, intellitype.RebaseIssues("/"+strconv.Itoa(i), err)...)
			if intellitype.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// List returns a schema for sequences whose elements all match elem.
func List(elem intellitype.Schema[any]) intellitype.Schema[any] { return listSchema{elem: elem} }

// Set is List with duplicate elements removed after validation.
func Set(elem intellitype.Schema[any]) intellitype.Schema[any] {
	return listSchema{elem: elem, unique: true}
}

type listSchema struct {
	elem   intellitype.Schema[any]
	unique bool
}

func (l listSchema) Parse(ctx context.Context, v any) (any, error) {
	elems, ok := sequence(v)
	if !ok {
		if l.unique {
			return nil, invalidType("set", v)
		}
		return nil, invalidType("list", v)
	}
	out, err := parseElems(ctx, elems, func(int) intellitype.Schema[any] { return l.elem })
	if err != nil {
		return nil, err
	}
	if l.unique {
		out = dedupe(out)
	}
	return out, nil
}

func dedupe(in []any) []any {
	out := make([]any, 0, len(in))
next:
	for _, v := range in {
		for _, seen := range out {
			if reflect.DeepEqual(seen, v) {
				continue next
			}
		}
		out = append(out, v)
	}
	return out
}

func (l listSchema) Validate(ctx context.Context, v any) error { _, err := l.Parse(ctx, v); return err }

func (l listSchema) JSONSchema() (*js.Schema, error) {
	items, err := l.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: items, UniqueItems: l.unique}, nil
}

// Tuple returns a schema for fixed-length sequences; element i must match
// elems[i].
func Tuple(elems ...intellitype.Schema[any]) intellitype.Schema[any] {
	return tupleSchema{elems: elems}
}

// VarTuple returns a schema for variable-length tuples (tuple[X, ...]).
func VarTuple(elem intellitype.Schema[any]) intellitype.Schema[any] {
	return tupleSchema{elems: []intellitype.Schema[any]{elem}, variadic: true}
}

type tupleSchema struct {
	elems    []intellitype.Schema[any]
	variadic bool
}

func (t tupleSchema) Parse(ctx context.Context, v any) (any, error) {
	elems, ok := sequence(v)
	if !ok {
		return nil, invalidType("tuple", v)
	}
	if t.variadic {
		return parseElems(ctx, elems, func(int) intellitype.Schema[any] { return t.elems[0] })
	}
	want := strconv.Itoa(len(t.elems))
	switch {
	case len(elems) < len(t.elems):
		return nil, intellitype.Issues{{Path: "/", Code: intellitype.CodeTooShort, Message: i18n.T(intellitype.CodeTooShort, nil), Hint: "expected " + want + " items, got " + strconv.Itoa(len(elems))}}
	case len(elems) > len(t.elems):
		return nil, intellitype.Issues{{Path: "/", Code: intellitype.CodeTooLong, Message: i18n.T(intellitype.CodeTooLong, nil), Hint: "expected " + want + " items, got " + strconv.Itoa(len(elems))}}
	}
	return parseElems(ctx, elems, func(i int) intellitype.Schema[any] { return t.elems[i] })
}

func (t tupleSchema) Validate(ctx context.Context, v any) error { _, err := t.Parse(ctx, v); return err }

func (t tupleSchema) JSONSchema() (*js.Schema, error) {
	if t.variadic {
		items, err := t.elems[0].JSONSchema()
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	}
	out := &js.Schema{Type: "array", Items: false, MinItems: js.IntPtr(len(t.elems)), MaxItems: js.IntPtr(len(t.elems))}
	for _, e := range t.elems {
		s, err := e.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.PrefixItems = append(out.PrefixItems, s)
	}
	return out, nil
}

// Dict returns a schema for mappings whose keys match key and values match
// value. String keys produce map[string]any; any other key produces
// map[any]any, with sequence keys (tuple, list, set) stored as [N]any arrays.
func Dict(key, value intellitype.Schema[any]) intellitype.Schema[any] {
	return dictSchema{key: key, val: value}
}

type dictSchema struct {
	key intellitype.Schema[any]
	val intellitype.Schema[any]
}

func (d dictSchema) Parse(ctx context.Context, v any) (any, error) {
	if v == nil || reflect.TypeOf(v).Kind() != reflect.Map {
		return nil, invalidType("dict", v)
	}
	rv := reflect.ValueOf(v)
	keys := make([]any, 0, rv.Len())
	vals := make([]any, 0, rv.Len())
	stringKeys := true
	var iss intellitype.Issues
	it := rv.MapRange()
	for it.Next() {
		rawKey := it.Key().Interface()
		path := intellitype.JoinPointer("", keyToken(rawKey))
		k, err := d.key.Parse(ctx, rawKey)
		if err != nil {
			iss = intellitype.AppendIssues(iss, keyIssues(path, err)...)
			if intellitype.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		val, err := d.val.Parse(ctx, it.Value().Interface())
		if err != nil {
			iss = intellitype.AppendIssues(iss, intellitype.RebaseIssues(path, err)...)
			if intellitype.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		if _, ok := k.(string); !ok {
			stringKeys = false
			hk, ok := hashableKey(k)
			if !ok {
				iss = intellitype.AppendIssues(iss, intellitype.Issue{
					Path:    path,
					Code:    intellitype.CodeInvalidType,
					Message: i18n.T(intellitype.CodeInvalidType, nil),
					Hint:    "invalid key: unhashable " + describe(k),
				})
				if intellitype.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			k = hk
		}
		keys = append(keys, k)
		vals = append(vals, val)
	}
	if len(iss) > 0 {
		sortIssues(iss)
		return nil, iss
	}
	if stringKeys {
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[k.(string)] = vals[i]
		}
		return out, nil
	}
	out := make(map[any]any, len(keys))
	for i, k := range keys {
		out[k] = vals[i]
	}
	return out, nil
}

var anyType = reflect.TypeFor[any]()

// hashableKey converts parsed sequence keys into [N]any arrays so they can be
// used as map keys. It reports false for values that stay unhashable.
func hashableKey(k any) (any, bool) {
	if k == nil {
		return nil, true
	}
	if elems, ok := k.([]any); ok {
		arr := reflect.New(reflect.ArrayOf(len(elems), anyType)).Elem()
		for i, e := range elems {
			he, ok := hashableKey(e)
			if !ok {
				return nil, false
			}
			if he != nil {
				arr.Index(i).Set(reflect.ValueOf(he))
			}
		}
		return arr.Interface(), true
	}
	return k, reflect.TypeOf(k).Comparable()
}

func keyToken(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return describeKey(k)
}

// keyIssues reports key failures at the key's own path, hinting that the key
// rather than the value is wrong.
func keyIssues(path string, err error) intellitype.Issues {
	out := intellitype.RebaseIssues(path, err)
	for i := range out {
		out[i].Hint = "invalid key: " + out[i].Hint
	}
	return out
}

func (d dictSchema) Validate(ctx context.Context, v any) error { _, err := d.Parse(ctx, v); return err }

func (d dictSchema) JSONSchema() (*js.Schema, error) {
	val, err := d.val.JSONSchema()
	if err != nil {
		return nil, err
	}
	key, err := d.key.JSONSchema()
	if err != nil {
		return nil, err
	}
	out := &js.Schema{Type: "object", AdditionalProperties: val}
	if key.Type == "string" && key.Format == "" {
		return out, nil
	}
	out.PropertyNames = key
	return out, nil
}
