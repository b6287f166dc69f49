package dsl_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/dsl"
	"github.com/reoring/intellitype/shape"
)

func mustCompile(t *testing.T, expr string) intellitype.Schema[any] {
	t.Helper()
	s, err := dsl.FromShape(shape.MustNormalize(shape.MustParse(expr)))
	if err != nil {
		t.Fatalf("compile %s: %v", expr, err)
	}
	return s
}

func firstIssue(t *testing.T, err error) intellitype.Issue {
	t.Helper()
	iss, ok := intellitype.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss[0]
}

func TestFromShape_DictOfStr(t *testing.T) {
	ctx := context.Background()
	s := mustCompile(t, "Dict[str, str]")

	v, err := s.Parse(ctx, map[string]any{"1.0.0": "2023-06-01T12:00:00Z"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(v, map[string]any{"1.0.0": "2023-06-01T12:00:00Z"}) {
		t.Fatalf("unexpected value: %#v", v)
	}

	_, err = s.Parse(ctx, map[string]any{"invalid_key": 123})
	it := firstIssue(t, err)
	if it.Code != intellitype.CodeInvalidType || it.Path != "/invalid_key" {
		t.Fatalf("expected invalid_type at /invalid_key, got %+v", it)
	}

	// typed Go maps are accepted too
	if _, err := s.Parse(ctx, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("unexpected err for map[string]string: %v", err)
	}
}

func TestFromShape_ListOfTuples(t *testing.T) {
	ctx := context.Background()
	s := mustCompile(t, "List[Tuple[str, int]]")

	v, err := s.Parse(ctx, []any{[]any{"1.0.1", json.Number("1")}, []any{"1.0.0", 2}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []any{[]any{"1.0.1", int64(1)}, []any{"1.0.0", int64(2)}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("expected %#v, got %#v", want, v)
	}

	_, err = s.Parse(ctx, []any{[]any{"1.0.1", 1}, []any{"1.0.0", "two"}})
	if it := firstIssue(t, err); it.Path != "/1/1" {
		t.Fatalf("expected issue at /1/1, got %+v", it)
	}

	_, err = s.Parse(ctx, []any{[]any{"1.0.1"}})
	if it := firstIssue(t, err); it.Code != intellitype.CodeTooShort || it.Path != "/0" {
		t.Fatalf("expected too_short at /0, got %+v", it)
	}
	_, err = s.Parse(ctx, []any{[]any{"1.0.1", 1, 2}})
	if it := firstIssue(t, err); it.Code != intellitype.CodeTooLong {
		t.Fatalf("expected too_long, got %+v", it)
	}
}

func TestFromShape_CollectsIssuesUnlessFailFast(t *testing.T) {
	s := mustCompile(t, "list[int]")
	in := []any{"a", 1, "b"}

	_, err := s.Parse(context.Background(), in)
	iss, _ := intellitype.AsIssues(err)
	if len(iss) != 2 || iss[0].Path != "/0" || iss[1].Path != "/2" {
		t.Fatalf("expected issues at /0 and /2, got %v", iss)
	}

	_, err = s.Parse(intellitype.WithFailFast(context.Background(), true), in)
	iss, _ = intellitype.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("fail-fast should stop at the first issue, got %v", iss)
	}
}

func TestFromShape_Numbers(t *testing.T) {
	ctx := context.Background()
	i := mustCompile(t, "int")
	for _, in := range []any{3, int8(3), uint16(3), 3.0, json.Number("3"), json.Number("3.0")} {
		v, err := i.Parse(ctx, in)
		if err != nil || v != int64(3) {
			t.Fatalf("int(%#v): got %#v, %v", in, v, err)
		}
	}
	for _, in := range []any{3.5, "3", true, json.Number("1e400")} {
		if _, err := i.Parse(ctx, in); err == nil {
			t.Fatalf("int(%#v): expected error", in)
		}
	}
	_, err := i.Parse(ctx, uint64(1<<63))
	if it := firstIssue(t, err); it.Code != intellitype.CodeOverflow {
		t.Fatalf("expected overflow, got %+v", it)
	}

	f := mustCompile(t, "float")
	if v, err := f.Parse(ctx, json.Number("1.5")); err != nil || v != 1.5 {
		t.Fatalf("float: got %#v, %v", v, err)
	}
	if v, err := f.Parse(ctx, 2); err != nil || v != 2.0 {
		t.Fatalf("float from int: got %#v, %v", v, err)
	}
}

func TestFromShape_Union(t *testing.T) {
	ctx := context.Background()
	s := mustCompile(t, "Tuple[as_union, int, List[str]]")

	if v, err := s.Parse(ctx, 7); err != nil || v != int64(7) {
		t.Fatalf("int branch: %#v, %v", v, err)
	}
	if _, err := s.Parse(ctx, []any{"a", "b"}); err != nil {
		t.Fatalf("list branch: %v", err)
	}
	_, err := s.Parse(ctx, map[string]any{})
	it := firstIssue(t, err)
	if it.Code != intellitype.CodeInvalidUnion {
		t.Fatalf("expected invalid_union, got %+v", it)
	}
	if it.Hint != "expected Union[int, list[str]], got map[string]interface {}" {
		t.Fatalf("unexpected hint: %q", it.Hint)
	}
	if it.Cause == nil {
		t.Fatalf("branch errors should be kept as cause")
	}
}

func TestFromShape_SetAndVarTuple(t *testing.T) {
	ctx := context.Background()
	v, err := mustCompile(t, "set[int]").Parse(ctx, []any{1, 2, 1})
	if err != nil || !reflect.DeepEqual(v, []any{int64(1), int64(2)}) {
		t.Fatalf("set: %#v, %v", v, err)
	}
	v, err = mustCompile(t, "tuple[str, ...]").Parse(ctx, []string{"a", "b", "c"})
	if err != nil || !reflect.DeepEqual(v, []any{"a", "b", "c"}) {
		t.Fatalf("var tuple: %#v, %v", v, err)
	}
}

func TestFromShape_NonStringKeys(t *testing.T) {
	v, err := mustCompile(t, "dict[int, bool]").Parse(context.Background(), map[int]bool{1: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(v, map[any]any{int64(1): true}) {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestFromShape_TupleKeys(t *testing.T) {
	ctx := context.Background()
	v, err := mustCompile(t, "dict[tuple[int, int], str]").Parse(ctx, map[[2]int]string{{1, 2}: "a"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[any]any{[2]any{int64(1), int64(2)}: "a"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("unexpected value: %#v", v)
	}

	v, err = mustCompile(t, "dict[tuple[str, ...], int]").Parse(ctx, map[[3]string]int{{"a", "b", "c"}: 1})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(v, map[any]any{[3]any{"a", "b", "c"}: int64(1)}) {
		t.Fatalf("unexpected value: %#v", v)
	}
}

type customType struct{ Name string }

func TestFromShape_ArbitraryTypes(t *testing.T) {
	ctx := context.Background()

	bound, err := dsl.FromShape(shape.TypeOf[customType]())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := bound.Parse(ctx, customType{Name: "x"}); err != nil {
		t.Fatalf("value: %v", err)
	}
	if v, err := bound.Parse(ctx, &customType{Name: "y"}); err != nil || v.(customType).Name != "y" {
		t.Fatalf("pointer: %#v, %v", v, err)
	}
	if _, err := bound.Parse(ctx, "nope"); err == nil {
		t.Fatalf("expected invalid_type for a string")
	}

	// unknown names are accepted structurally
	loose := mustCompile(t, "List[GenericAlias]")
	if _, err := loose.Parse(ctx, []any{1, "x", nil}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestFromShape_ConfigurationErrors(t *testing.T) {
	cases := []shape.Shape{
		shape.Generic(shape.Named("T")),
		shape.Of("Callable", shape.Int, shape.Str),
		shape.Of(shape.ContainerDict, shape.Str),
		shape.ListOf(shape.Ellipsis),
		shape.TupleOf(shape.UnionMarker, shape.Int, shape.Str),
		{},
	}
	for _, s := range cases {
		_, err := dsl.FromShape(s)
		if !errors.Is(err, intellitype.ErrConfiguration) {
			t.Fatalf("%s: expected ErrConfiguration, got %v", s, err)
		}
	}
}
