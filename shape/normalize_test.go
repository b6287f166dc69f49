package shape_test

import (
	"errors"
	"testing"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/shape"
)

func TestNormalize_IdentityWithoutMarker(t *testing.T) {
	cases := []shape.Shape{
		shape.Str,
		shape.DictOf(shape.Str, shape.Str),
		shape.ListOf(shape.TupleOf(shape.Str, shape.Int)),
		shape.Union(shape.Int, shape.ListOf(shape.Str)),
		shape.Named("CustomType"),
	}
	for _, s := range cases {
		got, err := shape.Normalize(s)
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", s, err)
		}
		if !got.Equal(s) {
			t.Fatalf("expected %s unchanged, got %s", s, got)
		}
	}
}

func TestNormalize_TopLevelMarker(t *testing.T) {
	raw := shape.TupleOf(shape.UnionMarker, shape.Int, shape.Str)
	got, err := shape.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Kind() != shape.KindUnion {
		t.Fatalf("expected union, got %s", got)
	}
	if !got.Equal(shape.Union(shape.Str, shape.Int)) {
		t.Fatalf("expected Union[int, str], got %s", got)
	}
	if got.String() != "Union[int, str]" {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestNormalize_NestedMarkers(t *testing.T) {
	// dict[str, tuple[as_union, int, list[tuple[as_union, str, bool]]]]
	inner := shape.TupleOf(shape.UnionMarker, shape.Str, shape.Bool)
	raw := shape.DictOf(shape.Str, shape.TupleOf(shape.UnionMarker, shape.Int, shape.ListOf(inner)))

	got, err := shape.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := shape.DictOf(shape.Str, shape.Union(shape.Int, shape.ListOf(shape.Union(shape.Str, shape.Bool))))
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if shape.ContainsUnionMarker(got) {
		t.Fatalf("marker survived normalization: %s", got)
	}
}

func TestNormalize_MarkerInsideUnionAlternative(t *testing.T) {
	raw := shape.Union(shape.Int, shape.ListOf(shape.TupleOf(shape.UnionMarker, shape.Str, shape.Float)))
	got, err := shape.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := shape.Union(shape.Int, shape.ListOf(shape.Union(shape.Str, shape.Float)))
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNormalize_MarkerAcrossContainers(t *testing.T) {
	// the container identity is irrelevant once the marker leads it
	for _, container := range []string{shape.ContainerTuple, shape.ContainerList, shape.ContainerDict} {
		got, err := shape.Normalize(shape.Of(container, shape.UnionMarker, shape.Int, shape.None))
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", container, err)
		}
		if !got.Equal(shape.Optional(shape.Int)) {
			t.Fatalf("%s: expected Union[int, None], got %s", container, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raws := []shape.Shape{
		shape.TupleOf(shape.UnionMarker, shape.Int, shape.Str),
		shape.ListOf(shape.TupleOf(shape.UnionMarker, shape.Int, shape.TupleOf(shape.UnionMarker, shape.Str, shape.Bool))),
		shape.DictOf(shape.Str, shape.Str),
	}
	for _, raw := range raws {
		once := shape.MustNormalize(raw)
		twice, err := shape.Normalize(once)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !twice.Equal(once) {
			t.Fatalf("not idempotent: %s vs %s", once, twice)
		}
	}
}

func TestNormalize_ExplicitUnionEqualsMarkerForm(t *testing.T) {
	explicit := shape.MustParse("Union[int, Union[str, bool]]")
	marker := shape.MustNormalize(shape.MustParse("Tuple[as_union, int, str, bool]"))
	if !explicit.Equal(marker) {
		t.Fatalf("expected %s == %s", explicit, marker)
	}
}

func TestNormalize_Malformed(t *testing.T) {
	cases := map[string]shape.Shape{
		"marker only":       shape.TupleOf(shape.UnionMarker),
		"bare marker":       shape.UnionMarker,
		"non-leading":       shape.TupleOf(shape.Int, shape.UnionMarker, shape.Str),
		"nested marker only": shape.ListOf(shape.TupleOf(shape.UnionMarker)),
		"zero":              {},
	}
	for name, raw := range cases {
		_, err := shape.Normalize(raw)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !errors.Is(err, intellitype.ErrShape) {
			t.Fatalf("%s: expected ErrShape, got %v", name, err)
		}
		var se *shape.Error
		if !errors.As(err, &se) {
			t.Fatalf("%s: expected *shape.Error, got %T", name, err)
		}
	}
}
