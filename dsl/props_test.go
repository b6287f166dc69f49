package dsl_test

import (
	"context"
	"testing"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/dsl"
	"github.com/reoring/intellitype/jsonschema"
	"github.com/reoring/intellitype/shape"
)

func TestPropsBuilder(t *testing.T) {
	ctx := context.Background()
	s, err := dsl.PropsBuilder{}.BuildSchema(shape.DictOf(shape.Str, shape.Str), "UploadTimesTypeProps")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	out, err := s.Parse(ctx, map[string]any{"data": map[string]any{"1.0.0": "2023-06-01T12:00:00Z"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out["data"].(map[string]any)["1.0.0"] != "2023-06-01T12:00:00Z" {
		t.Fatalf("unexpected props: %#v", out)
	}

	_, err = s.Parse(ctx, map[string]any{"data": map[string]any{"invalid_key": 123}})
	if it := firstIssue(t, err); it.Path != "/data/invalid_key" {
		t.Fatalf("expected issue at /data/invalid_key, got %+v", it)
	}

	_, err = s.Parse(ctx, map[string]any{"extra": 1})
	iss, _ := intellitype.AsIssues(err)
	if len(iss) != 2 || iss[0].Code != intellitype.CodeRequired || iss[1].Code != intellitype.CodeUnknownKey {
		t.Fatalf("expected required + unknown_key, got %v", iss)
	}
}

func TestPropsBuilder_JSONSchema(t *testing.T) {
	s, err := dsl.PropsBuilder{}.BuildSchema(shape.ListOf(shape.TupleOf(shape.Str, shape.Float)), "RelativeStabilityTypeProps")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	sch, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sch.Title != "RelativeStabilityTypeProps" || sch.Type != "object" || len(sch.Required) != 1 || sch.Required[0] != "data" {
		t.Fatalf("unexpected object schema: %+v", sch)
	}
	data := sch.Properties["data"]
	if data.Type != "array" {
		t.Fatalf("expected array, got %+v", data)
	}
	items := data.Items.(*jsonschema.Schema)
	if len(items.PrefixItems) != 2 || items.PrefixItems[0].Type != "string" || items.PrefixItems[1].Type != "number" {
		t.Fatalf("unexpected tuple projection: %+v", items)
	}
}

func TestObject_RequireUndeclared(t *testing.T) {
	if _, err := dsl.Object().Field("a", dsl.String()).Require("b").Build(); err == nil {
		t.Fatalf("expected configuration error")
	}
}
