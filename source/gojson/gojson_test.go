package gojson_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	eng "github.com/reoring/intellitype/internal/engine"
	"github.com/reoring/intellitype/source/gojson"
)

func TestDecode(t *testing.T) {
	v, err := eng.DecodeAny(gojson.NewBytes([]byte(`{"a":[1,"x",true,null],"b":{"c":12345678901234567890}}`)), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("1"), "x", true, nil},
		"b": map[string]any{"c": json.Number("12345678901234567890")},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("want %#v, got %#v", want, v)
	}
}

func TestKeysAreKeyTokens(t *testing.T) {
	src := gojson.NewBytes([]byte(`{"k":"v"}`))
	var kinds []eng.Kind
	for i := 0; i < 4; i++ {
		tok, err := src.NextToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []eng.Kind{eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("want %v, got %v", want, kinds)
	}
}

func TestLocationAdvances(t *testing.T) {
	src := gojson.NewReader(strings.NewReader(`["abc"]`))
	if _, err := src.NextToken(); err != nil {
		t.Fatalf("token: %v", err)
	}
	if src.Location() <= 0 {
		t.Fatalf("expected a positive location, got %d", src.Location())
	}
}
