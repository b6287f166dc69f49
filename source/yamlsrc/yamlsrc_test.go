package yamlsrc_test

import (
	"io"
	"testing"

	eng "github.com/reoring/intellitype/internal/engine"
	"github.com/reoring/intellitype/source/yamlsrc"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next token: %v", err)
		}
		out = append(out, tok)
	}
}

func TestScalars(t *testing.T) {
	toks := kinds(t, yamlsrc.NewBytes([]byte("[~, true, 0x10, 1.5, hello, '42']")))
	want := []eng.Token{
		{Kind: eng.KindBeginArray},
		{Kind: eng.KindNull},
		{Kind: eng.KindBool, Bool: true},
		{Kind: eng.KindNumber, Number: "16"},
		{Kind: eng.KindNumber, Number: "1.5"},
		{Kind: eng.KindString, String: "hello"},
		{Kind: eng.KindString, String: "42"},
		{Kind: eng.KindEndArray},
	}
	if len(toks) != len(want) {
		t.Fatalf("want %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i := range want {
		want[i].Offset = -1
		if toks[i] != want[i] {
			t.Fatalf("token %d: want %+v, got %+v", i, want[i], toks[i])
		}
	}
}

func TestAliasesAndDuplicateKeysKept(t *testing.T) {
	v, err := eng.DecodeAny(yamlsrc.NewBytes([]byte("base: &b {x: 1}\ncopy: *b\n")), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := v.(map[string]any)
	if _, ok := m["copy"].(map[string]any)["x"]; !ok {
		t.Fatalf("alias not expanded: %#v", m)
	}

	// duplicates reach the token stream so enforcement can see them
	toks := kinds(t, yamlsrc.NewBytes([]byte("a: 1\na: 2\n")))
	keys := 0
	for _, tok := range toks {
		if tok.Kind == eng.KindKey {
			keys++
		}
	}
	if keys != 2 {
		t.Fatalf("expected both keys, got %d", keys)
	}
}

func TestEmptyAndInvalid(t *testing.T) {
	if _, err := yamlsrc.NewBytes(nil).NextToken(); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := yamlsrc.NewBytes([]byte("a: [")).NextToken(); err == nil || err == io.EOF {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if loc := yamlsrc.NewBytes([]byte("a: 1")).Location(); loc != -1 {
		t.Fatalf("expected unknown location, got %d", loc)
	}
}
