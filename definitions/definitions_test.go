package definitions_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/definitions"
	"github.com/reoring/intellitype/marker"
)

func TestLoadFile_RegistersMarkers(t *testing.T) {
	reg, err := definitions.LoadRegistry("testdata/markers.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(reg.Names(), ","); got != "UploadTimesType,ReleaseFiles,Annotation" {
		t.Fatalf("unexpected names: %s", got)
	}

	want := map[string]string{
		"UploadTimesType": "dict[str, str]",
		"ReleaseFiles":    "list[tuple[str, int]]",
		"Annotation":      "Union[Type, GenericAlias, Any]",
	}
	for name, s := range want {
		m, ok := reg.Lookup(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		got, err := m.Shape()
		if err != nil {
			t.Fatalf("%s shape: %v", name, err)
		}
		if got.String() != s {
			t.Fatalf("%s: want %s, got %s", name, s, got)
		}
	}

	m, _ := reg.Lookup("UploadTimesType")
	if m.Description() != "version -> upload time in RFC 3339" {
		t.Fatalf("unexpected description: %q", m.Description())
	}
	if _, err := m.Validate(context.Background(), map[string]any{"1.0.0": "2023-06-01T12:00:00Z"}); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoad_Entries(t *testing.T) {
	f, err := definitions.Load(strings.NewReader("markers:\n  - name: A\n    shape: int\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Markers) != 1 || f.Markers[0].Name != "A" || f.Markers[0].Line != 2 {
		t.Fatalf("unexpected entries:\n%s", spew.Sdump(f.Markers))
	}
}

func TestLoad_MultiDocument(t *testing.T) {
	y := "markers:\n  - name: A\n    shape: int\n---\nmarkers:\n  - name: B\n    shape: str\n"
	f, err := definitions.Load(strings.NewReader(y))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Markers) != 2 || f.Markers[1].Name != "B" {
		t.Fatalf("expected markers from both documents, got:\n%s", spew.Sdump(f.Markers))
	}
}

func TestLoad_Empty(t *testing.T) {
	f, err := definitions.Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.Markers) != 0 {
		t.Fatalf("expected no markers, got %d", len(f.Markers))
	}
}

func TestLoad_DuplicateKey(t *testing.T) {
	y := "markers:\n  - name: A\n    name: B\n    shape: int\n"
	_, err := definitions.Load(strings.NewReader(y))
	var de *definitions.DuplicateKeyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateKeyError, got %T %v", err, err)
	}
	if de.Key != "name" || de.FirstLine != 2 || de.Line != 3 {
		t.Fatalf("unexpected positions: %+v", de)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	for _, y := range []string{
		"marker:\n  - name: A\n",
		"markers:\n  - name: A\n    shpe: int\n",
	} {
		if _, err := definitions.Load(strings.NewReader(y)); err == nil || !strings.Contains(err.Error(), "unknown field") {
			t.Fatalf("expected unknown field error for %q, got %v", y, err)
		}
	}
}

func TestLoad_Malformed(t *testing.T) {
	for _, y := range []string{
		"markers: [",
		"- a\n- b\n",
		"markers: 1\n",
		"markers:\n  - just-a-string\n",
	} {
		if _, err := definitions.Load(strings.NewReader(y)); err == nil {
			t.Fatalf("expected error for %q", y)
		}
	}
}

func TestEntry_Declaration_Errors(t *testing.T) {
	tests := []struct {
		name  string
		entry definitions.Entry
		want  error
	}{
		{"missing name", definitions.Entry{Shape: "int"}, intellitype.ErrConfiguration},
		{"missing shape", definitions.Entry{Name: "A"}, intellitype.ErrConfiguration},
		{"both", definitions.Entry{Name: "A", Shape: "int", Bases: []string{"str"}}, intellitype.ErrConfiguration},
		{"bad shape", definitions.Entry{Name: "A", Shape: "Dict[str"}, intellitype.ErrShape},
		{"bad base", definitions.Entry{Name: "A", Bases: []string{"IntelliType", "List[]"}}, intellitype.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.entry.Declaration()
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	f := &definitions.File{Markers: []definitions.Entry{
		{Name: "A", Shape: "int"},
		{Name: "A", Shape: "str", Line: 7},
	}}
	reg := marker.NewRegistry()
	ms, err := f.Register(reg)
	if !errors.Is(err, intellitype.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 7") {
		t.Fatalf("expected the line in %q", err)
	}
	if len(ms) != 1 || reg.Len() != 1 {
		t.Fatalf("expected the first marker to stay registered")
	}
}

func TestRegister_OnlyBaseMarker(t *testing.T) {
	f := &definitions.File{Markers: []definitions.Entry{
		{Name: "A", Bases: []string{"IntelliType", "Generic[T]"}},
	}}
	if _, err := f.Register(marker.NewRegistry()); !errors.Is(err, intellitype.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := definitions.LoadFile("testdata/nope.yaml"); err == nil {
		t.Fatalf("expected error")
	}
}
