// Package definitions loads marker declarations from YAML files.
//
//	markers:
//	  - name: UploadTimesType
//	    description: version -> upload time
//	    shape: Dict[str, str]
//	  - name: Annotation
//	    bases: [IntelliType, "Tuple[as_union, Type, GenericAlias, Any]", "Generic[T]"]
//
// An entry gives its shape either as a single expression (shape) or as a list
// of base expressions (bases) resolved the way marker.Declaration does.
// Streams may hold several documents; their markers are concatenated.
package definitions

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/shape"
)

// File is a parsed definitions file.
type File struct {
	Markers []Entry `yaml:"markers"`
}

// Entry declares one marker.
type Entry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Shape       string   `yaml:"shape,omitempty"`
	Bases       []string `yaml:"bases,omitempty"`

	// Line is the entry's line in the source, 0 when built in code.
	Line int `yaml:"-"`
}

// Load reads every YAML document from r. Unknown fields and duplicate keys
// are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	out := &File{}
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("failed to parse definitions YAML: %w", err)
		}
		if err := checkDuplicateKeys(&root); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(&root)
		if err != nil {
			return nil, err
		}
		out.Markers = append(out.Markers, doc.Markers...)
	}
}

// decodeDocument decodes one document strictly and records entry lines.
func decodeDocument(root *yaml.Node) (*File, error) {
	var doc File
	if len(root.Content) == 0 {
		return &doc, nil
	}
	body := root.Content[0]
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("definitions: line %d: expected a mapping with a markers list", body.Line)
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key, val := body.Content[i], body.Content[i+1]
		if key.Value != "markers" {
			return nil, fmt.Errorf("definitions: line %d: unknown field %q", key.Line, key.Value)
		}
		if val.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("definitions: line %d: markers must be a list", val.Line)
		}
		for _, item := range val.Content {
			var e Entry
			if err := decodeEntry(item, &e); err != nil {
				return nil, err
			}
			e.Line = item.Line
			doc.Markers = append(doc.Markers, e)
		}
	}
	return &doc, nil
}

var entryFields = map[string]bool{"name": true, "description": true, "shape": true, "bases": true}

func decodeEntry(n *yaml.Node, e *Entry) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("definitions: line %d: marker entry must be a mapping", n.Line)
	}
	for i := 0; i < len(n.Content); i += 2 {
		if k := n.Content[i]; !entryFields[k.Value] {
			return fmt.Errorf("definitions: line %d: unknown field %q", k.Line, k.Value)
		}
	}
	if err := n.Decode(e); err != nil {
		return fmt.Errorf("definitions: line %d: %w", n.Line, err)
	}
	return nil
}

// LoadFile loads the definitions file at path.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Declaration parses the entry's shape expressions.
func (e Entry) Declaration() (marker.Declaration, error) {
	switch {
	case e.Name == "":
		return marker.Declaration{}, e.errorf("name is required")
	case e.Shape != "" && len(e.Bases) > 0:
		return marker.Declaration{}, e.errorf("shape and bases are mutually exclusive")
	case e.Shape != "":
		s, err := shape.Parse(e.Shape)
		if err != nil {
			return marker.Declaration{}, e.wrap(err)
		}
		return marker.Declaration{Shape: s}, nil
	case len(e.Bases) > 0:
		bases := make([]shape.Shape, 0, len(e.Bases))
		for _, expr := range e.Bases {
			s, err := shape.Parse(expr)
			if err != nil {
				return marker.Declaration{}, e.wrap(err)
			}
			bases = append(bases, s)
		}
		return marker.Declaration{Bases: bases}, nil
	}
	return marker.Declaration{}, e.errorf("one of shape or bases is required")
}

func (e Entry) where() string {
	if e.Line > 0 {
		return fmt.Sprintf("definitions: line %d: marker %q", e.Line, e.Name)
	}
	return fmt.Sprintf("definitions: marker %q", e.Name)
}

func (e Entry) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", e.where(), intellitype.Configurationf(format, args...))
}

func (e Entry) wrap(err error) error {
	return fmt.Errorf("%s: %w", e.where(), err)
}

// Register declares every marker of f in reg, in file order. It stops at the
// first failure; markers declared before it stay registered.
func (f *File) Register(reg *marker.Registry) ([]*marker.Marker, error) {
	out := make([]*marker.Marker, 0, len(f.Markers))
	for _, e := range f.Markers {
		decl, err := e.Declaration()
		if err != nil {
			return out, err
		}
		m, err := reg.DefineDeclaration(e.Name, e.Description, decl)
		if err != nil {
			return out, e.wrap(err)
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadRegistry loads path into a new registry built with opts.
func LoadRegistry(path string, opts ...marker.Option) (*marker.Registry, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := marker.NewRegistry(opts...)
	if _, err := f.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
