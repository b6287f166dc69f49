// Package yamlsrc exposes a YAML document as an engine.TokenSource so YAML
// input goes through the same decode and enforcement path as JSON.
package yamlsrc

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/intellitype/internal/engine"
)

type source struct {
	toks []eng.Token
	pos  int
	err  error
}

// NewReader reads the first YAML document from r.
func NewReader(r io.Reader) eng.TokenSource {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return &source{err: err}
	}
	s := &source{}
	if err := s.emit(&doc); err != nil {
		return &source{err: err}
	}
	return s
}

// NewBytes reads the first YAML document from b.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) emit(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			s.push(eng.Token{Kind: eng.KindNull})
			return nil
		}
		return s.emit(n.Content[0])
	case yaml.AliasNode:
		return s.emit(n.Alias)
	case yaml.MappingNode:
		s.push(eng.Token{Kind: eng.KindBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			s.push(eng.Token{Kind: eng.KindKey, String: n.Content[i].Value})
			if err := s.emit(n.Content[i+1]); err != nil {
				return err
			}
		}
		s.push(eng.Token{Kind: eng.KindEndObject})
	case yaml.SequenceNode:
		s.push(eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := s.emit(c); err != nil {
				return err
			}
		}
		s.push(eng.Token{Kind: eng.KindEndArray})
	case yaml.ScalarNode:
		return s.scalar(n)
	default:
		return fmt.Errorf("yamlsrc: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
	return nil
}

func (s *source) scalar(n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		s.push(eng.Token{Kind: eng.KindNull})
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		s.push(eng.Token{Kind: eng.KindBool, Bool: b})
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return err
		}
		s.push(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatInt(i, 10)})
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		s.push(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64)})
	default:
		s.push(eng.Token{Kind: eng.KindString, String: n.Value})
	}
	return nil
}

func (s *source) push(t eng.Token) {
	t.Offset = -1
	s.toks = append(s.toks, t)
}
