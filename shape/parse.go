package shape

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse reads a shape expression such as
//
//	Dict[str, str]
//	List[Tuple[str, int]]
//	Tuple[as_union, int, str]
//	Optional[int] | list[str]
//
// Container and primitive aliases (Dict/Mapping, List/Sequence, Tuple,
// Set/FrozenSet, string, NoneType, object) map to their canonical names and
// "typing." style qualifiers are dropped. Unknown names become Named leaves or
// containers. Parse does not normalize: union markers are kept.
func Parse(expr string) (Shape, error) {
	p := &parser{src: expr}
	p.next()
	s, err := p.union()
	if err != nil {
		return Shape{}, err
	}
	if p.tok.kind != tEOF {
		return Shape{}, p.errorf("unexpected %q", p.tok.text)
	}
	return s, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Shape {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

var aliases = map[string]string{
	"Dict": ContainerDict, "dict": ContainerDict, "Mapping": ContainerDict, "MutableMapping": ContainerDict,
	"List": ContainerList, "list": ContainerList, "Sequence": ContainerList, "MutableSequence": ContainerList,
	"Tuple": ContainerTuple, "tuple": ContainerTuple,
	"Set": ContainerSet, "set": ContainerSet, "FrozenSet": ContainerSet, "frozenset": ContainerSet,
	"str": NameStr, "string": NameStr,
	"int": NameInt, "float": NameFloat, "bool": NameBool, "bytes": NameBytes,
	"None": NameNone, "NoneType": NameNone,
	"Any": NameAny, "object": NameAny,
	"datetime": NameDatetime,
	"Generic": ContainerGeneric,
}

var qualifiers = []string{"typing.", "builtins.", "__main__.", "types.", "datetime."}

type tokKind int

const (
	tEOF tokKind = iota
	tIdent
	tLBrack
	tRBrack
	tComma
	tPipe
	tEllipsis
	tInvalid
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Shape: p.src, Reason: fmt.Sprintf("at offset %d: ", p.tok.pos) + fmt.Sprintf(format, args...)}
}

func (p *parser) next() {
	for p.off < len(p.src) {
		r, w := utf8.DecodeRuneInString(p.src[p.off:])
		if !unicode.IsSpace(r) {
			break
		}
		p.off += w
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tEOF, pos: start}
		return
	}
	r, w := utf8.DecodeRuneInString(p.src[p.off:])
	switch {
	case r == '[':
		p.off++
		p.tok = token{kind: tLBrack, text: "[", pos: start}
	case r == ']':
		p.off++
		p.tok = token{kind: tRBrack, text: "]", pos: start}
	case r == ',':
		p.off++
		p.tok = token{kind: tComma, text: ",", pos: start}
	case r == '|':
		p.off++
		p.tok = token{kind: tPipe, text: "|", pos: start}
	case strings.HasPrefix(p.src[p.off:], "..."):
		p.off += 3
		p.tok = token{kind: tEllipsis, text: "...", pos: start}
	case r == '_' || unicode.IsLetter(r):
		for p.off < len(p.src) {
			r, w := utf8.DecodeRuneInString(p.src[p.off:])
			if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			p.off += w
		}
		p.tok = token{kind: tIdent, text: p.src[start:p.off], pos: start}
	default:
		p.off += w
		p.tok = token{kind: tInvalid, text: string(r), pos: start}
	}
}

// union := term ("|" term)*
func (p *parser) union() (Shape, error) {
	first, err := p.term()
	if err != nil {
		return Shape{}, err
	}
	var rest []Shape
	for p.tok.kind == tPipe {
		p.next()
		s, err := p.term()
		if err != nil {
			return Shape{}, err
		}
		rest = append(rest, s)
	}
	if len(rest) == 0 {
		return first, nil
	}
	return Union(first, rest...), nil
}

// term := "..." | ident ["[" union ("," union)* [","] "]"]
func (p *parser) term() (Shape, error) {
	switch p.tok.kind {
	case tEllipsis:
		p.next()
		return Ellipsis, nil
	case tIdent:
	case tInvalid:
		return Shape{}, p.errorf("invalid character %q", p.tok.text)
	default:
		return Shape{}, p.errorf("expected a type name, got %q", p.tok.text)
	}
	name := p.tok.text
	for _, q := range qualifiers {
		name = strings.TrimPrefix(name, q)
	}
	p.next()
	if p.tok.kind != tLBrack {
		return leaf(name), nil
	}
	p.next()
	var args []Shape
	for p.tok.kind != tRBrack {
		a, err := p.union()
		if err != nil {
			return Shape{}, err
		}
		args = append(args, a)
		if p.tok.kind == tComma {
			p.next()
			continue
		}
		if p.tok.kind != tRBrack {
			return Shape{}, p.errorf("expected ',' or ']', got %q", p.tok.text)
		}
	}
	p.next()
	return p.composite(name, args)
}

func leaf(name string) Shape {
	switch name {
	case "as_union", "as_union_def":
		return UnionMarker
	case "Union", "Optional":
		return Named(name)
	}
	if c, ok := aliases[name]; ok {
		return Named(c)
	}
	return Named(name)
}

func (p *parser) composite(name string, args []Shape) (Shape, error) {
	switch name {
	case "Union":
		if len(args) == 0 {
			return Shape{}, p.errorf("Union needs at least one alternative")
		}
		return Union(args[0], args[1:]...), nil
	case "Optional":
		if len(args) != 1 {
			return Shape{}, p.errorf("Optional takes exactly one argument, got %d", len(args))
		}
		return Optional(args[0]), nil
	case "as_union", "as_union_def":
		return Shape{}, p.errorf("%s cannot be parameterized", name)
	}
	if len(args) == 0 {
		return Shape{}, p.errorf("%s[] needs at least one argument", name)
	}
	if c, ok := aliases[name]; ok {
		name = c
	}
	return Of(name, args...), nil
}
