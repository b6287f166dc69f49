package marker

import (
	"log/slog"
	"sync"

	"github.com/reoring/intellitype/metrics"
	"github.com/reoring/intellitype/shape"
)

// State is the resolution state of a marker.
type State int

const (
	Unresolved State = iota
	Resolved
)

func (s State) String() string {
	if s == Resolved {
		return "RESOLVED"
	}
	return "UNRESOLVED"
}

// Marker is a named, described stand-in for a structural shape. Create one
// through a Registry.
type Marker struct {
	name        string
	description string
	decl        Declaration

	log     *slog.Logger
	metrics *metrics.Collector
	builder SchemaBuilder

	mu            sync.Mutex
	state         State
	resolved      shape.Shape
	declaredUnion bool
	meta          []any
	schema        *Schema
}

// Name returns the unique marker name.
func (m *Marker) Name() string { return m.name }

// Description returns the human-readable description.
func (m *Marker) Description() string { return m.description }

// Declaration returns the shape source the marker was declared with.
func (m *Marker) Declaration() Declaration {
	return Declaration{Shape: m.decl.Shape, Bases: append([]shape.Shape(nil), m.decl.Bases...)}
}

func (m *Marker) String() string { return m.name }

// State reports whether the shape has been resolved.
func (m *Marker) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Shape returns the resolved shape, resolving it on first use. Once resolved
// the shape never changes.
func (m *Marker) Shape() (shape.Shape, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shapeLocked()
}

// MustShape is like Shape but panics on error.
func (m *Marker) MustShape() shape.Shape {
	s, err := m.Shape()
	if err != nil {
		panic(err)
	}
	return s
}

func (m *Marker) shapeLocked() (shape.Shape, error) {
	if m.state == Resolved {
		return m.resolved, nil
	}
	s, hadUnion, err := resolve(m.decl)
	if err != nil {
		m.metrics.Resolution(m.name, metrics.ResultError)
		m.log.Error("shape resolution failed", "marker", m.name, "error", err)
		return shape.Shape{}, err
	}
	m.resolved, m.declaredUnion, m.state = s, hadUnion, Resolved
	m.metrics.Resolution(m.name, metrics.ResultOK)
	m.log.Debug("shape resolved", "marker", m.name, "shape", s.String(), "union_marker", hadUnion)
	return s, nil
}

// Index checks that candidate is the marker's shape and returns it unchanged,
// so the result can be used wherever the shape itself is expected.
//
// meta replaces the stored metadata before the comparison; a call without
// metadata leaves it empty. When the declared source used the union marker,
// the candidate is normalized before comparing.
func (m *Marker) Index(candidate shape.Shape, meta ...any) (shape.Shape, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(meta) == 0 {
		m.meta = nil
	} else {
		m.meta = append([]any(nil), meta...)
	}

	declared, err := m.shapeLocked()
	if err != nil {
		m.metrics.Index(m.name, metrics.ResultError)
		return shape.Shape{}, err
	}
	got := candidate
	if m.declaredUnion {
		if got, err = shape.Normalize(candidate); err != nil {
			m.metrics.Index(m.name, metrics.ResultError)
			return shape.Shape{}, err
		}
	}
	if !shape.Equal(got, declared) {
		m.metrics.Index(m.name, metrics.ResultMismatch)
		m.log.Warn("type mismatch", "marker", m.name, "expected", declared.String(), "got", got.String())
		return shape.Shape{}, &TypeMismatchError{Marker: m.name, Expected: declared, Got: got}
	}
	m.metrics.Index(m.name, metrics.ResultOK)
	return candidate, nil
}

// MustIndex is like Index but panics on error. It suits package-level
// annotations where a mismatch is a programming error.
func (m *Marker) MustIndex(candidate shape.Shape, meta ...any) shape.Shape {
	s, err := m.Index(candidate, meta...)
	if err != nil {
		panic(err)
	}
	return s
}

// IndexExpr is Index with the candidate given as a shape expression.
func (m *Marker) IndexExpr(expr string, meta ...any) (shape.Shape, error) {
	candidate, err := shape.Parse(expr)
	if err != nil {
		return shape.Shape{}, err
	}
	return m.Index(candidate, meta...)
}

// Meta returns a copy of the metadata recorded by the last Index call.
func (m *Marker) Meta() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.meta...)
}
