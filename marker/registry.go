package marker

import (
	"fmt"
	"log/slog"
	"sync"

	intellitype "github.com/reoring/intellitype"
	"github.com/reoring/intellitype/dsl"
	"github.com/reoring/intellitype/internal/logging"
	"github.com/reoring/intellitype/metrics"
	"github.com/reoring/intellitype/shape"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger markers report to. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records marker activity in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Registry) { r.metrics = c }
}

// WithSchemaBuilder replaces the props schema builder (dsl.PropsBuilder).
func WithSchemaBuilder(b SchemaBuilder) Option {
	return func(r *Registry) {
		if b != nil {
			r.builder = b
		}
	}
}

// EagerResolve resolves each shape when the marker is declared instead of on
// first use, so normalization errors surface at declaration.
func EagerResolve() Option {
	return func(r *Registry) { r.eager = true }
}

// Registry holds markers by unique name.
type Registry struct {
	log     *slog.Logger
	metrics *metrics.Collector
	builder SchemaBuilder
	eager   bool

	mu      sync.RWMutex
	markers map[string]*Marker
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:     logging.NewNop(),
		builder: dsl.PropsBuilder{},
		markers: make(map[string]*Marker),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Define declares a marker whose shape is s.
func (r *Registry) Define(name string, s shape.Shape, description string) (*Marker, error) {
	return r.DefineDeclaration(name, description, Declaration{Shape: s})
}

// MustDefine is like Define but panics on error.
func (r *Registry) MustDefine(name string, s shape.Shape, description string) *Marker {
	m, err := r.Define(name, s, description)
	if err != nil {
		panic(err)
	}
	return m
}

// DefineDeclaration declares a marker from an explicit Declaration. The name
// must be unique within r and the declaration must carry a shape source.
func (r *Registry) DefineDeclaration(name, description string, decl Declaration) (*Marker, error) {
	if name == "" {
		return nil, intellitype.Configurationf("marker name is empty")
	}
	if _, err := decl.Raw(); err != nil {
		return nil, fmt.Errorf("marker %s: %w", name, err)
	}
	m := &Marker{
		name:        name,
		description: description,
		decl:        Declaration{Shape: decl.Shape, Bases: append([]shape.Shape(nil), decl.Bases...)},
		log:         r.log,
		metrics:     r.metrics,
		builder:     r.builder,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.markers[name]; dup {
		return nil, intellitype.Configurationf("marker %s is already defined", name)
	}
	if r.eager {
		if _, err := m.Shape(); err != nil {
			return nil, err
		}
	}
	r.markers[name] = m
	r.order = append(r.order, name)
	r.log.Debug("marker declared", "marker", name, "eager", r.eager)
	return m, nil
}

// Lookup returns the marker registered under name.
func (r *Registry) Lookup(name string) (*Marker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.markers[name]
	return m, ok
}

// Markers returns every marker in declaration order.
func (r *Registry) Markers() []*Marker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Marker, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.markers[n])
	}
	return out
}

// Names returns the marker names in declaration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of markers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry { return defaultRegistry }

// Define declares a marker in the default registry.
func Define(name string, s shape.Shape, description string) (*Marker, error) {
	return defaultRegistry.Define(name, s, description)
}

// MustDefine declares a marker in the default registry and panics on error.
func MustDefine(name string, s shape.Shape, description string) *Marker {
	return defaultRegistry.MustDefine(name, s, description)
}

// Lookup finds a marker in the default registry.
func Lookup(name string) (*Marker, bool) {
	return defaultRegistry.Lookup(name)
}
