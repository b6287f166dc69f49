// Package metrics exposes prometheus counters for marker activity. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultMismatch = "mismatch"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Collector groups the marker counters.
type Collector struct {
	resolutions  *prometheus.CounterVec
	indexes      *prometheus.CounterVec
	validations  *prometheus.CounterVec
	schemaBuilds *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg. A nil reg
// leaves them unregistered (useful in tests).
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellitype_resolutions_total",
			Help: "Shape resolutions performed, by marker and result.",
		}, []string{"marker", "result"}),
		indexes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellitype_index_total",
			Help: "Marker indexing calls, by marker and result.",
		}, []string{"marker", "result"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellitype_validations_total",
			Help: "Data validations, by marker and result.",
		}, []string{"marker", "result"}),
		schemaBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellitype_schema_builds_total",
			Help: "Validation schemas built, by marker and result.",
		}, []string{"marker", "result"}),
	}
	if reg != nil {
		for _, col := range []prometheus.Collector{c.resolutions, c.indexes, c.validations, c.schemaBuilds} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// MustNewCollector is like NewCollector but panics on registration errors.
func MustNewCollector(reg prometheus.Registerer) *Collector {
	c, err := NewCollector(reg)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolution records a shape resolution.
func (c *Collector) Resolution(marker, result string) {
	if c != nil {
		c.resolutions.WithLabelValues(marker, result).Inc()
	}
}

// Index records an indexing call.
func (c *Collector) Index(marker, result string) {
	if c != nil {
		c.indexes.WithLabelValues(marker, result).Inc()
	}
}

// Validation records a data validation.
func (c *Collector) Validation(marker, result string) {
	if c != nil {
		c.validations.WithLabelValues(marker, result).Inc()
	}
}

// SchemaBuild records a schema construction.
func (c *Collector) SchemaBuild(marker, result string) {
	if c != nil {
		c.schemaBuilds.WithLabelValues(marker, result).Inc()
	}
}
