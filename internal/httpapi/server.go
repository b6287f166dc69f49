// Package httpapi serves a marker registry over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reoring/intellitype/internal/logging"
	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/middleware"
	"github.com/reoring/intellitype/openapi"
)

// MarkerInfo describes one marker in listings.
type MarkerInfo struct {
	Name        string `json:"name"`
	Shape       string `json:"shape"`
	Description string `json:"description,omitempty"`
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// Server answers marker queries and validations against a registry.
type Server struct {
	reg      *marker.Registry
	log      *slog.Logger
	gatherer prometheus.Gatherer
}

// NewHandler creates the HTTP handler for reg.
//
//	GET  /markers
//	GET  /markers/{name}
//	GET  /markers/{name}/schema
//	POST /markers/{name}/validate
//	GET  /openapi.json
//	GET  /metrics          (only with WithGatherer)
func NewHandler(reg *marker.Registry, opts ...Option) http.Handler {
	s := &Server{reg: reg, log: logging.NewNop()}
	for _, o := range opts {
		o(s)
	}
	r := chi.NewRouter()
	r.Get("/markers", s.listMarkers)
	r.Route("/markers/{name}", func(r chi.Router) {
		r.Get("/", s.getMarker)
		r.Get("/schema", s.getSchema)
		r.Post("/validate", s.validate)
	})
	r.Get("/openapi.json", s.openAPI)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*marker.Marker, bool) {
	name := chi.URLParam(r, "name")
	m, ok := s.reg.Lookup(name)
	if !ok {
		http.Error(w, "unknown marker "+name, http.StatusNotFound)
		return nil, false
	}
	return m, true
}

func info(m *marker.Marker) (MarkerInfo, error) {
	sh, err := m.Shape()
	if err != nil {
		return MarkerInfo{}, err
	}
	return MarkerInfo{Name: m.Name(), Shape: sh.String(), Description: m.Description()}, nil
}

func (s *Server) listMarkers(w http.ResponseWriter, r *http.Request) {
	out := make([]MarkerInfo, 0, s.reg.Len())
	for _, m := range s.reg.Markers() {
		i, err := info(m)
		if err != nil {
			s.fail(w, "list markers", err)
			return
		}
		out = append(out, i)
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) getMarker(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	i, err := info(m)
	if err != nil {
		s.fail(w, "get marker", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, i)
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sch, err := m.Schema()
	if err != nil {
		s.fail(w, "build schema", err)
		return
	}
	js, err := sch.JSONSchema()
	if err != nil {
		s.fail(w, "json schema", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, js)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookup(w, r)
	if !ok {
		return
	}
	middleware.Validate(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		props, _ := middleware.PropsFromContext(r.Context())
		middleware.WriteJSON(w, http.StatusOK, props)
	})).ServeHTTP(w, r)
}

func (s *Server) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.Export(s.reg)
	if err != nil {
		s.fail(w, "export openapi", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Error(op+" failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
