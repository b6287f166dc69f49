package intellitype

import (
	"io"
	"sync"

	eng "github.com/reoring/intellitype/internal/engine"
	"github.com/reoring/intellitype/source/gojson"
	"github.com/reoring/intellitype/source/yamlsrc"
)

// Token describes a token in the input stream.
type Token = eng.Token

// TokenKind enumerates token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
)

// Source abstracts over polymorphic input sources.
type Source interface {
	NextToken() (Token, error)
	NumberMode() NumberMode
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source. The default implementation is
// backed by goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json backed driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver{}) }

// JSONDriverName reports the active JSON driver.
func JSONDriverName() string { return getJSONDriver().Name() }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	defer jsonDriverMu.RUnlock()
	return currentJSONDriver
}

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source {
	return SourceFromEngine(gojson.NewReader(r), NumberJSONNumber)
}
func (goJSONDriver) NewBytes(b []byte) Source {
	return SourceFromEngine(gojson.NewBytes(b), NumberJSONNumber)
}
func (goJSONDriver) Name() string { return "go-json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// YAMLReader wraps the first YAML document read from r as a Source.
func YAMLReader(r io.Reader) Source { return SourceFromEngine(yamlsrc.NewReader(r), NumberJSONNumber) }

// YAMLBytes wraps the first YAML document in b as a Source.
func YAMLBytes(b []byte) Source { return SourceFromEngine(yamlsrc.NewBytes(b), NumberJSONNumber) }

// SourceFromEngine wraps an engine.TokenSource as a Source.
func SourceFromEngine(inner eng.TokenSource, mode NumberMode) Source {
	return &engineSource{inner: inner, mode: mode}
}

// WithNumberMode wraps a Source and overrides its NumberMode.
func WithNumberMode(s Source, m NumberMode) Source {
	return &engineSource{inner: engineTokenSource(s), mode: m}
}

type engineSource struct {
	inner eng.TokenSource
	mode  NumberMode
}

func (s *engineSource) NextToken() (Token, error) { return s.inner.NextToken() }
func (s *engineSource) NumberMode() NumberMode    { return s.mode }
func (s *engineSource) Location() int64           { return s.inner.Location() }

func engineTokenSource(s Source) eng.TokenSource {
	if es, ok := s.(*engineSource); ok {
		return es.inner
	}
	return s
}
