package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/middleware"
	"github.com/reoring/intellitype/shape"
)

func newRouter(t *testing.T, s shape.Shape) http.Handler {
	t.Helper()
	m := marker.NewRegistry().MustDefine("Body", s, "")
	r := chi.NewRouter()
	r.With(middleware.Validate(m)).Post("/upload-times", func(w http.ResponseWriter, r *http.Request) {
		props, ok := middleware.PropsFromContext(r.Context())
		if !ok {
			http.Error(w, "no props", http.StatusInternalServerError)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, props)
	})
	return r
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload-times", strings.NewReader(body)))
	return rec
}

func TestValidate_OK(t *testing.T) {
	rec := post(newRouter(t, shape.DictOf(shape.Str, shape.Str)), `{"1.0.0":"2023-06-01T12:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"1.0.0":"2023-06-01T12:00:00Z"}}`, rec.Body.String())
}

func TestValidate_Issues(t *testing.T) {
	rec := post(newRouter(t, shape.DictOf(shape.Str, shape.Str)), `{"invalid_key":123}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload struct {
		Issues []middleware.IssueJSON `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Issues, 1)
	assert.Equal(t, "/data/invalid_key", payload.Issues[0].Path)
	assert.Equal(t, "invalid_type", payload.Issues[0].Code)
}

func TestValidate_DuplicateKeyRejected(t *testing.T) {
	rec := post(newRouter(t, shape.DictOf(shape.Str, shape.Int)), `{"a":1,"a":2}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duplicate_key"`)
}

func TestValidate_MalformedBody(t *testing.T) {
	rec := post(newRouter(t, shape.ListOf(shape.Int)), `[1,2`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"parse_error"`)
}

func TestValidate_ConfigurationError(t *testing.T) {
	rec := post(newRouter(t, shape.Of("frobnicate", shape.Int)), `1`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPropsFromContext_Missing(t *testing.T) {
	_, ok := middleware.PropsFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
