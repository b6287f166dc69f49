package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/intellitype/internal/httpapi"
	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/metrics"
	"github.com/reoring/intellitype/shape"
)

func newServer(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	prom := prometheus.NewRegistry()
	reg := marker.NewRegistry(marker.WithMetrics(metrics.MustNewCollector(prom)))
	reg.MustDefine("UploadTimesType", shape.DictOf(shape.Str, shape.Str), "version -> upload time")
	reg.MustDefine("ReleaseFiles", shape.ListOf(shape.TupleOf(shape.Str, shape.Int)), "")
	return httpapi.NewHandler(reg, httpapi.WithGatherer(prom)), prom
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	h.ServeHTTP(rec, req)
	return rec
}

func TestListMarkers(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/markers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []httpapi.MarkerInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []httpapi.MarkerInfo{
		{Name: "UploadTimesType", Shape: "dict[str, str]", Description: "version -> upload time"},
		{Name: "ReleaseFiles", Shape: "list[tuple[str, int]]"},
	}, got)
}

func TestGetMarker(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/markers/ReleaseFiles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"ReleaseFiles","shape":"list[tuple[str, int]]"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/markers/Nope", "").Code)
}

func TestGetSchema(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/markers/UploadTimesType/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data"`)
	assert.Contains(t, rec.Body.String(), `"required"`)
}

func TestValidateEndpoint(t *testing.T) {
	h, prom := newServer(t)

	rec := do(h, http.MethodPost, "/markers/ReleaseFiles/validate", `[["pkg.whl", 10]]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[["pkg.whl",10]]}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/markers/ReleaseFiles/validate", `[["pkg.whl", "ten"]]`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/data/0/1"`)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/markers/Nope/validate", `1`).Code)

	rec = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `intellitype_validations_total{marker="ReleaseFiles",result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), `intellitype_validations_total{marker="ReleaseFiles",result="invalid"} 1`)

	n, err := prom.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, n)
}

func TestOpenAPIEndpoint(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		OpenAPI    string `json:"openapi"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Components.Schemas, "UploadTimesType")
	assert.Contains(t, doc.Components.Schemas, "ReleaseFiles")
}

func TestMetricsDisabledWithoutGatherer(t *testing.T) {
	h := httpapi.NewHandler(marker.NewRegistry())
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/metrics", "").Code)
}
