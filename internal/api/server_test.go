package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliconnect/insightd/internal/config"
	"github.com/intelliconnect/insightd/internal/llm"
	"github.com/intelliconnect/insightd/internal/logging"
	"github.com/intelliconnect/insightd/internal/prefs"
)

func setupTestServer(t *testing.T, opts ...func(*Deps)) *Server {
	t.Helper()

	store, err := prefs.NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	deps := Deps{
		Logger: logging.NewNop(),
		Config: config.ServerConfig{Host: "localhost", Port: 0},
		Extract: config.ExtractConfig{
			CSVSampleRows:    5,
			ExcelPreviewRows: 20,
			MinASCIIRun:      15,
		},
		Prefs: store,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	s, err := NewServer(deps)
	require.NoError(t, err)
	return s
}

// multipartBody builds a single-part upload with an explicit Content-Type on
// the file part.
func multipartBody(t *testing.T, fileName, mimeType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t)

	// Generate at least one observation first.
	doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "insightd_http_requests_total")
}

func TestUnknownRouteReturnsStructuredError(t *testing.T) {
	s := setupTestServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body["error"])
}

func TestDashboardEndpoints(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{
		"/api/dashboard/projects",
		"/api/dashboard/kpis",
		"/api/dashboard/milestones",
		"/api/dashboard/risks",
		"/api/dashboard/resources",
	} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(s, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)

			var items []map[string]interface{}
			decodeJSON(t, rec, &items)
			assert.NotEmpty(t, items)
		})
	}
}

func TestAPITest_HeuristicProvider(t *testing.T) {
	s := setupTestServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body TestResponse
	decodeJSON(t, rec, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "heuristic", body.Provider)
}

func TestAPITest_OpenAIPingFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer upstream.Close()

	s := setupTestServer(t, func(d *Deps) {
		r, err := llm.NewResponder(config.LLMConfig{
			Provider: "openai",
			APIKey:   config.Secret("sk-invalid"),
			BaseURL:  upstream.URL,
		}, nil)
		require.NoError(t, err)
		d.Responder = r
	})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body TestResponse
	decodeJSON(t, rec, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "openai", body.Provider)
	assert.Contains(t, body.Error, "Incorrect API key")
}

func TestAPITest_DisabledProvider(t *testing.T) {
	s := setupTestServer(t, func(d *Deps) {
		r, err := llm.NewResponder(config.LLMConfig{Provider: "disabled"}, nil)
		require.NoError(t, err)
		d.Responder = r
	})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body TestResponse
	decodeJSON(t, rec, &body)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}
