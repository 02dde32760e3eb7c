package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putPreference(s *Server, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/preferences/"+key, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return doRequest(s, req)
}

func TestPreferences_RoundTrip(t *testing.T) {
	s := setupTestServer(t)

	rec := putPreference(s, "theme", `{"mode":"dark","accent":"teal"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/api/preferences/theme", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Key   string                 `json:"key"`
		Value map[string]interface{} `json:"value"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "theme", body.Key)
	assert.Equal(t, "dark", body.Value["mode"])
}

func TestPreferences_GetMissingIs404(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/preferences/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Contains(t, body["error"], "ghost")
}

func TestPreferences_InvalidJSONIs400(t *testing.T) {
	s := setupTestServer(t)

	rec := putPreference(s, "theme", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferences_List(t *testing.T) {
	s := setupTestServer(t)

	require.Equal(t, http.StatusOK, putPreference(s, "tone", `"formal"`).Code)
	require.Equal(t, http.StatusOK, putPreference(s, "verbosity", `"short"`).Code)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]interface{}
	decodeJSON(t, rec, &items)
	assert.Len(t, items, 2)
}

func TestPreferences_Delete(t *testing.T) {
	s := setupTestServer(t)

	require.Equal(t, http.StatusOK, putPreference(s, "tone", `"formal"`).Code)

	rec := doRequest(s, httptest.NewRequest(http.MethodDelete, "/api/preferences/tone", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodDelete, "/api/preferences/tone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
