package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PerformRequest sends a request through handler. A non-nil body is encoded
// as JSON.
func PerformRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// BearerHeader returns an Authorization header map for token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// DecodeJSON decodes the recorder body into T.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "Failed to parse JSON response: %s", w.Body.String())
	return out
}

// JSONMap decodes the recorder body into a generic map.
func JSONMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return DecodeJSON[map[string]any](t, w)
}

// AssertError asserts an error response with the given status and type.
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, errType string) {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status, body: %s", w.Body.String())
	body := JSONMap(t, w)
	assert.Equal(t, errType, body["type"], "Unexpected error type")
	assert.NotEmpty(t, body["message"], "Expected an error message")
}

// AssertListEnvelope asserts a {resource, count, offset, limit} list body
// and returns its items.
func AssertListEnvelope(t *testing.T, w *httptest.ResponseRecorder, resource string, count int) []any {
	t.Helper()

	require.Equal(t, http.StatusOK, w.Code, "Unexpected status, body: %s", w.Body.String())
	body := JSONMap(t, w)
	items, ok := body[resource].([]any)
	require.True(t, ok, "Expected %q array in %s", resource, w.Body.String())
	assert.EqualValues(t, count, body["count"])
	assert.Contains(t, body, "offset")
	assert.Contains(t, body, "limit")
	return items
}
