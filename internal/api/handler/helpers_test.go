package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeRequest(method, path string, body []byte) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected an error object")
	return errObj["code"].(string)
}

// mustField returns the raw JSON of one top-level envelope field, keeping
// key order intact for order-sensitive assertions.
func mustField(t *testing.T, w *httptest.ResponseRecorder, name string) string {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	raw, ok := env[name]
	require.True(t, ok, "envelope has no %q field", name)
	return string(raw)
}
