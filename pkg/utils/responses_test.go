package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponsePaginated_KeepsEmptyPage(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponsePaginated(rec, "success", []string{}, map[string]int{"total": 0, "page": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `[]`, string(body["data"]))
	assert.JSONEq(t, `{"total":0,"page":1}`, string(body["pagination"]))
	assert.NotContains(t, body, "errors")
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name  string
		write func(w http.ResponseWriter)
		code  int
	}{
		{"bad request", func(w http.ResponseWriter) { ResponseBadRequest(w, "m", map[string]string{"f": "x"}) }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { ResponseUnauthorized(w, "m") }, http.StatusUnauthorized},
		{"forbidden", func(w http.ResponseWriter) { ResponseForbidden(w, "m") }, http.StatusForbidden},
		{"not found", func(w http.ResponseWriter) { ResponseNotFound(w, "m") }, http.StatusNotFound},
		{"method", func(w http.ResponseWriter) { ResponseMethodNotAllowed(w, "m") }, http.StatusMethodNotAllowed},
		{"conflict", func(w http.ResponseWriter) { ResponseConflict(w, "m", nil) }, http.StatusConflict},
		{"throttled", func(w http.ResponseWriter) { ResponseTooManyRequests(w, "m") }, http.StatusTooManyRequests},
		{"internal", func(w http.ResponseWriter) { ResponseInternalError(w, "m") }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.code, rec.Code)
			var env Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Status)
			assert.Equal(t, "m", env.Message)
			assert.Nil(t, env.Data)
		})
	}
}

func TestInitLogger_WritesRotatedFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(dir, "catalog-test", false)
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "catalog-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
	assert.Contains(t, string(raw), `"app":"catalog-test"`)
}
