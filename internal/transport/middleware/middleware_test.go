package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/savings/internal/transport/middleware"
	"github.com/frahmantamala/savings/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := middleware.RequestID(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.From(r.Context()).Info("inside")
		seen = w.Header().Get(middleware.TraceHeader)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	traceID := w.Header().Get(middleware.TraceHeader)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, seen)
	assert.Equal(t, traceID, logLines(t, &buf)[0]["traceID"])

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.TraceHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.TraceHeader))
}

func TestLoggingFiltersSensitiveData(t *testing.T) {
	var buf bytes.Buffer
	var received string
	h := middleware.LoggingMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		received, _ = body["name"].(string)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/money-flows", strings.NewReader(`{"name":"rent","api_key":"hunter2"}`))
	req.Header.Set("Authorization", "Bearer hunter2")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "rent", received, "handler still reads the body")
	assert.NotContains(t, buf.String(), "hunter2")

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "incoming request", lines[0]["msg"])
	assert.Equal(t, "response", lines[1]["msg"])
	assert.EqualValues(t, http.StatusCreated, lines[1]["status_code"])
	assert.EqualValues(t, 8, lines[1]["response_size"])
	assert.Equal(t, "INFO", lines[1]["level"])
}

func TestLoggingLevelFollowsStatus(t *testing.T) {
	for status, level := range map[int]string{
		http.StatusOK:                  "INFO",
		http.StatusNotFound:            "WARN",
		http.StatusInternalServerError: "ERROR",
	} {
		var buf bytes.Buffer
		h := middleware.LoggingMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		lines := logLines(t, &buf)
		require.Len(t, lines, 2)
		assert.Equal(t, level, lines[1]["level"], "status %d", status)
	}
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	var buf bytes.Buffer
	h := middleware.RecoveryMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error["code"])
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		middleware.CORS([]string{"*"})(next).ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://app.local")
		w := httptest.NewRecorder()
		middleware.CORS([]string{"http://app.local/"})(next).ServeHTTP(w, req)
		assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()
		middleware.CORS([]string{"http://app.local"})(next).ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://app.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		w := httptest.NewRecorder()
		middleware.CORS([]string{"*"})(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	})
}
