package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/savings/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const maxLoggedBody = 4 << 10

const filtered = "[FILTERED]"

// sensitiveFields are matched as substrings of lower-cased header and JSON keys.
var sensitiveFields = []string{
	"authorization",
	"cookie",
	"token",
	"secret",
	"password",
	"api_key",
	"apikey",
}

// LoggingMiddleware logs every request and its response through the request
// scoped logger, so entries carry the trace id set by RequestID.
func LoggingMiddleware(fallback *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := requestLogger(r, fallback)

			lg.Info("incoming request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", filterHeaders(r.Header),
				"body", readRequestBody(r),
			)

			rw := &responseWriter{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(rw, r)

			status := rw.status()
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "response",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rw.size,
				"body", filterBody(rw.body.Bytes()),
			)
		})
	}
}

func requestLogger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if lg, ok := logger.Lookup(r.Context()); ok {
		return lg
	}
	if fallback != nil {
		return fallback
	}
	return logger.LoggerWrapper()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// readRequestBody returns the filtered body and restores r.Body for the
// handler.
func readRequestBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	b, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return ""
	}
	if len(b) > maxLoggedBody {
		b = b[:maxLoggedBody]
	}
	return filterBody(b)
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, field := range sensitiveFields {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}

func filterHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func filterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}

	b, err := json.Marshal(filterJSON(data))
	if err != nil {
		return "[UNLOGGABLE BODY]"
	}
	return string(b)
}

func filterJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
				continue
			}
			out[key] = filterJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterJSON(item)
		}
		return out
	default:
		return v
	}
}
