package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/savings/pkg/logger"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates X-Trace-ID, generating one when absent, and stores a
// logger carrying it in the request context.
func RequestID(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := r.Context()
			if lg != nil {
				ctx = logger.WithLogger(ctx, lg)
			}
			ctx = logger.With(ctx, "traceID", traceID)

			w.Header().Set(TraceHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
