package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/meme-api/internal/api/shared"
	"github.com/phrazzld/meme-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that adds a trace ID to the request
// context along with a logger scoped to it. It should be applied early in the
// middleware chain so every handler has access to the trace ID. When chi's
// RequestID middleware ran first, its ID is attached to the request logger.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			ctx = logger.WithLogger(ctx, base.With(slog.String("trace_id", traceID)))
			if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
				ctx = logger.WithRequestID(ctx, reqID)
			}

			logger.FromContext(ctx).Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TraceMiddleware is NewTraceMiddleware using the default logger.
func TraceMiddleware(next http.Handler) http.Handler {
	return NewTraceMiddleware(nil)(next)
}
