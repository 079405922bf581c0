package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/metrics"
)

// Logging logs every HTTP request and records its latency.
type Logging struct {
	logger  *logger.Logger
	metrics metrics.Recorder
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, recorder metrics.Recorder) *Logging {
	return &Logging{logger: logger, metrics: recorder}
}

// Handle logs method, route, duration and status for each request.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		// Unmatched paths share one label to keep cardinality bounded.
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		l.metrics.RecordHTTPRequest(r.Method, route, status, duration)

		args := []any{
			"method", r.Method,
			"route", route,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed", args...)
			return
		}
		l.logger.Info("HTTP request completed", args...)
	})
}
