package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// requestID assigns a uuid to requests that carry no request id
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(chimiddleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(chimiddleware.RequestIDHeader, id)
		}
		w.Header().Set(chimiddleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs every request and records request metrics
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		took := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		metrics.GetOrCreateCounter(fmt.Sprintf(`timesman_rest_requests_total{method=%q,route=%q,status="%d"}`, r.Method, route, status)).Inc()
		metrics.GetOrCreateHistogram(fmt.Sprintf(`timesman_rest_request_duration_seconds{route=%q}`, route)).Update(took.Seconds())

		reqID := chimiddleware.GetReqID(r.Context())
		if status >= http.StatusInternalServerError {
			Logger.Warningf("%s %s -> %d (%s) [%s]", r.Method, r.URL.Path, status, took, reqID)
		} else {
			Logger.Debugf("%s %s -> %d (%s) [%s]", r.Method, r.URL.Path, status, took, reqID)
		}
	})
}

func writeMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	metrics.WritePrometheus(w, true)
}
