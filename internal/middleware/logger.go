package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestCounter records finished requests; *infra.Metrics satisfies it.
type RequestCounter interface {
	HTTPRequest(method string, status int)
}

// quietPaths are probed constantly and only logged at debug.
var quietPaths = map[string]bool{
	"/v1/healthz": true,
	"/v1/readyz":  true,
	"/metrics":    true,
}

// Logger writes one event per request and puts a request scoped logger in
// the context for zerolog's log.Ctx. Server errors log at error and client
// errors at warn.
func Logger(l zerolog.Logger, counter RequestCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := l.With().Str("request_id", RequestIDFromContext(r.Context())).Logger()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if counter != nil {
				counter.HTTPRequest(r.Method, status)
			}

			var ev *zerolog.Event
			switch {
			case status >= 500:
				ev = reqLogger.Error()
			case status >= 400:
				ev = reqLogger.Warn()
			case quietPaths[r.URL.Path]:
				ev = reqLogger.Debug()
			default:
				ev = reqLogger.Info()
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				ev = ev.Str("route", rctx.RoutePattern())
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
