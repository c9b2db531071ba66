package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"whisperguard/pkg/logger"
)

// Logger returns middleware that logs each request once it completes.
// Server errors log at error level and client errors at warn so the
// moderation API's failure modes stand out from routine traffic.
// Health probes log at debug to keep orchestrator polling out of the
// main log stream.
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				evt := eventFor(log, ww.Status(), r.URL.Path)
				evt.
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context()))
				if q := r.URL.RawQuery; q != "" {
					evt.Str("query", q)
				}
				evt.Msg("request completed")
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

func eventFor(log *logger.Logger, status int, path string) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	case isProbePath(path):
		return log.Debug()
	default:
		return log.Info()
	}
}

func isProbePath(path string) bool {
	return strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/ready")
}
