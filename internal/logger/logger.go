// Package logger holds the process-wide zap logger and the HTTP access log
// middleware built on it.
package logger

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Log is the process-wide SugaredLogger. It discards everything until Init is called.
var Log = zap.NewNop().Sugar()

// Init builds the global logger for the given level name (debug, info, warn, error, fatal).
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) && !errors.Is(err, os.ErrClosed) {
		return err
	}

	return nil
}

// accessRecorder remembers what the handler sent.
type accessRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (a *accessRecorder) WriteHeader(statusCode int) {
	if a.status == 0 {
		a.status = statusCode
	}
	a.ResponseWriter.WriteHeader(statusCode)
}

func (a *accessRecorder) Write(b []byte) (int, error) {
	if a.status == 0 {
		a.status = http.StatusOK
	}
	n, err := a.ResponseWriter.Write(b)
	a.bytes += n
	return n, err
}

func (a *accessRecorder) Unwrap() http.ResponseWriter {
	return a.ResponseWriter
}

// WithLoggingHTTPMiddleware writes one access entry per request. Routed
// requests carry the chi route pattern, and the request id when
// middleware.RequestID runs first. 5xx answers are logged at error level,
// 4xx at warn.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &accessRecorder{ResponseWriter: w}

		h.ServeHTTP(rec, r)

		fields := []interface{}{
			"method", r.Method,
			"uri", r.RequestURI,
			"status", rec.status,
			"size", rec.bytes,
			"duration", time.Since(start),
		}
		if pattern := routePattern(r); pattern != "" {
			fields = append(fields, "route", pattern)
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			fields = append(fields, "requestId", id)
		}

		switch {
		case rec.status >= http.StatusInternalServerError:
			Log.Errorw("request failed", fields...)
		case rec.status >= http.StatusBadRequest:
			Log.Warnw("request rejected", fields...)
		default:
			Log.Infow("request served", fields...)
		}
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}

	return rctx.RoutePattern()
}
