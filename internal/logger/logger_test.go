package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zap.DebugLevel)
	previous := Log
	Log = zap.New(core).Sugar()
	t.Cleanup(func() {
		Log = previous
	})
	return logs
}

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug"))
	_ = Sync()

	assert.Error(t, Init("loud"))
}

func TestMiddlewareLogsStatus(t *testing.T) {
	logs := observe(t)

	handler := WithLoggingHTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.EqualValues(t, 5, fields["size"])
	assert.Equal(t, "/users", fields["uri"])
}

func TestMiddlewareImplicitOKAndErrors(t *testing.T) {
	logs := observe(t)

	ok := WithLoggingHTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	failing := WithLoggingHTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, 2, logs.Len())
	assert.EqualValues(t, http.StatusOK, logs.All()[0].ContextMap()["status"])
	assert.Equal(t, zap.ErrorLevel, logs.All()[1].Level)
}

func TestMiddlewareAddsRouteAndRequestID(t *testing.T) {
	logs := observe(t)

	router := chi.NewRouter()
	router.Use(middleware.RequestID, WithLoggingHTTPMiddleware)
	router.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/users/42", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "request rejected", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/users/{id}", fields["route"])
	assert.Equal(t, "/users/42", fields["uri"])
	assert.NotEmpty(t, fields["requestId"])
}

func TestMiddlewareWithoutRouter(t *testing.T) {
	logs := observe(t)

	handler := WithLoggingHTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "route")
	assert.NotContains(t, fields, "requestId")
}
