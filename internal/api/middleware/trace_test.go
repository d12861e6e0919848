package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/phrazzld/numina/internal/api/middleware"
	"github.com/phrazzld/numina/internal/api/shared"
	"github.com/phrazzld/numina/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)

	var seen string
	handler := middleware.TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/realm", nil))

	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), seen)
	assert.Equal(t, seen, rec.Header().Get(middleware.TraceIDHeader))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	var found bool
	for _, e := range entries {
		if e["msg"] == "inside handler" {
			found = true
			assert.Equal(t, seen, e["trace_id"])
		}
	}
	assert.True(t, found, "handler log line should carry the trace id")
}

func TestTraceIDsAreUnique(t *testing.T) {
	t.Parallel()

	ids := make(map[string]struct{})
	handler := middleware.TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[shared.GetTraceID(r.Context())] = struct{}{}
	}))
	for i := 0; i < 50; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	assert.Len(t, ids, 50)
}
