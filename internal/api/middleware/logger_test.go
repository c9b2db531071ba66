package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"whisperguard/pkg/logger"
)

func captureLogger(buf *bytes.Buffer) *logger.Logger {
	return &logger.Logger{Logger: zerolog.New(buf).Level(zerolog.DebugLevel)}
}

func serveWithStatus(t *testing.T, status int, target string) string {
	t.Helper()
	var buf bytes.Buffer
	h := Logger(captureLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	return buf.String()
}

func TestLogger_SuccessLogsAtInfo(t *testing.T) {
	out := serveWithStatus(t, http.StatusOK, "/api/v1/moderation/violations/abc")
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"path":"/api/v1/moderation/violations/abc"`)
	assert.Contains(t, out, "request completed")
}

func TestLogger_ClientErrorLogsAtWarn(t *testing.T) {
	out := serveWithStatus(t, http.StatusBadRequest, "/api/v1/moderation/analyze")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":400`)
}

func TestLogger_ServerErrorLogsAtError(t *testing.T) {
	out := serveWithStatus(t, http.StatusInternalServerError, "/api/v1/moderation/screen")
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"status":500`)
}

func TestLogger_HealthProbeLogsAtDebug(t *testing.T) {
	out := serveWithStatus(t, http.StatusOK, "/health")
	assert.Contains(t, out, `"level":"debug"`)
}

func TestLogger_IncludesQueryWhenPresent(t *testing.T) {
	out := serveWithStatus(t, http.StatusOK, "/api/v1/moderation/violations/abc?min_severity=high")
	assert.Contains(t, out, `"query":"min_severity=high"`)
}
