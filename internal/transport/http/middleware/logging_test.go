package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrdash/internal/platform/metrics"
)

func TestLoggerRecordsMetrics(t *testing.T) {
	collector := metrics.New()
	handler := Logger(collector)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/payroll/transfers", nil))

	snap := collector.Snapshot()
	assert.Equal(t, uint64(1), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["serverErrorsTotal"])
}

func TestLoggerDefaultsImplicitStatusToOK(t *testing.T) {
	collector := metrics.New()
	handler := Logger(collector)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, uint64(0), collector.Snapshot()["serverErrorsTotal"])
}

func TestLoggerToleratesNilCollector(t *testing.T) {
	handler := Logger(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	assert.NotPanics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, accessLevel(http.StatusOK))
	assert.Equal(t, slog.LevelWarn, accessLevel(http.StatusNotFound))
	assert.Equal(t, slog.LevelError, accessLevel(http.StatusBadGateway))
}
