package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "user-1", Role: auth.RoleHR})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/batches", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	assert.Equal(t, http.StatusNoContent, serve(limited, first).Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/batches", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	assert.Equal(t, http.StatusTooManyRequests, serve(limited, second).Code, "user key should span addresses")
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	send := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.10:4444"
		return serve(limited, req).Code
	}
	assert.Equal(t, http.StatusNoContent, send(`{"email":"a@example.com"}`))
	assert.Equal(t, http.StatusTooManyRequests, send(`{"email":"b@example.com"}`))
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(noContent())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "192.0.2.20:1111"
		return serve(limited, req).Code
	}
	assert.Equal(t, http.StatusNoContent, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusNoContent, send())
}

func TestRateLimitReturnsRetryMetadata(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "192.0.2.30:1234"
	ok := serve(limited, req)
	assert.Equal(t, "1", ok.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", ok.Header().Get("X-RateLimit-Remaining"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "192.0.2.30:1234"
	rec := serve(limited, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"rate_limited"`)
}

func TestLimiterSweepsExpiredWindows(t *testing.T) {
	l := newLimiter(5, time.Minute, nil)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l.take("a", start)
	l.take("b", start)
	require.Len(t, l.windows, 2)

	hits, _ := l.take("c", start.Add(2*time.Minute))
	assert.Equal(t, 1, hits)
	assert.Len(t, l.windows, 1)
}

func TestSensitiveMutationRateLimitScope(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/transfers", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		assert.Equal(t, http.StatusNoContent, serve(limited, req).Code, "read %d", i+1)
	}

	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "hr-1", Role: auth.RoleHR})
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/batches/b1/pay", nil).WithContext(userCtx)
		req.RemoteAddr = "198.51.100.41:9999"
		codes = append(codes, serve(limited, req).Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestSensitiveRateScopeRoutes(t *testing.T) {
	cases := map[string]sensitiveScope{
		"/api/v1/auth/login":                    sensitiveScopeAuth,
		"/api/v1/payroll/all":                   sensitiveScopeActor,
		"/api/v1/payroll/batches/":              sensitiveScopeActor,
		"/api/v1/payroll/batches/b1/recompute":  sensitiveScopeActor,
		"/api/v1/imports/employees":             sensitiveScopeActor,
		"/api/v1/imports/i1/decisions/d1":       sensitiveScopeActor,
		"/api/v1/tasks":                         sensitiveScopeNone,
		"/api/v1/payroll/batches/b1/records/r1": sensitiveScopeNone,
	}
	for p, want := range cases {
		req := httptest.NewRequest(http.MethodPost, p, nil)
		assert.Equal(t, want, sensitiveRateScope(req), p)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login", nil)
	assert.Equal(t, sensitiveScopeNone, sensitiveRateScope(get))
}
