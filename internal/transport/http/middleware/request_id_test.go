package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrdash/internal/requestctx"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seenID, seenIP string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenIP = requestctx.GetClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, seenID)
	assert.Equal(t, "192.0.2.7", seenIP)
	assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDHonoursInbound(t *testing.T) {
	cases := map[string]bool{
		"abc-123":                true,
		"has space":              false,
		strings.Repeat("x", 200): false,
		"line\nbreak":            false,
	}
	for inbound, kept := range cases {
		var got string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetRequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, inbound)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if kept {
			assert.Equal(t, inbound, got)
		} else {
			assert.NotEqual(t, inbound, got)
			assert.NotEmpty(t, got)
		}
	}
}
