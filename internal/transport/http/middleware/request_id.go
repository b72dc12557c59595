package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hrdash/internal/requestctx"
	"hrdash/internal/transport/http/shared"
)

const (
	RequestIDHeader    = "X-Request-ID"
	maxInboundIDLength = 128
)

// RequestID tags the request with an id and records the client address for
// audit rows. An inbound X-Request-ID is kept when it looks sane.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if !usableRequestID(reqID) {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)
		ctx := requestctx.WithClientIP(requestctx.WithRequestID(r.Context(), reqID), shared.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxInboundIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
