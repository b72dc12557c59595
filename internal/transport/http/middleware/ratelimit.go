package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/shared"
)

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*limiter)

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(l *limiter) {
		if fn != nil {
			l.key = fn
		}
	}
}

// RateLimit applies a fixed window per caller, keyed by user id when the
// request is authenticated and by client IP otherwise.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	l := newLimiter(limit, window, actorOrIPKey)
	for _, opt := range opts {
		opt(l)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.allow(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter windows for login and for the
// payroll, import and refresh mutations. Logins are limited both per IP and
// per submitted email.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	login := []*limiter{
		newLimiter(max(baseLimit/4, 1), window, clientIPKey),
		newLimiter(max(baseLimit/4, 1), window, AuthEmailOrIPKey("email")),
	}
	mutation := []*limiter{newLimiter(max(baseLimit/2, 1), window, actorOrIPKey)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var chain []*limiter
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				chain = login
			case sensitiveScopeActor:
				chain = mutation
			}
			for _, l := range chain {
				if !l.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthEmailOrIPKey keys on a string field of a JSON body, falling back to the
// client IP. The body is restored for the next handler.
func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	field = strings.TrimSpace(field)
	if field == "" {
		field = "email"
	}
	return func(r *http.Request) string {
		if email := peekJSONString(r, field); email != "" {
			return "email:" + strings.ToLower(email)
		}
		return clientIPKey(r)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	return shared.ClientIP(r)
}

type window struct {
	hits    int
	resetAt time.Time
}

type limiter struct {
	limit  int
	period time.Duration
	key    RateLimitKeyFunc

	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
}

func newLimiter(limit int, period time.Duration, key RateLimitKeyFunc) *limiter {
	if key == nil {
		key = actorOrIPKey
	}
	return &limiter{limit: limit, period: period, key: key, windows: map[string]*window{}}
}

// take counts one hit for key and reports the hits so far and when the
// window closes. Expired windows are swept at most once per period.
func (l *limiter) take(key string, now time.Time) (int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for k, win := range l.windows {
			if now.After(win.resetAt) {
				delete(l.windows, k)
			}
		}
		l.nextSweep = now.Add(l.period)
	}

	win, ok := l.windows[key]
	if !ok || now.After(win.resetAt) {
		win = &window{resetAt: now.Add(l.period)}
		l.windows[key] = win
	}
	win.hits++
	return win.hits, win.resetAt
}

func (l *limiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.key(r)
	if key == "" {
		key = clientIPKey(r)
	}
	now := time.Now()
	hits, resetAt := l.take(key, now)
	resetIn := ceilSeconds(resetAt.Sub(now))

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(l.limit-hits, 0)))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if hits <= l.limit {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	slog.Warn("rate limit exceeded",
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", l.limit,
		"windowSec", int(l.period.Seconds()),
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func peekJSONString(r *http.Request, field string) string {
	if r == nil || r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

// sensitiveRoutes are path.Match patterns relative to /api/v1.
var sensitiveRoutes = []struct {
	pattern string
	scope   sensitiveScope
}{
	{"/auth/login", sensitiveScopeAuth},
	{"/payroll/all", sensitiveScopeActor},
	{"/payroll/batches", sensitiveScopeActor},
	{"/payroll/batches/*/pay", sensitiveScopeActor},
	{"/payroll/batches/*/notify", sensitiveScopeActor},
	{"/payroll/batches/*/recompute", sensitiveScopeActor},
	{"/integrity/recalculate", sensitiveScopeActor},
	{"/state/refresh", sensitiveScopeActor},
	{"/imports/employees", sensitiveScopeActor},
	{"/imports/*/decisions/*", sensitiveScopeActor},
	{"/attendance/punch", sensitiveScopeActor},
}

func sensitiveRateScope(r *http.Request) sensitiveScope {
	if r == nil {
		return sensitiveScopeNone
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return sensitiveScopeNone
	}

	p := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	for _, route := range sensitiveRoutes {
		if ok, _ := path.Match(route.pattern, p); ok {
			return route.scope
		}
	}
	return sensitiveScopeNone
}
