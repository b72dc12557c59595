package leavehandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/leave"
	"hrdash/internal/transport/http/middleware"
)

type memStore struct {
	leave.StoreAPI
	requests map[string]leave.Request
	filter   leave.Filter
}

func (m *memStore) CreateRequest(_ context.Context, req leave.Request) (leave.Request, error) {
	req.ID = "l1"
	m.requests[req.ID] = req
	return req, nil
}

func (m *memStore) GetRequest(_ context.Context, id string) (leave.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (m *memStore) ListRequests(_ context.Context, f leave.Filter) ([]leave.Request, error) {
	m.filter = f
	return nil, nil
}

func (m *memStore) DecideRequest(_ context.Context, id, status string, at time.Time) error {
	req := m.requests[id]
	req.Status = status
	req.DecidedAt = &at
	m.requests[id] = req
	return nil
}

func newRouter(store *memStore, user auth.UserContext) http.Handler {
	h := NewHandler(leave.NewService(store), auth.StaticPermissions{}, nil, nil, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

var (
	employee = auth.UserContext{UserID: "u2", EmployeeID: "e2", Role: auth.RoleEmployee}
	hr       = auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleHR}
)

func TestCreateRequestCountsHalfDays(t *testing.T) {
	store := &memStore{requests: map[string]leave.Request{}}
	rec := do(newRouter(store, employee), http.MethodPost, "/leave/requests",
		`{"leaveType":"annual","startDate":"2026-05-03","endDate":"2026-05-05","endHalf":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := store.requests["l1"]
	assert.Equal(t, "e2", created.EmployeeID)
	assert.Equal(t, 2.5, created.Days)
	assert.Equal(t, leave.StatusPending, created.Status)
}

func TestCreateRequestRejectsInvertedRange(t *testing.T) {
	rec := do(newRouter(&memStore{requests: map[string]leave.Request{}}, employee), http.MethodPost, "/leave/requests",
		`{"leaveType":"SICK","startDate":"2026-05-05","endDate":"2026-05-03"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "endDate")
}

func TestEmployeeCannotFileForOthers(t *testing.T) {
	rec := do(newRouter(&memStore{requests: map[string]leave.Request{}}, employee), http.MethodPost, "/leave/requests",
		`{"employeeId":"9b2f2c8e-6a47-4c1e-9a55-0e4d5b0d5d11","leaveType":"SICK","startDate":"2026-05-03","endDate":"2026-05-03"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEmployeeListIsScoped(t *testing.T) {
	store := &memStore{requests: map[string]leave.Request{}}
	rec := do(newRouter(store, employee), http.MethodGet, "/leave/requests?employeeId=e9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "e2", store.filter.EmployeeID)

	do(newRouter(store, hr), http.MethodGet, "/leave/requests?employeeId=e9", "")
	assert.Equal(t, "e9", store.filter.EmployeeID)
}

func TestApproveOnlyPending(t *testing.T) {
	store := &memStore{requests: map[string]leave.Request{
		"l1": {ID: "l1", EmployeeID: "e2", LeaveType: leave.TypeAnnual, Status: leave.StatusPending},
	}}
	router := newRouter(store, hr)

	rec := do(router, http.MethodPost, "/leave/requests/l1/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, leave.StatusApproved, store.requests["l1"].Status)

	rec = do(router, http.MethodPost, "/leave/requests/l1/reject", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, leave.StatusApproved, store.requests["l1"].Status)
}

func TestEmployeeCannotApprove(t *testing.T) {
	store := &memStore{requests: map[string]leave.Request{"l1": {ID: "l1", Status: leave.StatusPending}}}
	rec := do(newRouter(store, employee), http.MethodPost, "/leave/requests/l1/approve", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelByOtherEmployee(t *testing.T) {
	store := &memStore{requests: map[string]leave.Request{"l1": {ID: "l1", EmployeeID: "e7", Status: leave.StatusPending}}}
	rec := do(newRouter(store, employee), http.MethodPost, "/leave/requests/l1/cancel", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, leave.StatusPending, store.requests["l1"].Status)
}
