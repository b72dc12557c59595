package appstatehandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/appstate"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/core"
	"hrdash/internal/transport/http/middleware"
)

type directory struct {
	employees []core.Employee
	err       error
}

func (d *directory) ListEmployees(context.Context) ([]core.Employee, error) {
	return d.employees, d.err
}

func (d *directory) ListBranches(context.Context) ([]core.Branch, error) { return nil, nil }

func (d *directory) ListDepartments(context.Context) ([]core.Department, error) { return nil, nil }

type noAlerts struct{}

func (noAlerts) List(context.Context, alerts.Filter) ([]alerts.Alert, error) { return nil, nil }

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	dir := &directory{employees: []core.Employee{{ID: "e1", Status: core.StatusActive}}}
	state := appstate.NewService(dir, noAlerts{})
	h := NewHandler(state, auth.StaticPermissions{})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleHR})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activeEmployees":1`)

	dir.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state/refresh", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"employees":1`)
}
