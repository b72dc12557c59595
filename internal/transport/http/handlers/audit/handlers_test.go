package audithandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/middleware"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// brokenDB fails every statement the way a dropped table would.
type brokenDB struct {
	queries []string
}

var missingTable = &pgconn.PgError{Code: "42P01", Message: `relation "audit_events" does not exist`}

func (b *brokenDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, missingTable
}

func (b *brokenDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	b.queries = append(b.queries, sql)
	return nil, missingTable
}

func (b *brokenDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: missingTable}
}

func newRouter(db *brokenDB, role string) http.Handler {
	h := NewHandler(audit.New(db), auth.StaticPermissions{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: role})))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func TestAuditReadIsAdminOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&brokenDB{}, auth.RoleHR).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListSurfacesDatabaseError(t *testing.T) {
	db := &brokenDB{}
	rec := httptest.NewRecorder()
	newRouter(db, auth.RoleAdmin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events?action=payroll.purge_all", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "42P01")
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "action = $1")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&brokenDB{}, auth.RoleAdmin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events/export?format=json", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRejectsInvertedDateRange(t *testing.T) {
	db := &brokenDB{}
	rec := httptest.NewRecorder()
	newRouter(db, auth.RoleAdmin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events?from=2026-03-10&to=2026-03-01", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
	assert.Empty(t, db.queries)
}
