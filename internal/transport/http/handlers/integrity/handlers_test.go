package integrityhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/integrity"
	"hrdash/internal/transport/http/middleware"
)

type memStore struct {
	subjects []integrity.Subject
	refs     []integrity.AlertRef
	saved    map[string]integrity.Entry
}

func (m *memStore) Subjects(context.Context) ([]integrity.Subject, error)  { return m.subjects, nil }
func (m *memStore) AlertRefs(context.Context) ([]integrity.AlertRef, error) { return m.refs, nil }

func (m *memStore) Upsert(_ context.Context, e integrity.Entry) error {
	m.saved[e.EmployeeID] = e
	return nil
}

func (m *memStore) List(context.Context) ([]integrity.Entry, error) {
	out := make([]integrity.Entry, 0, len(m.saved))
	for _, e := range m.saved {
		out = append(out, e)
	}
	return out, nil
}

func newRouter(store *memStore, role string) http.Handler {
	h := NewHandler(integrity.NewService(store), auth.StaticPermissions{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func TestRecalculateScoresEveryEmployee(t *testing.T) {
	store := &memStore{
		subjects: []integrity.Subject{{ID: "e1", Name: "Mona Adel"}, {ID: "e2", Name: "Omar Said"}},
		refs:     []integrity.AlertRef{{EmployeeID: "e1"}, {EmployeeName: "mona adel"}},
		saved:    map[string]integrity.Entry{},
	}
	router := newRouter(store, auth.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrity/recalculate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":2`)
	assert.Equal(t, 2, store.saved["e1"].ViolationCount)
	assert.Equal(t, 0, store.saved["e2"].ViolationCount)
}

func TestRecalculateForbiddenForHR(t *testing.T) {
	router := newRouter(&memStore{saved: map[string]integrity.Entry{}}, auth.RoleHR)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/integrity/recalculate", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/integrity/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
