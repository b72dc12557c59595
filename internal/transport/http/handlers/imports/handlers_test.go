package importshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/core"
	"hrdash/internal/domain/importer"
	"hrdash/internal/platform/jobs"
	"hrdash/internal/transport/http/middleware"
)

type memDirectory struct {
	importer.Directory
	existing map[string]core.Employee
	created  chan core.Employee
}

func (m *memDirectory) GetEmployeeByEmail(_ context.Context, email string) (*core.Employee, error) {
	emp, ok := m.existing[email]
	if !ok {
		return nil, core.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (m *memDirectory) CreateEmployee(_ context.Context, emp core.Employee) (string, error) {
	m.created <- emp
	return "new", nil
}

func (m *memDirectory) UpdateEmployee(context.Context, string, core.Employee) error { return nil }
func (m *memDirectory) ListDepartments(context.Context) ([]core.Department, error)   { return nil, nil }
func (m *memDirectory) ListBranches(context.Context) ([]core.Branch, error)          { return nil, nil }
func (m *memDirectory) ListShifts(context.Context) ([]core.Shift, error)             { return nil, nil }

func newRouter(dir *memDirectory, maxBytes int64) (http.Handler, *importer.Service) {
	svc := importer.NewService(dir, jobs.New(nil), context.Background())
	h := NewHandler(svc, auth.StaticPermissions{}, nil, maxBytes)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleHR})))
		})
	})
	h.RegisterRoutes(r)
	return r, svc
}

func upload(router http.Handler, filename, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", filename)
	_, _ = part.Write([]byte(content))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports/employees", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Data importer.Progress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data.ID
}

func TestUploadRunsInBackground(t *testing.T) {
	dir := &memDirectory{existing: map[string]core.Employee{}, created: make(chan core.Employee, 1)}
	router, svc := newRouter(dir, 1<<20)

	rec := upload(router, "staff.csv", "email,first name,last name\nnew@example.com,Nour,Ali\n")
	require.Equal(t, http.StatusAccepted, rec.Code)
	id := sessionID(t, rec)
	require.NotEmpty(t, id)

	select {
	case emp := <-dir.created:
		assert.Equal(t, "new@example.com", emp.Email)
	case <-time.After(2 * time.Second):
		t.Fatal("employee was not created")
	}
	require.Eventually(t, func() bool {
		p, err := svc.Progress(id)
		return err == nil && p.Status == importer.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/imports/"+id, nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), `"created":1`)
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	router, _ := newRouter(&memDirectory{}, 1<<20)
	rec := upload(router, "staff.pdf", "%PDF-1.4")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	router, _ := newRouter(&memDirectory{}, 16)
	rec := upload(router, "staff.csv", "email,first name\n"+strings.Repeat("x@example.com,X\n", 10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDecisionValidation(t *testing.T) {
	router, _ := newRouter(&memDirectory{}, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/imports/missing/decisions/d1", strings.NewReader(`{"decision":"merge"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/imports/missing/decisions/d1", strings.NewReader(`{"decision":"keep"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
