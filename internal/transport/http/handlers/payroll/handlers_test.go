package payrollhandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/core"
	"hrdash/internal/domain/payroll"
	"hrdash/internal/transport/http/middleware"
)

type memStore struct {
	payroll.StoreAPI
	batch       payroll.Batch
	records     []payroll.Record
	insertCalls int
	failInsert  map[int]bool
	batchErr    error
	totalsErr   error
}

func (m *memStore) CreateBatch(_ context.Context, name string, count int) (payroll.Batch, error) {
	m.batch = payroll.Batch{ID: "b1", Name: name, EmployeeCount: count, Status: payroll.BatchStatusDraft}
	return m.batch, nil
}

func (m *memStore) InsertRecords(_ context.Context, records []payroll.Record) error {
	call := m.insertCalls
	m.insertCalls++
	if m.failInsert[call] {
		return errors.New("insert timeout")
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *memStore) BatchTotals(context.Context, string) (int, float64, error) {
	total := 0.0
	for _, r := range m.records {
		total += r.NetSalary
	}
	return len(m.records), total, nil
}

func (m *memStore) UpdateBatchTotals(_ context.Context, _ string, count int, total float64) error {
	if m.totalsErr != nil {
		return m.totalsErr
	}
	m.batch.EmployeeCount = count
	m.batch.TotalAmount = total
	return nil
}

func (m *memStore) DeleteAllRecords(context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *memStore) DeleteAllBatches(context.Context) (int64, error) {
	if m.batchErr != nil {
		return 0, m.batchErr
	}
	return 1, nil
}

func (m *memStore) GetBatch(_ context.Context, id string) (payroll.Batch, error) {
	if id != m.batch.ID {
		return payroll.Batch{}, payroll.ErrBatchNotFound
	}
	return m.batch, nil
}

type employees []core.Employee

func (e employees) CountEmployees(context.Context) (int, error) { return len(e), nil }

func (e employees) ListEmployees(context.Context) ([]core.Employee, error) { return e, nil }

func newRouter(store *memStore, staff employees, chunkSize int, role string) http.Handler {
	builder := payroll.NewBuilder(store, staff, nil, chunkSize)
	svc := payroll.NewService(store, builder, payroll.NewReconciler(store, 20), nil)
	h := NewHandler(svc, nil, auth.StaticPermissions{}, nil, nil)
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

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreateBatchReportsChunkWarningWith201(t *testing.T) {
	store := &memStore{failInsert: map[int]bool{1: true}}
	staff := employees{
		{ID: "e1", BasicSalary: 100, Status: core.StatusActive},
		{ID: "e2", BasicSalary: 200, Status: core.StatusActive},
		{ID: "e3", BasicSalary: 300, Status: core.StatusActive},
	}
	router := newRouter(store, staff, 2, auth.RoleHR)

	rec := do(router, http.MethodPost, "/payroll/batches/", `{"name":"March"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 of 2 chunks failed")
	assert.Contains(t, rec.Body.String(), `"employeeCount":2`)
	assert.Contains(t, rec.Body.String(), `"totalAmount":300`)
}

func TestCreateBatchSurfacesUnpatchedHeader(t *testing.T) {
	store := &memStore{totalsErr: errors.New("lock timeout")}
	staff := employees{{ID: "e1", BasicSalary: 100, Status: core.StatusActive}}
	router := newRouter(store, staff, 10, auth.RoleHR)

	rec := do(router, http.MethodPost, "/payroll/batches/", `{"name":"April"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payroll_totals_not_patched"`)
	assert.Contains(t, rec.Body.String(), `"batchId":"b1"`)
}

func TestCreateBatchRequiresName(t *testing.T) {
	router := newRouter(&memStore{}, nil, 500, auth.RoleHR)
	rec := do(router, http.MethodPost, "/payroll/batches/", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestPurgeAllNeedsBothConfirmations(t *testing.T) {
	router := newRouter(&memStore{}, nil, 500, auth.RoleAdmin)
	rec := do(router, http.MethodDelete, "/payroll/all", `{"confirm":true}`)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestPurgeAllForbiddenForHR(t *testing.T) {
	router := newRouter(&memStore{}, nil, 500, auth.RoleHR)
	rec := do(router, http.MethodDelete, "/payroll/all", `{"confirm":true,"confirmAgain":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPurgeAllReportsPartialProgress(t *testing.T) {
	store := &memStore{records: []payroll.Record{{ID: "r1"}, {ID: "r2"}}, batchErr: errors.New("fk violation")}
	router := newRouter(store, nil, 500, auth.RoleAdmin)
	rec := do(router, http.MethodDelete, "/payroll/all", `{"confirm":true,"confirmAgain":true}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recordsDeleted":2`)
	assert.Contains(t, rec.Body.String(), `"batchesDeleted":0`)
}

func TestGetUnknownBatchIs404(t *testing.T) {
	router := newRouter(&memStore{}, nil, 500, auth.RoleHR)
	rec := do(router, http.MethodGet, "/payroll/batches/missing/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
