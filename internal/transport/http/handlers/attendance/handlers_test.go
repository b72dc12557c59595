package attendancehandler

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

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/attendance"
	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/middleware"
)

type logStore struct {
	attendance.StoreAPI
	inserted  []attendance.Log
	listedFor []string
}

func (s *logStore) InsertLog(_ context.Context, l attendance.Log) (string, error) {
	s.inserted = append(s.inserted, l)
	return "log-1", nil
}

func (s *logStore) ListLogs(_ context.Context, employeeID string, _ time.Time, _ int) ([]attendance.Log, error) {
	s.listedFor = append(s.listedFor, employeeID)
	return nil, nil
}

type alertStore struct {
	alerts.StoreAPI
	created []alerts.Alert
}

func (s *alertStore) Create(_ context.Context, a alerts.Alert) (alerts.Alert, error) {
	s.created = append(s.created, a)
	return a, nil
}

func newRouter(store *logStore, alertsStore *alertStore, user auth.UserContext) http.Handler {
	svc := attendance.NewService(store, attendance.NewRecorder(store, nil, nil), attendance.Geofence{}, nil)
	h := NewHandler(svc, auth.StaticPermissions{}, alerts.NewService(alertsStore), nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestEvaluateReturnsStatus(t *testing.T) {
	router := newRouter(&logStore{}, &alertStore{}, auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleEmployee})
	rec := post(router, "/attendance/evaluate", `{"signals":{"inGeofence":true,"correctWifi":false}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"WRONG_WIFI"`)
}

func TestPunchReadyInsertsLog(t *testing.T) {
	store := &logStore{}
	router := newRouter(store, &alertStore{}, auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleEmployee})
	rec := post(router, "/attendance/punch", `{"signals":{"inGeofence":true,"correctWifi":true}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, attendance.LogCheckIn, store.inserted[0].LogType)
	assert.Equal(t, "09:00", store.inserted[0].ShiftStart)
}

func TestPunchOfflineKeepsLocalRecord(t *testing.T) {
	store := &logStore{}
	router := newRouter(store, &alertStore{}, auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleEmployee})
	rec := post(router, "/attendance/punch", `{"signals":{"inGeofence":true,"correctWifi":true},"offline":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, store.inserted)
	assert.Contains(t, rec.Body.String(), attendance.FlagOfflineEncrypted)
}

func TestPunchMockLocationRaisesAlert(t *testing.T) {
	store := &logStore{}
	alertsStore := &alertStore{}
	router := newRouter(store, alertsStore, auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleEmployee})
	rec := post(router, "/attendance/punch", `{"signals":{"inGeofence":true,"correctWifi":true,"mockLocationDetected":true}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, store.inserted)
	require.Len(t, alertsStore.created, 1)
	assert.Equal(t, alerts.TypeMockLocation, alertsStore.created[0].Type)
	assert.Equal(t, "e1", alertsStore.created[0].EmployeeID)
}

func TestLogsScopedToSelfWithoutReadPermission(t *testing.T) {
	store := &logStore{}
	router := newRouter(store, &alertStore{}, auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleEmployee})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/logs?employeeId=e2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"e1"}, store.listedFor)
}
