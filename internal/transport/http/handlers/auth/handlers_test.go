package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/middleware"
)

type stubStore struct {
	auth.StoreAPI
	user     auth.AuthUser
	failures int
}

func (s *stubStore) FindActiveUserByEmail(_ context.Context, email string) (auth.AuthUser, error) {
	if email != s.user.Email {
		return auth.AuthUser{}, auth.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubStore) UpdateLastLogin(context.Context, string) error { return nil }

func (s *stubStore) RecordFailedLogin(context.Context, string, string) error {
	s.failures++
	return nil
}

func (s *stubStore) CountFailedLogins(context.Context, string, time.Time) (int, error) {
	return s.failures, nil
}

func (s *stubStore) Profile(_ context.Context, userID string) (auth.Profile, error) {
	if userID != s.user.ID {
		return auth.Profile{}, auth.ErrUserNotFound
	}
	return auth.Profile{UserID: s.user.ID, Email: s.user.Email, Role: s.user.Role}, nil
}

func newRouter(t *testing.T) (http.Handler, *stubStore) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	store := &stubStore{user: auth.AuthUser{ID: "u1", Email: "hr@example.com", PasswordHash: hash, Role: auth.RoleHR}}
	h := NewHandler(auth.NewService(store, "test-secret", 3, time.Minute))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth("test-secret"))
	h.RegisterPublic(r)
	h.RegisterRoutes(r)
	return r, store
}

func TestLoginThenMe(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"hr@example.com","password":"s3cret-pass"}`))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data auth.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"hr@example.com"`)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	router, store := newRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"hr@example.com","password":"nope"}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, store.failures)
}

func TestLoginValidatesPayload(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestMeRequiresToken(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
