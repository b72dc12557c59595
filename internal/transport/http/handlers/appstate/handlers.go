package appstatehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/appstate"
	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	State *appstate.Service
	Perms middleware.PermissionStore
}

func NewHandler(state *appstate.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{State: state, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/state", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermStateRefresh, h.Perms)).Post("/refresh", h.handleRefresh)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	snap, err := h.State.Current(r.Context())
	if err != nil {
		api.FailRemote(w, "state_load_failed", err, reqID)
		return
	}
	api.Success(w, snap.Meta(), reqID)
}

// handleRefresh re-reads everything from the database. On failure the
// previous snapshot stays published.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	snap, err := h.State.Refresh(r.Context())
	if err != nil {
		api.FailRemote(w, "state_refresh_failed", err, reqID)
		return
	}
	api.Success(w, snap.Meta(), reqID)
}
