package integrityhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/integrity"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	Service *integrity.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *integrity.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/integrity", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermIntegrityRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermIntegrityRun, h.Perms)).Post("/recalculate", h.handleRecalculate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	entries, err := h.Service.List(r.Context())
	if err != nil {
		api.FailRemote(w, "integrity_list_failed", err, reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	result, err := h.Service.Recalculate(r.Context())
	if err != nil {
		api.FailRemote(w, "integrity_recalculate_failed", err, reqID)
		return
	}
	api.Success(w, result, reqID)
}
