package announcementshandler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/announcements"
	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *announcements.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *announcements.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

type postRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"max=5000"`
	Priority  string `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	ExpiresAt string `json:"expiresAt"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/announcements", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsPost, h.Perms)).Post("/", h.handlePost)
		r.With(middleware.RequirePermission(auth.PermAnnouncementsPost, h.Perms)).Post("/{announcementID}/deactivate", h.handleDeactivate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	items, err := h.Service.ListActive(r.Context())
	if err != nil {
		api.FailRemote(w, "announcements_list_failed", err, reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload postRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.Priority = strings.ToUpper(strings.TrimSpace(payload.Priority))
	v := shared.NewValidator()
	v.Struct(payload)
	var expiresAt *time.Time
	if strings.TrimSpace(payload.ExpiresAt) != "" {
		if parsed, ok := v.Date("expiresAt", payload.ExpiresAt); ok {
			expiresAt = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.Post(r.Context(), announcements.Announcement{
		Title:     payload.Title,
		Body:      payload.Body,
		Priority:  payload.Priority,
		ExpiresAt: expiresAt,
		CreatedBy: user.UserID,
	})
	switch {
	case errors.Is(err, announcements.ErrTitleRequired):
		shared.FailField(w, reqID, "title", "is required")
		return
	case errors.Is(err, announcements.ErrAlreadyExpired):
		shared.FailField(w, reqID, "expiresAt", "must be in the future")
		return
	case err != nil:
		api.FailRemote(w, "announcement_post_failed", err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Service.Deactivate(r.Context(), chi.URLParam(r, "announcementID"))
	if errors.Is(err, announcements.ErrAnnouncementNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "announcement not found", reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "announcement_deactivate_failed", err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, reqID)
}
