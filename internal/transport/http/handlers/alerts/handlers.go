package alertshandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *alerts.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *alerts.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

type raiseRequest struct {
	EmployeeID   string `json:"employeeId" validate:"omitempty,uuid"`
	EmployeeName string `json:"employeeName" validate:"max=200"`
	Type         string `json:"alertType" validate:"required,max=60"`
	Severity     string `json:"severity"`
	Message      string `json:"message" validate:"max=2000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAlertsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAlertsRead, h.Perms)).Get("/count", h.handleCount)
		r.With(middleware.RequirePermission(auth.PermAlertsWrite, h.Perms)).Post("/", h.handleRaise)
		r.With(middleware.RequirePermission(auth.PermAlertsWrite, h.Perms)).Post("/{alertID}/read", h.handleMarkRead)
		r.With(middleware.RequirePermission(auth.PermAlertsWrite, h.Perms)).Post("/{alertID}/resolve", h.handleResolve)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Service.List(r.Context(), alerts.Filter{
		IncludeResolved: shared.QueryFlag(r, "includeResolved"),
		Limit:           page.Limit,
		Offset:          page.Offset,
	})
	if err != nil {
		api.FailRemote(w, "alerts_list_failed", err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	open, err := h.Service.CountOpen(r.Context())
	if err != nil {
		api.FailRemote(w, "alerts_count_failed", err, reqID)
		return
	}
	api.Success(w, map[string]int{"open": open}, reqID)
}

func (h *Handler) handleRaise(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload raiseRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.Severity != "" && !alerts.ValidSeverity(strings.ToUpper(payload.Severity)) {
		v.Add("severity", "must be one of: LOW, MEDIUM, HIGH, CRITICAL")
	}
	if v.Reject(w, reqID) {
		return
	}
	alert, err := h.Service.Raise(r.Context(), alerts.Alert{
		EmployeeID:   payload.EmployeeID,
		EmployeeName: payload.EmployeeName,
		Type:         payload.Type,
		Severity:     payload.Severity,
		Message:      payload.Message,
	})
	switch {
	case errors.Is(err, alerts.ErrTypeRequired):
		shared.FailField(w, reqID, "alertType", "is required")
		return
	case err != nil:
		api.FailRemote(w, "alert_raise_failed", err, reqID)
		return
	}
	api.Created(w, alert, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	h.respond(w, h.Service.MarkRead(r.Context(), chi.URLParam(r, "alertID")), "read", reqID)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	h.respond(w, h.Service.Resolve(r.Context(), chi.URLParam(r, "alertID")), "resolved", reqID)
}

func (h *Handler) respond(w http.ResponseWriter, err error, status, reqID string) {
	if errors.Is(err, alerts.ErrAlertNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "alert not found", reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "alert_update_failed", err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": status}, reqID)
}
