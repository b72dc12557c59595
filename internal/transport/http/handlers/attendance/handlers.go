package attendancehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/appstate"
	"hrdash/internal/domain/attendance"
	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Perms   middleware.PermissionStore
	Alerts  *alerts.Service
	State   *appstate.Service
}

func NewHandler(service *attendance.Service, perms middleware.PermissionStore, alertSvc *alerts.Service, state *appstate.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Alerts: alertSvc, State: state}
}

type punchRequest struct {
	attendance.Input
	Offline bool `json:"offline"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendancePunch, h.Perms)).Post("/evaluate", h.handleEvaluate)
		r.With(middleware.RequirePermission(auth.PermAttendancePunch, h.Perms)).Post("/punch", h.handlePunch)
		r.With(middleware.RequirePermission(auth.PermAttendancePunch, h.Perms)).Get("/session", h.handleSession)
		r.With(middleware.RequireAuth).Get("/logs", h.handleLogs)
	})
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload attendance.Input
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	signals, eval := h.Service.Evaluate(payload)
	api.Success(w, map[string]any{"signals": signals, "evaluation": eval}, reqID)
}

func (h *Handler) handlePunch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "no_employee", "signed-in user has no employee record", reqID)
		return
	}
	var payload punchRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	record, err := h.Service.Punch(r.Context(), user.EmployeeID, payload.Input, !payload.Offline)
	if errors.Is(err, attendance.ErrNotReady) {
		h.raiseSecurityAlert(r, user.EmployeeID, h.Service.Signals(payload.Input))
		api.Fail(w, http.StatusUnprocessableEntity, "not_ready", err.Error(), reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "attendance_sync_failed", err, reqID)
		return
	}
	api.Created(w, record, reqID)
}

func (h *Handler) raiseSecurityAlert(r *http.Request, employeeID string, signals attendance.Signals) {
	if h.Alerts == nil {
		return
	}
	alert, ok := attendance.SecurityAlert(signals)
	if !ok {
		return
	}
	alert.EmployeeID = employeeID
	if h.State != nil {
		if emp, found := h.State.Loaded().EmployeeByID(employeeID); found {
			alert.EmployeeName = emp.FullName()
		}
	}
	if _, err := h.Alerts.Raise(r.Context(), alert); err != nil {
		slog.Warn("security alert raise failed", "employeeId", employeeID, "type", alert.Type, "err", err)
	}
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, h.Service.SessionRecords(user.EmployeeID), reqID)
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" || employeeID != user.EmployeeID {
		canReadAll, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermAttendanceRead)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", reqID)
			return
		}
		if !canReadAll {
			if user.EmployeeID == "" {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
				return
			}
			employeeID = user.EmployeeID
		}
	}

	since := time.Now().AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_since", "since must be a valid date", reqID)
			return
		}
		since = parsed
	}
	page := shared.ParsePagination(r, 100, 500)

	logs, err := h.Service.ListLogs(r.Context(), employeeID, since, page.Limit)
	if err != nil {
		api.FailRemote(w, "attendance_logs_failed", err, reqID)
		return
	}
	api.Success(w, logs, reqID)
}
