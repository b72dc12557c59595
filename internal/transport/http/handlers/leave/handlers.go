package leavehandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/appstate"
	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/leave"
	"hrdash/internal/domain/notifications"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
	Audit   *audit.Service
	State   *appstate.Service
}

func NewHandler(service *leave.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, state *appstate.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc, State: state}
}

type leaveRequest struct {
	EmployeeID string `json:"employeeId" validate:"omitempty,uuid"`
	LeaveType  string `json:"leaveType" validate:"required"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate" validate:"required"`
	StartHalf  bool   `json:"startHalf"`
	EndHalf    bool   `json:"endHalf"`
	Reason     string `json:"reason" validate:"max=2000"`
}

type missionRequest struct {
	EmployeeID  string `json:"employeeId" validate:"omitempty,uuid"`
	Destination string `json:"destination" validate:"required,max=200"`
	Purpose     string `json:"purpose" validate:"max=2000"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
}

var leaveTypes = []string{leave.TypeAnnual, leave.TypeSick, leave.TypeCasual, leave.TypeUnpaid, leave.TypeMaternity}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleDecideRequest(true))
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleDecideRequest(false))
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests/{requestID}/cancel", h.handleCancelRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Get("/pending-count", h.handlePendingCount)

		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/missions", h.handleListMissions)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/missions", h.handleCreateMission)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/missions/{missionID}/approve", h.handleDecideMission(true))
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/missions/{missionID}/reject", h.handleDecideMission(false))
	})
}

func (h *Handler) isApprover(ctx context.Context) bool {
	return middleware.Can(ctx, h.Perms, auth.PermLeaveApprove)
}

// subject resolves whose leave a request acts on. Approvers may act for any
// employee; everyone else is pinned to their own profile.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request, requested, reqID string) (string, bool) {
	user, _ := middleware.GetUser(r.Context())
	if requested != "" && requested != user.EmployeeID {
		if !h.isApprover(r.Context()) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot act for another employee", reqID)
			return "", false
		}
		return requested, true
	}
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee profile linked", reqID)
		return "", false
	}
	return user.EmployeeID, true
}

func (h *Handler) listFilter(w http.ResponseWriter, r *http.Request, reqID string) (leave.Filter, bool) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	filter := leave.Filter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     strings.ToUpper(r.URL.Query().Get("status")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if !h.isApprover(r.Context()) {
		if user.EmployeeID == "" {
			api.Fail(w, http.StatusForbidden, "forbidden", "no employee profile linked", reqID)
			return leave.Filter{}, false
		}
		filter.EmployeeID = user.EmployeeID
	}
	return filter, true
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter, ok := h.listFilter(w, r, reqID)
	if !ok {
		return
	}
	items, err := h.Service.ListRequests(r.Context(), filter)
	if err != nil {
		api.FailRemote(w, "leave_list_failed", err, reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err == nil && req.EmployeeID != user.EmployeeID && !h.isApprover(r.Context()) {
		err = leave.ErrRequestNotFound
	}
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Success(w, req, reqID)
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload leaveRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.LeaveType = strings.ToUpper(strings.TrimSpace(payload.LeaveType))

	v := shared.NewValidator()
	v.Struct(payload)
	v.OneOf("leaveType", payload.LeaveType, leaveTypes)
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, reqID) {
		return
	}
	employeeID, ok := h.subject(w, r, payload.EmployeeID, reqID)
	if !ok {
		return
	}

	created, err := h.Service.CreateRequest(r.Context(), leave.Request{
		EmployeeID: employeeID,
		LeaveType:  payload.LeaveType,
		StartDate:  start,
		EndDate:    end,
		StartHalf:  payload.StartHalf,
		EndHalf:    payload.EndHalf,
		Reason:     payload.Reason,
	})
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleDecideRequest(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		user, _ := middleware.GetUser(r.Context())
		req, err := h.Service.Decide(r.Context(), chi.URLParam(r, "requestID"), approve)
		if err != nil {
			h.fail(w, err, reqID)
			return
		}
		if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionLeaveDecide, "leave_request", req.ID, nil, req); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionLeaveDecide, "err", err)
		}
		h.notifyEmployee(r.Context(), req.EmployeeID, notifications.TypeLeave,
			fmt.Sprintf("Leave request %s", strings.ToLower(req.Status)),
			fmt.Sprintf("Your %s leave from %s to %s was %s.", strings.ToLower(req.LeaveType),
				req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), strings.ToLower(req.Status)))
		api.Success(w, req, reqID)
	}
}

func (h *Handler) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Cancel(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID); err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": leave.StatusCancelled}, reqID)
}

func (h *Handler) handlePendingCount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	pending, err := h.Service.CountPending(r.Context())
	if err != nil {
		api.FailRemote(w, "leave_count_failed", err, reqID)
		return
	}
	api.Success(w, map[string]int{"pending": pending}, reqID)
}

func (h *Handler) handleListMissions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter, ok := h.listFilter(w, r, reqID)
	if !ok {
		return
	}
	items, err := h.Service.ListMissions(r.Context(), filter)
	if err != nil {
		api.FailRemote(w, "missions_list_failed", err, reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleCreateMission(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload missionRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, reqID) {
		return
	}
	employeeID, ok := h.subject(w, r, payload.EmployeeID, reqID)
	if !ok {
		return
	}

	created, err := h.Service.CreateMission(r.Context(), leave.Mission{
		EmployeeID:  employeeID,
		Destination: payload.Destination,
		Purpose:     payload.Purpose,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleDecideMission(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		user, _ := middleware.GetUser(r.Context())
		m, err := h.Service.DecideMission(r.Context(), chi.URLParam(r, "missionID"), approve)
		if err != nil {
			h.fail(w, err, reqID)
			return
		}
		if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionMissionDecide, "mission", m.ID, nil, m); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionMissionDecide, "err", err)
		}
		h.notifyEmployee(r.Context(), m.EmployeeID, notifications.TypeMission,
			fmt.Sprintf("Mission %s", strings.ToLower(m.Status)),
			fmt.Sprintf("Your mission to %s was %s.", m.Destination, strings.ToLower(m.Status)))
		api.Success(w, m, reqID)
	}
}

// notifyEmployee resolves the employee's login through the loaded snapshot.
// Employees without a linked user are skipped.
func (h *Handler) notifyEmployee(ctx context.Context, employeeID, kind, title, body string) {
	if h.Notify == nil || h.State == nil {
		return
	}
	emp, ok := h.State.Loaded().EmployeeByID(employeeID)
	if !ok || emp.UserID == "" {
		return
	}
	if err := h.Notify.Notify(ctx, emp.UserID, kind, title, body); err != nil {
		slog.Warn("leave notification failed", "employeeId", employeeID, "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
	case errors.Is(err, leave.ErrMissionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "mission not found", reqID)
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), reqID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the requester can cancel", reqID)
	case errors.Is(err, leave.ErrInvalidType):
		shared.FailField(w, reqID, "leaveType", shared.OneOfReason(leaveTypes))
	case errors.Is(err, leave.ErrInvalidRange):
		shared.FailField(w, reqID, "endDate", "must leave at least half a day after start")
	case errors.Is(err, leave.ErrDestinationEmpty):
		shared.FailField(w, reqID, "destination", "is required")
	default:
		api.FailRemote(w, "leave_request_failed", err, reqID)
	}
}
