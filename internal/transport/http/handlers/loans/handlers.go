package loanshandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/loans"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *loans.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *loans.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/loans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLoansRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLoansWrite, h.Perms)).Post("/", h.handleCreate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := r.URL.Query().Get("employeeId")
	if !middleware.Can(r.Context(), h.Perms, auth.PermLoansWrite) {
		if user.EmployeeID == "" {
			api.Fail(w, http.StatusForbidden, "forbidden", "no employee profile linked", reqID)
			return
		}
		employeeID = user.EmployeeID
	}

	items, err := h.Service.List(r.Context(), employeeID, shared.QueryFlag(r, "active"))
	if err != nil {
		api.FailRemote(w, "loans_list_failed", err, reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload loans.Loan
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.MonthlyInstallment > payload.Amount && payload.Amount > 0 {
		v.Add("monthlyInstallment", "must not exceed amount")
	}
	if v.Reject(w, reqID) {
		return
	}

	loan, err := h.Service.Create(r.Context(), payload)
	switch {
	case errors.Is(err, loans.ErrInvalidAmount):
		shared.FailField(w, reqID, "amount", "must be greater than 0")
		return
	case errors.Is(err, loans.ErrInvalidInstallment):
		shared.FailField(w, reqID, "monthlyInstallment", "must be positive and not exceed amount")
		return
	case err != nil:
		api.FailRemote(w, "loan_create_failed", err, reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionLoanCreate, "loan", loan.ID, nil, loan); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionLoanCreate, "err", err)
	}
	api.Created(w, loan, reqID)
}
